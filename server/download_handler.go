package server

import (
	"crypto/rand"
	mathrand "math/rand/v2"
	"mime"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	downloadFilename  = "random.bin"
	downloadChunkSize = 64 * 1024
)

// DownloadHandler streams a fixed size payload of fresh pseudo-random bytes.
// Transfer rate limits belong to the proxy in front of this service.
func (s *Server) DownloadHandler() http.HandlerFunc {
	size := s.config.GetDownloadSize()
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": downloadFilename})

	return func(w http.ResponseWriter, r *http.Request) {
		var seed [32]byte
		if _, err := rand.Read(seed[:]); err != nil {
			log.Err(err).Msg("Failed to seed download generator")
			http.Error(w, "Download failed", http.StatusInternalServerError)
			return
		}
		gen := mathrand.NewChaCha8(seed)

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", disposition)
		w.Header().Set("Content-Length", strconv.Itoa(size))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)

		buf := make([]byte, downloadChunkSize)
		for written := 0; written < size; {
			if err := r.Context().Err(); err != nil {
				log.Debug().Err(err).Int("written", written).Msg("Download abandoned")
				return
			}
			chunk := buf[:min(downloadChunkSize, size-written)]
			_, _ = gen.Read(chunk)
			n, err := w.Write(chunk)
			written += n
			if err != nil {
				log.Debug().Err(err).Int("written", written).Msg("Download abandoned")
				return
			}
		}
	}
}
