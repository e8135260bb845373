package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

// UploadHandler stores the first file-bearing field of a multipart body.
// Fields without a file name are skipped; any fields after the first file
// are ignored. One file per request is the documented policy.
func (s *Server) UploadHandler() http.HandlerFunc {
	maxBytes := s.config.GetMaxUploadBytes()

	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFromContext(r.Context())
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		reader, err := r.MultipartReader()
		if err != nil {
			writeUploadError(w, apperrors.Wrapf(apperrors.ErrMalformedMultipart, "%v", err))
			return
		}

		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				writeUploadError(w, apperrors.ErrNoFileField)
				return
			}
			if err != nil {
				writeUploadError(w, classifyMultipartError(err))
				return
			}
			if part.FileName() == "" {
				part.Close()
				continue
			}

			artifact, err := s.uploads.Save(r.Context(), part.FileName(), part)
			part.Close()
			if err != nil {
				log.Err(err).Str("user_id", principal.Identity.String()).Msg("Upload failed")
				writeUploadError(w, err)
				return
			}

			log.Info().
				Str("user_id", principal.Identity.String()).
				Str("file", artifact.Name).
				Int64("size", artifact.Size).
				Str("content_type", artifact.ContentType).
				Msg("Stored upload")

			w.Header().Set("Content-Type", contentTypeText)
			w.Header().Set("X-Detected-Content-Type", artifact.ContentType)
			_, _ = io.WriteString(w, artifact.Name)
			return
		}
	}
}

func classifyMultipartError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Join(apperrors.ErrUploadTooLarge, err)
	}
	return apperrors.Join(apperrors.ErrMalformedMultipart, err)
}

// uploadStatus maps upload errors to a status code and a static message.
// Underlying causes are never written to the client.
func uploadStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), apperrors.Is(err, apperrors.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "Upload too large"
	case apperrors.Is(err, apperrors.ErrNoFileField):
		return http.StatusBadRequest, "No file field found"
	case apperrors.Is(err, apperrors.ErrMalformedMultipart):
		return http.StatusBadRequest, "Malformed multipart body"
	case errors.Is(err, context.Canceled):
		return http.StatusInternalServerError, "Upload cancelled"
	default:
		return http.StatusInternalServerError, "Upload failed"
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	status, message := uploadStatus(err)
	if status != http.StatusInternalServerError {
		log.Debug().Err(err).Int("status", status).Msg("Rejected upload")
	}
	http.Error(w, message, status)
}
