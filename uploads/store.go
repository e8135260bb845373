// Package uploads holds uploaded artifacts in a process scoped directory.
package uploads

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	// PartialSuffix marks files that are still being written. A file with
	// this suffix is never a complete upload.
	PartialSuffix = ".partial"

	fallbackName = "upload.bin"
	maxNameLen   = 200
	sniffLen     = 3072
)

// Artifact describes a stored upload.
type Artifact struct {
	Name        string // generated unique file name
	Size        int64
	ContentType string // sniffed from the leading bytes
}

// Store places uploads into a single root directory. Names are made unique
// per call so concurrent saves never share a path and need no locking.
type Store struct {
	root      string
	owned     bool
	closeOnce sync.Once
	closeErr  error
}

// New opens a store rooted at dir. An empty dir creates a fresh temporary
// directory that is removed by Close.
func New(dir string) (*Store, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "session-gateway-uploads-*")
		if err != nil {
			return nil, fmt.Errorf("[uploads New] failed to create temp dir: %w", err)
		}
		return &Store{root: tmp, owned: true}, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("[uploads New] invalid dir %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("[uploads New] failed to create %q: %w", abs, err)
	}
	return &Store{root: abs}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Save streams src into a new artifact named "<uuid>_<clientName>". The
// bytes land in a ".partial" file first and are renamed once complete; on
// any failure, including ctx cancellation, the partial file is removed.
func (s *Store) Save(ctx context.Context, clientName string, src io.Reader) (Artifact, error) {
	name := uuid.NewString() + "_" + SanitizeName(clientName)
	final := filepath.Join(s.root, name)
	partial := final + PartialSuffix

	f, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: create: %w", apperrors.ErrUploadIO, err)
	}

	size, contentType, copyErr := copySniffed(f, &contextReader{ctx: ctx, r: src})
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		if rmErr := os.Remove(partial); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Err(rmErr).Str("file", partial).Msg("Failed to remove partial upload")
		}
		if copyErr != nil {
			return Artifact{}, fmt.Errorf("%w: write: %w", apperrors.ErrUploadIO, copyErr)
		}
		return Artifact{}, fmt.Errorf("%w: close: %w", apperrors.ErrUploadIO, closeErr)
	}

	if err := os.Rename(partial, final); err != nil {
		_ = os.Remove(partial)
		return Artifact{}, fmt.Errorf("%w: rename: %w", apperrors.ErrUploadIO, err)
	}

	return Artifact{Name: name, Size: size, ContentType: contentType}, nil
}

// Open returns a completed artifact by its generated name.
func (s *Store) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) || strings.HasSuffix(name, PartialSuffix) {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "artifact %q", name)
	}
	f, err := os.Open(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "artifact %q", name)
	}
	return f, err
}

// List returns the names of completed artifacts in lexical order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("[uploads List] %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasSuffix(e.Name(), PartialSuffix) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close removes the directory if the store created it. A configured
// directory is left in place.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.owned {
			s.closeErr = os.RemoveAll(s.root)
		}
	})
	return s.closeErr
}

// SanitizeName reduces a client supplied file name to a safe base name.
func SanitizeName(clientName string) string {
	name := strings.ReplaceAll(clientName, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '/' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	switch name {
	case "", ".", "..":
		return fallbackName
	}
	if strings.HasSuffix(name, PartialSuffix) {
		name += ".bin"
	}
	if len(name) > maxNameLen {
		name = strings.ToValidUTF8(name[len(name)-maxNameLen:], "")
	}
	return name
}

// copySniffed copies src to dst and detects the content type from the
// leading bytes.
func copySniffed(dst io.Writer, src io.Reader) (int64, string, error) {
	br := bufio.NewReaderSize(src, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, "", err
	}
	contentType := mimetype.Detect(head).String()

	n, err := io.Copy(dst, br)
	return n, contentType, err
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
