package server_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/server"
	"github.com/jrsteele09/go-session-gateway/uploads"
	"github.com/stretchr/testify/require"
)

type filePart struct {
	field    string
	filename string // empty for a plain form field
	data     []byte
}

func multipartBody(t *testing.T, parts ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, p := range parts {
		var (
			w   io.Writer
			err error
		)
		if p.filename == "" {
			w, err = writer.CreateFormField(p.field)
		} else {
			w, err = writer.CreateFormFile(p.field, p.filename)
		}
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadRequest(body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestUpload(t *testing.T) {
	f := setupTestFixture(t, nil)
	cookie, _ := f.login(t)

	t.Run("unauthenticated", func(t *testing.T) {
		body, ct := multipartBody(t, filePart{field: "file", filename: "a.bin", data: []byte("0123456789")})
		rec := f.do(uploadRequest(body, ct), nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("single file", func(t *testing.T) {
		body, ct := multipartBody(t, filePart{field: "file", filename: "a.bin", data: []byte("0123456789")})
		rec := f.do(uploadRequest(body, ct), cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		name := rec.Body.String()
		require.True(t, strings.HasSuffix(name, "_a.bin"))
		require.NotEmpty(t, rec.Header().Get("X-Detected-Content-Type"))

		stored, err := f.store.Open(name)
		require.NoError(t, err)
		defer stored.Close()
		data, err := io.ReadAll(stored)
		require.NoError(t, err)
		require.Equal(t, []byte("0123456789"), data)
	})

	t.Run("skips fields without file name", func(t *testing.T) {
		body, ct := multipartBody(t,
			filePart{field: "note", data: []byte("hello")},
			filePart{field: "file", filename: "b.txt", data: []byte("content")},
		)
		rec := f.do(uploadRequest(body, ct), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, strings.HasSuffix(rec.Body.String(), "_b.txt"))
	})

	t.Run("only first file is stored", func(t *testing.T) {
		before, err := f.store.List()
		require.NoError(t, err)

		body, ct := multipartBody(t,
			filePart{field: "file", filename: "first.bin", data: []byte("1")},
			filePart{field: "file", filename: "second.bin", data: []byte("2")},
		)
		rec := f.do(uploadRequest(body, ct), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, strings.HasSuffix(rec.Body.String(), "_first.bin"))

		after, err := f.store.List()
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)
	})

	t.Run("path in file name is stripped", func(t *testing.T) {
		body, ct := multipartBody(t, filePart{field: "file", filename: "../../escape.bin", data: []byte("x")})
		rec := f.do(uploadRequest(body, ct), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), "/")
		require.True(t, strings.HasSuffix(rec.Body.String(), "_escape.bin"))
	})

	t.Run("no file field", func(t *testing.T) {
		body, ct := multipartBody(t, filePart{field: "note", data: []byte("hello")})
		rec := f.do(uploadRequest(body, ct), cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "No file field found")
	})

	t.Run("empty multipart body", func(t *testing.T) {
		body, ct := multipartBody(t)
		rec := f.do(uploadRequest(body, ct), cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		rec := f.do(uploadRequest(strings.NewReader("{}"), "application/json"), cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Malformed multipart body")
	})

	t.Run("truncated file content", func(t *testing.T) {
		body, ct := multipartBody(t, filePart{field: "file", filename: "cut.bin", data: bytes.Repeat([]byte("z"), 4096)})
		truncated := body.Bytes()[:body.Len()/2]

		before, err := f.store.List()
		require.NoError(t, err)

		rec := f.do(uploadRequest(bytes.NewReader(truncated), ct), cookie)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Upload failed\n", rec.Body.String())

		after, err := f.store.List()
		require.NoError(t, err)
		require.Equal(t, before, after)

		entries, err := os.ReadDir(f.store.Root())
		require.NoError(t, err)
		for _, e := range entries {
			require.False(t, strings.HasSuffix(e.Name(), uploads.PartialSuffix), "partial file left behind: %s", e.Name())
		}
	})
}

func TestUpload_TooLarge(t *testing.T) {
	f := setupTestFixture(t, map[string]string{"MAX_UPLOAD_BYTES": "1024"})
	cookie, _ := f.login(t)

	body, ct := multipartBody(t, filePart{field: "file", filename: "big.bin", data: bytes.Repeat([]byte("x"), 4096)})
	rec := f.do(uploadRequest(body, ct), cookie)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	names, err := f.store.List()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestUpload_ConcurrentSameFilename(t *testing.T) {
	f := setupTestFixture(t, nil)
	cookie, _ := f.login(t)

	const n = 8
	results := make([]*httptest.ResponseRecorder, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		body, ct := multipartBody(t, filePart{field: "file", filename: "a.bin", data: []byte(fmt.Sprintf("payload-%d", i))})
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.do(uploadRequest(body, ct), cookie)
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for i, rec := range results {
		require.Equal(t, http.StatusOK, rec.Code)
		name := rec.Body.String()
		_, dup := seen[name]
		require.False(t, dup, "upload overwrote %s", name)
		seen[name] = struct{}{}

		stored, err := f.store.Open(name)
		require.NoError(t, err)
		data, err := io.ReadAll(stored)
		stored.Close()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("payload-%d", i), string(data))
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, io.Reader) (uploads.Artifact, error) {
	return uploads.Artifact{}, fmt.Errorf("%w: open /var/secret/uploads/x: %w", apperrors.ErrUploadIO, errors.New("disk full"))
}

func TestUpload_StoreFailureDoesNotLeakDetails(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"ENV": "TEST", "SESSION_SECRET": secretStr})
	require.NoError(t, err)
	s, err := server.New(cfg, failingStore{})
	require.NoError(t, err)

	login := httptest.NewRecorder()
	s.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)

	body, ct := multipartBody(t, filePart{field: "file", filename: "a.bin", data: []byte("x")})
	req := uploadRequest(body, ct)
	req.AddCookie(login.Result().Cookies()[0])
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "/var/secret")
	require.NotContains(t, rec.Body.String(), "disk full")
}
