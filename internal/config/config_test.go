package config_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	require.Equal(t, ":3000", cfg.GetPort())
	require.Equal(t, config.DevEnv, cfg.GetEnv())
	require.Equal(t, "info", cfg.GetLogLevel())
	require.Equal(t, "authorization", cfg.GetSessionCookieName())
	require.Equal(t, 60*time.Minute, cfg.GetSessionTTL())
	require.False(t, cfg.GetCookieSecure())
	require.Equal(t, http.SameSiteLaxMode, cfg.GetCookieSameSite())
	require.Empty(t, cfg.GetUploadDir())
	require.EqualValues(t, 64*1024*1024, cfg.GetMaxUploadBytes())
	require.Equal(t, 512*1024, cfg.GetDownloadSize())
	require.Empty(t, cfg.GetAllowedOrigins())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"PORT":                ":8080",
		"ENV":                 "prod",
		"LOG_LEVEL":           "DEBUG",
		"SESSION_SECRET":      "s3cret",
		"SESSION_COOKIE_NAME": "jwt_session",
		"COOKIE_SECURE":       "true",
		"COOKIE_SAME_SITE":    "strict",
		"UPLOAD_DIR":          "/tmp/uploads",
		"MAX_UPLOAD_BYTES":    "1024",
		"ALLOWED_ORIGINS":     "https://a.example.com, https://b.example.com",
	})
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "PROD", cfg.GetEnv())
	require.Equal(t, "debug", cfg.GetLogLevel())
	require.Equal(t, []byte("s3cret"), cfg.GetSessionSecret())
	require.Equal(t, "jwt_session", cfg.GetSessionCookieName())
	require.True(t, cfg.GetCookieSecure())
	require.Equal(t, http.SameSiteStrictMode, cfg.GetCookieSameSite())
	require.Equal(t, "/tmp/uploads", cfg.GetUploadDir())
	require.EqualValues(t, 1024, cfg.GetMaxUploadBytes())
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.False(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://c.example.com"))
}

func TestLoadFrom_Validation(t *testing.T) {
	t.Run("dev secret outside DEV", func(t *testing.T) {
		_, err := config.LoadFrom(map[string]string{"ENV": "PROD"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "SESSION_SECRET")
	})

	t.Run("non-positive upload limit", func(t *testing.T) {
		_, err := config.LoadFrom(map[string]string{"MAX_UPLOAD_BYTES": "0"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "MAX_UPLOAD_BYTES")
	})

	t.Run("unparseable value", func(t *testing.T) {
		_, err := config.LoadFrom(map[string]string{"COOKIE_SECURE": "maybe"})
		require.Error(t, err)
	})
}
