package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-session-gateway/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONOutsideDev(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logging.Configure(&buf, "PROD", "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("user_id", "42").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "shown", entry["message"])
	require.Equal(t, "42", entry["user_id"])
	require.Equal(t, "warn", entry["level"])
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logging.Configure(&buf, "PROD", "loud")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	require.Contains(t, buf.String(), "Unknown LOG_LEVEL")
}
