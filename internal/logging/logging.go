package logging

import (
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. DEV gets a console writer,
// every other environment writes JSON lines to stdout.
func Setup(cfg config.EnvConfig) {
	Configure(os.Stdout, cfg.GetEnv(), cfg.GetLogLevel())
}

func Configure(out io.Writer, env, level string) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if env == config.DevEnv {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown LOG_LEVEL, using info")
	}
}
