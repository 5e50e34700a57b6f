package logger

import (
	"io"
	"os"
	"time"
	"todolist/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger. Production writes JSON lines,
// every other environment gets the human readable console writer.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg != nil && cfg.IsProduction() {
		output = os.Stdout
	}

	log.Logger = zerolog.New(output).With().Timestamp().Str("app", appName(cfg)).Logger()
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(cfg *config.Config) {
	if cfg.Server.LogLevel == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Trace().Msg("Environment has no log level set up, using info.")

		return
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Warn().Str("loglevel", cfg.Server.LogLevel).Msg("Unknown log level, using trace.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}

func appName(cfg *config.Config) string {
	if cfg == nil || cfg.App.Name == "" {
		return "todolist"
	}

	return cfg.App.Name
}
