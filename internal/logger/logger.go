// ABOUTME: zerolog setup for command-line tools
// ABOUTME: Resolves the log level from a flag value or LOG_LEVEL
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init configures the global logger to write to w.
// An empty level falls back to the LOG_LEVEL environment variable.
func Init(w io.Writer, level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	logLevel := ParseLevel(level)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.SetGlobalLevel(logLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	log.Debug().
		Str("level", logLevel.String()).
		Msg("Logger initialized")
}
