// Package logger configures the global zerolog logger and provides the
// gin middleware that logs every request through it.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Development gets a human readable
// console writer, everything else logs JSON to stderr.
func Init(env, level string) {
	InitWithWriter(env, level, os.Stderr)
}

// InitWithWriter is Init with an explicit output, used by tests.
func InitWithWriter(env, level string, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(ParseLevel(level))
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
