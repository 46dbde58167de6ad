package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger in production and a console logger otherwise.
func New(environment string) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stdout
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "hug-studio").
		Logger()
}

// Nop is used by tests and by components constructed without a logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
