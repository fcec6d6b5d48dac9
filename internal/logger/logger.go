// Package logger provides the configured zerolog logger for the service.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger that writes JSON lines to stdout.
func New(service string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Str("service", service).
		Timestamp().
		Logger()
}
