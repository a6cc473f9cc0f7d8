// Package logger sets up the zerolog logger used by the function.
package logger

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stdout at the given level.
// An unknown level falls back to info.
func New(level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// ForRequest returns a child logger tagged with requestID, or with a fresh
// id when the event carried none.
func ForRequest(log zerolog.Logger, requestID string) zerolog.Logger {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return log.With().Str("requestId", requestID).Logger()
}
