// Package zerolog provides structured logging for the scraper as
// decorators around the domain interfaces, keeping the core packages
// free of logging concerns.
package zerolog

import (
	"io"

	"github.com/rs/zerolog"
)

// New creates a logger writing human-readable output to w at a level
// derived from the verbosity mode: silent discards everything, normal
// logs at info, verbose at debug.
func New(w io.Writer, mode string) zerolog.Logger {
	var level zerolog.Level
	switch mode {
	case "silent":
		level = zerolog.Disabled
	case "verbose":
		level = zerolog.DebugLevel
	default:
		level = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{Out: w}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
