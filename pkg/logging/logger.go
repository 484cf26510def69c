// Package logging provides structured logging for trailmap using zerolog.
// Console output is used when the destination is a terminal and JSON
// otherwise.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("kind", "hikes").Int("count", 12).Msg("Loaded snapshot")
//
//	ctx := logging.WithKind(context.Background(), "hikes")
//	logging.FromContext(ctx).Debug().Msg("Using logger from context")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	SetDefault(NewLoggerFromConfig(FromEnv()))
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return Default().Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return Default().Warn()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
