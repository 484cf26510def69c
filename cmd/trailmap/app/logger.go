package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/pkg/logging"
)

var cliLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger builds the CLI logger. The level comes from, in order,
// --log-level, -q, -v, LOG_LEVEL and finally info. Debug and trace also
// record the caller.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == "debug" || level == "trace",
	})
}

func determineLogLevel(c *Config) string {
	switch {
	case c.LogLevel != "":
		if !slices.Contains(cliLevels, c.LogLevel) {
			fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", c.LogLevel)
			return "info"
		}
		return c.LogLevel
	case c.Quiet:
		if c.Verbose {
			fmt.Fprintln(os.Stderr, "Warning: --verbose and --quiet both set, using --quiet")
		}
		return "warn"
	case c.Verbose:
		return "debug"
	case slices.Contains(cliLevels, c.EnvLogLevel):
		return c.EnvLogLevel
	default:
		return "info"
	}
}
