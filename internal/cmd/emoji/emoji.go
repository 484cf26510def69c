// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status lines on stderr.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks a degraded result, such as hikes served from a fallback.
	Warning = "!"

	// Info marks neutral context.
	Info = "i"
)
