// Package application provides the application interface for trailmap commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            tm, err := app.Trailmap(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            outcome := tm.Refresh(cmd.Context())
//	            // ...
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/internal/metrics"
)

// Application provides what commands need from the running CLI.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Trailmap returns the shared client, creating it on first use.
	Trailmap(ctx context.Context) (trailmap.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	// Empty means detect from the terminal.
	OutputFormat() string

	// Metrics returns the collectors shared by the client and the server.
	// It may be nil; every Metrics method accepts a nil receiver.
	Metrics() *metrics.Metrics

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
