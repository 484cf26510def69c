// Package serve runs the trailmap HTTP API.
package serve

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
	"github.com/trailmap/trailmap/internal/server"
	"github.com/trailmap/trailmap/pkg/errors"
)

const drainTimeout = 30 * time.Second

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	d := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "management",
		Short:   "Serve the catalog over HTTP with live updates",
		Long: `Serve exposes hikes, accommodations and attractions as a JSON API.

Every response is an envelope {"data": ..., "error": ...}. Hike edits go to
the remote service exactly as the CLI sends them; local kinds are written to
the local cache. Changes are pushed to websocket clients on
<prefix>/updates/ws, and hikes are refreshed periodically while serving.

With --auth, requests must carry the key from TRAILMAP_API_KEY in the
X-API-Key header, as a bearer token, or as the api_key query parameter.`,
		Example: `  trailmap serve
  TRAILMAP_API_KEY=secret trailmap serve --host 0.0.0.0 --auth
  trailmap serve --cors-origins https://trip.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), app, cfg, cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Int("port", d.Port, "Server port (HTTP_PORT overrides)")
	f.String("host", d.Host, "Bind address (HTTP_HOST overrides)")
	f.String("prefix", d.PathPrefix, "API path prefix")
	f.Bool("cors", false, "Enable CORS for all origins")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (implies --cors)")
	f.Bool("auth", false, "Require the API key from TRAILMAP_API_KEY")
	f.String("auth-header", d.AuthHeader, "Header carrying the API key")
	f.Duration("cache-ttl", d.CacheTTL, "Longest reuse of a GET response")
	f.Duration("read-timeout", d.ReadTimeout, "HTTP read timeout")
	f.Duration("write-timeout", d.WriteTimeout, "HTTP write timeout")
	f.Duration("idle-timeout", d.IdleTimeout, "HTTP idle timeout")
	f.Bool("metrics", d.MetricsEnabled, "Serve prometheus metrics on /metrics")
	f.Bool("auto-refresh", d.AutoRefresh, "Refresh hikes periodically while serving")

	return cmd
}

// parseConfig reads the flags, then lets HTTP_PORT and HTTP_HOST override
// the listen address.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	f := cmd.Flags()
	origins := cmdutil.MustFlag(f.GetStringSlice, "cors-origins")

	cfg := server.Config{
		Host:           cmdutil.MustFlag(f.GetString, "host"),
		Port:           cmdutil.MustFlag(f.GetInt, "port"),
		PathPrefix:     cmdutil.MustFlag(f.GetString, "prefix"),
		CORSEnabled:    cmdutil.MustFlag(f.GetBool, "cors") || len(origins) > 0,
		CORSOrigins:    origins,
		AuthEnabled:    cmdutil.MustFlag(f.GetBool, "auth"),
		AuthHeader:     cmdutil.MustFlag(f.GetString, "auth-header"),
		CacheTTL:       cmdutil.MustFlag(f.GetDuration, "cache-ttl"),
		ReadTimeout:    cmdutil.MustFlag(f.GetDuration, "read-timeout"),
		WriteTimeout:   cmdutil.MustFlag(f.GetDuration, "write-timeout"),
		IdleTimeout:    cmdutil.MustFlag(f.GetDuration, "idle-timeout"),
		MetricsEnabled: cmdutil.MustFlag(f.GetBool, "metrics"),
		AutoRefresh:    cmdutil.MustFlag(f.GetBool, "auto-refresh"),
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		p, err := cast.ToIntE(v)
		if err != nil {
			return server.Config{}, &errors.ValidationError{Field: "HTTP_PORT", Value: v, Message: "not a number"}
		}
		cfg.Port = p
	}
	if v := os.Getenv("HTTP_HOST"); v != "" {
		cfg.Host = v
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return server.Config{}, &errors.ValidationError{Field: "port", Value: cfg.Port, Message: "must be between 1 and 65535"}
	}
	return cfg, nil
}

// run serves until ctx is cancelled by SIGINT or SIGTERM, then drains open
// connections and stops the background services.
func run(ctx context.Context, app application.Application, cfg server.Config, out io.Writer) error {
	logger := app.Logger()
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Bool("auto_refresh", cfg.AutoRefresh).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting API server")

	srv, err := server.New(ctx, app, cfg)
	if err != nil {
		return errors.WrapResource("create", "server", "", err)
	}

	// the first request should not have to wait for a remote round trip
	if tm, err := app.Trailmap(ctx); err == nil {
		o := tm.Refresh(ctx)
		logger.Info().Stringer("source", o.Source).Int("count", o.Count).Msg("Initial refresh")
	}
	srv.Start()

	hs := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	failed := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", hs.Addr).Msg("HTTP server listening")
		fmt.Fprintf(out, "%s API listening on http://%s (Ctrl+C to stop)\n", emoji.Info, hs.Addr)
		if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		_ = srv.Shutdown(context.Background())
		return fmt.Errorf("listen on %s: %w", hs.Addr, err)
	case <-ctx.Done():
	}

	fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Info)
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := hs.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain connections: %w", err)
	}
	if err := srv.Shutdown(drainCtx); err != nil {
		logger.Warn().Err(err).Msg("Background services did not stop cleanly")
	}
	logger.Info().Msg("Server stopped")
	fmt.Fprintf(out, "%s API server stopped\n", emoji.Success)
	return nil
}
