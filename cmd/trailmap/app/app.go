// Package app wires the trailmap CLI: configuration, logging, the command
// tree and the lifetime of the shared client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/blob"
	"github.com/trailmap/trailmap/internal/metrics"
	"github.com/trailmap/trailmap/internal/transport"
	"github.com/trailmap/trailmap/pkg/errors"
)

var _ application.Application = (*App)(nil)

type buildInfo struct {
	version, commit, date, builtBy string
}

// App owns the CLI configuration, the logger and the one trailmap client
// every command shares.
type App struct {
	buildInfo

	config  *Config
	logger  *zerolog.Logger
	metrics *metrics.Metrics

	// --backend-url, which beats the stored and configured endpoints
	backendFlag string
	clientOpts  []trailmap.Option

	mu       sync.Mutex
	trailmap trailmap.Client
}

// New loads the configuration, builds the logger and applies opts. The
// client itself is created on first use.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	logger := NewLogger(config)

	a := &App{
		buildInfo: buildInfo{version, commit, date, builtBy},
		config:    config,
		logger:    &logger,
		metrics:   metrics.New(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) Version() string { return a.version }
func (a *App) Commit() string { return a.commit }
func (a *App) Date() string { return a.date }
func (a *App) BuiltBy() string { return a.builtBy }
func (a *App) Config() *Config { return a.config }
func (a *App) Logger() *zerolog.Logger { return a.logger }
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// OutputFormat returns --format; empty means detect from the terminal.
func (a *App) OutputFormat() string { return a.config.Format }

// Trailmap returns the shared client, creating it on the first call.
func (a *App) Trailmap(ctx context.Context) (trailmap.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.trailmap == nil {
		tm, err := trailmap.New(ctx, a.buildClientOptions()...)
		if err != nil {
			return nil, errors.WrapResource("create", "trailmap", "", err)
		}
		a.trailmap = tm
	}
	return a.trailmap, nil
}

// Shutdown closes the client, stopping its background refresh. A later
// Trailmap call creates a fresh one.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	tm := a.trailmap
	a.trailmap = nil
	a.mu.Unlock()

	if tm == nil {
		return nil
	}
	if err := tm.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Closing trailmap client failed")
		return err
	}
	return nil
}

// buildClientOptions turns the configuration into client options. Options
// passed with WithClientOptions come last and win.
func (a *App) buildClientOptions() []trailmap.Option {
	cfg := a.config
	opts := []trailmap.Option{
		trailmap.WithLogger(a.logger),
		trailmap.WithMetrics(a.metrics),
		trailmap.WithCacheDriver(cfg.CacheDriver, cfg.CachePath),
		trailmap.WithConfiguredBackendURL(cfg.BackendURL),
		trailmap.WithS3(blob.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		}),
	}

	if a.backendFlag != "" {
		opts = append(opts, trailmap.WithBackendURL(a.backendFlag))
	}
	if cfg.CallTimeout > 0 {
		opts = append(opts, trailmap.WithCallTimeout(cfg.CallTimeout))
	}
	if cfg.AuthToken != "" {
		opts = append(opts, trailmap.WithAuth(transport.AuthFor(cfg.AuthScheme), cfg.AuthToken))
	}
	if len(cfg.StaticURLs) > 0 || cfg.StaticBase != "" {
		opts = append(opts, trailmap.WithStaticFiles(cfg.StaticBase, cfg.StaticURLs...))
	}
	if cfg.AutoRefreshInterval > 0 {
		opts = append(opts, trailmap.WithAutoRefreshInterval(cfg.AutoRefreshInterval))
	}

	return append(opts, a.clientOpts...)
}

// Option configures an App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithTrailmap injects a ready client.
func WithTrailmap(tm trailmap.Client) Option {
	return func(a *App) error {
		a.trailmap = tm
		return nil
	}
}

// WithClientOptions appends options used when the client is created.
func WithClientOptions(opts ...trailmap.Option) Option {
	return func(a *App) error {
		a.clientOpts = append(a.clientOpts, opts...)
		return nil
	}
}
