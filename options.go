package trailmap

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/internal/blob"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/internal/metrics"
	"github.com/trailmap/trailmap/internal/transport"
	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/logging"
)

// options configures a client.
type options struct {
	// backend endpoint, in precedence order: explicit, stored override, configured
	backendURL           string
	configuredBackendURL string

	callTimeout time.Duration
	httpClient  *http.Client
	auth        transport.Authenticator
	authToken   string

	cache       *localcache.Cache
	cacheDriver string
	cachePath   string

	staticBase      string
	staticLocations []string

	retryOnUnresolved bool
	warmStart         bool

	autoRefreshEnabled  bool
	autoRefreshInterval time.Duration

	s3 blob.S3Config

	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		callTimeout:         constants.DefaultCallTimeout,
		cacheDriver:         localcache.DriverFiles,
		cachePath:           constants.DefaultDataDir,
		staticLocations:     constants.DefaultStaticFiles,
		warmStart:           true,
		autoRefreshInterval: constants.DefaultRefreshInterval,
		logger:              logging.Default(),
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithBackendURL sets the remote endpoint. It takes precedence over a stored
// override and the configured default.
func WithBackendURL(url string) Option {
	return func(o *options) error {
		o.backendURL = url
		return nil
	}
}

// WithConfiguredBackendURL sets the endpoint used when neither an explicit
// URL nor a stored override is present.
func WithConfiguredBackendURL(url string) Option {
	return func(o *options) error {
		o.configuredBackendURL = url
		return nil
	}
}

// WithCallTimeout bounds each remote call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return &errors.ValidationError{
				Field:   "callTimeout",
				Value:   d,
				Message: "timeout must be positive",
			}
		}
		o.callTimeout = d
		return nil
	}
}

// WithHTTPClient sets the HTTP client for remote calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithAuth attaches a credential to every remote call.
func WithAuth(auth transport.Authenticator, token string) Option {
	return func(o *options) error {
		o.auth = auth
		o.authToken = token
		return nil
	}
}

// WithCache uses an already open cache. The client does not close it.
func WithCache(cache *localcache.Cache) Option {
	return func(o *options) error {
		if cache == nil {
			return &errors.ValidationError{Field: "cache", Message: "cannot be nil"}
		}
		o.cache = cache
		return nil
	}
}

// WithCacheDriver selects the cache backend (files, sqlite or memory) and
// its location.
func WithCacheDriver(driver, path string) Option {
	return func(o *options) error {
		o.cacheDriver = driver
		if path != "" {
			o.cachePath = path
		}
		return nil
	}
}

// WithStaticFiles sets where the last-resort hikes file is looked up.
// base may be a directory or a URL; relative locations resolve against it.
func WithStaticFiles(base string, locations ...string) Option {
	return func(o *options) error {
		o.staticBase = base
		if len(locations) > 0 {
			o.staticLocations = locations
		}
		return nil
	}
}

// WithRetryOnUnresolved makes hike edits re-list once when the position has
// no server id instead of doing nothing.
func WithRetryOnUnresolved(enabled bool) Option {
	return func(o *options) error {
		o.retryOnUnresolved = enabled
		return nil
	}
}

// WithWarmStart controls whether New shows the cached hike snapshot before
// the first refresh.
func WithWarmStart(enabled bool) Option {
	return func(o *options) error {
		o.warmStart = enabled
		return nil
	}
}

// WithAutoRefresh starts periodic refreshes when the client is created.
func WithAutoRefresh(enabled bool) Option {
	return func(o *options) error {
		o.autoRefreshEnabled = enabled
		return nil
	}
}

// WithAutoRefreshInterval configures how often to refresh automatically.
func WithAutoRefreshInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoRefreshInterval = interval
		return nil
	}
}

// WithS3 configures access to s3:// import and export locations.
func WithS3(cfg blob.S3Config) Option {
	return func(o *options) error {
		o.s3 = cfg
		return nil
	}
}

// WithMetrics records transport and reconciliation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) error {
		if l != nil {
			o.logger = l
		}
		return nil
	}
}
