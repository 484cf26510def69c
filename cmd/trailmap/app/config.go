package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Remote backend
	BackendURL  string // configured endpoint; the stored override beats it
	CallTimeout time.Duration
	AuthScheme  string // "", "bearer", "header:<Name>" or "query:<param>"
	AuthToken   string

	// Local cache
	CacheDriver string
	CachePath   string

	// Fallback and refresh
	StaticBase          string
	StaticURLs          []string
	AutoRefreshInterval time.Duration

	// Object storage for s3:// import and export
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// Logging configuration
	LogLevel    string // from --log-level; empty defers to -v/-q and LOG_LEVEL
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// envBindings maps config keys onto the TRAILMAP_* variables that also set them.
var envBindings = map[string]string{
	"backend_url":           "TRAILMAP_BACKEND_URL",
	"call_timeout":          "TRAILMAP_CALL_TIMEOUT",
	"auth_scheme":           "TRAILMAP_AUTH_SCHEME",
	"auth_token":            "TRAILMAP_AUTH_TOKEN",
	"cache_driver":          "TRAILMAP_CACHE_DRIVER",
	"cache_path":            "TRAILMAP_CACHE_PATH",
	"static_base":           "TRAILMAP_STATIC_BASE",
	"static_urls":           "TRAILMAP_STATIC_URLS",
	"auto_refresh_interval": "TRAILMAP_AUTO_REFRESH_INTERVAL",
	"s3_region":             "TRAILMAP_S3_REGION",
	"s3_endpoint":           "TRAILMAP_S3_ENDPOINT",
	"s3_path_style":         "TRAILMAP_S3_PATH_STYLE",
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.trailmap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// loadConfig loads configuration, reading configFile when it is set.
func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	// A missing config file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		BackendURL:  v.GetString("backend_url"),
		CallTimeout: v.GetDuration("call_timeout"),
		AuthScheme:  v.GetString("auth_scheme"),
		AuthToken:   v.GetString("auth_token"),

		CacheDriver: v.GetString("cache_driver"),
		CachePath:   v.GetString("cache_path"),

		StaticBase:          v.GetString("static_base"),
		StaticURLs:          v.GetStringSlice("static_urls"),
		AutoRefreshInterval: v.GetDuration("auto_refresh_interval"),

		S3Region:    v.GetString("s3_region"),
		S3Endpoint:  v.GetString("s3_endpoint"),
		S3PathStyle: v.GetBool("s3_path_style"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// reload re-reads configuration from the file named by --config and keeps
// every flag the user set explicitly.
func (c *Config) reload(changed func(name string) bool) error {
	loaded, err := loadConfig(c.ConfigFile)
	if err != nil {
		return err
	}
	loaded.Verbose, loaded.Quiet, loaded.NoColor, loaded.LogLevel = c.Verbose, c.Quiet, c.NoColor, c.LogLevel
	if changed("format") {
		loaded.Format = c.Format
	}
	if changed("cache-driver") {
		loaded.CacheDriver = c.CacheDriver
	}
	if changed("cache-path") {
		loaded.CachePath = c.CachePath
	}
	if changed("timeout") {
		loaded.CallTimeout = c.CallTimeout
	}
	*c = *loaded
	return nil
}

// setDefaults registers the values used when nothing else sets a key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("call_timeout", constants.DefaultCallTimeout)
	v.SetDefault("cache_driver", localcache.DriverFiles)
	v.SetDefault("cache_path", defaultCachePath())
	v.SetDefault("static_urls", constants.DefaultStaticFiles)
	v.SetDefault("auto_refresh_interval", constants.DefaultRefreshInterval)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	c.LogLevel = logLevel
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindEnv binds the TRAILMAP_* variables to their config keys.
func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s: %w", env, err)
		}
	}
	return nil
}

// defaultCachePath places the cache under $HOME, or the working directory
// when there is no home.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.DefaultDataDir
	}
	return filepath.Join(home, constants.DefaultDataDir)
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
