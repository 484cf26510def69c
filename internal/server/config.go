package server

import "time"

// Config holds server configuration.
type Config struct {
	Host string
	Port int

	// PathPrefix is prepended to every API route.
	PathPrefix string

	// CORS; no origins with CORS enabled allows any origin
	CORSEnabled bool
	CORSOrigins []string

	// API key authentication, key from TRAILMAP_API_KEY
	AuthEnabled bool
	AuthHeader  string

	// CacheTTL bounds how long a GET response is reused when no change
	// event flushes it first.
	CacheTTL time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MetricsEnabled bool

	// AutoRefresh keeps the hikes fresh while serving.
	AutoRefresh bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		AuthHeader:     "X-API-Key",
		CacheTTL:       5 * time.Minute,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
		AutoRefresh:    true,
	}
}
