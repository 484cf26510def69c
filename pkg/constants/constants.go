// Package constants provides shared constants used throughout the trailmap codebase.
// This includes timeouts, file permissions, cache keys and other values that
// should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultCallTimeout bounds a single remote call from dispatch to envelope
	DefaultCallTimeout = 15 * time.Second

	// DefaultHTTPTimeout is the transport-level timeout for fetching static fallback files
	DefaultHTTPTimeout = 30 * time.Second

	// RefreshContextTimeout bounds one automatic refresh including its fallback chain
	RefreshContextTimeout = 2 * time.Minute

	// DefaultRefreshInterval is the default interval between automatic refreshes in serve mode
	DefaultRefreshInterval = 10 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Cache keys used by the local key/value store.
const (
	KeyHikes          = "trailmap_hikes"
	KeyAccommodations = "trailmap_accommodations"
	KeyAttractions    = "trailmap_attractions"
	KeyHeroURL        = "trailmap_hero_url"
	KeyBackendURL     = "trailmap_backend_url"
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached HTTP responses
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute

	// ChannelBufferSize is the default buffer size for event channels
	ChannelBufferSize = 100
)

// Path constants
const (
	// DefaultDataDir is the directory holding the local cache, relative to $HOME
	DefaultDataDir = ".trailmap"

	// DefaultConfigName is the config file name looked up in $HOME
	DefaultConfigName = ".trailmap"

	// SQLiteFileName is the database file used by the sqlite cache driver
	SQLiteFileName = "cache.db"
)

// DefaultStaticFiles are tried in order as the last fallback for hikes.
var DefaultStaticFiles = []string{"hikes.ls", "hikes.json"}

// Format constants
const (
	// TimeFormatFilename is the format used in generated export filenames
	TimeFormatFilename = "20060102-150405"
)
