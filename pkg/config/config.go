// Package config provides configuration management for geobuckets.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - Store: driver, sqlite_path
//   - Bucket: neighbor_ring, match_threshold, search_threshold,
//     search_limit, top_buckets, location_search_buckets
//   - Stats: cache_ttl
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GEOBUCKETS_ prefix with underscores for nesting:
//
//	GEOBUCKETS_STORE_DRIVER=postgres
//	GEOBUCKETS_DATABASE_HOST=localhost
//	GEOBUCKETS_BUCKET_MATCH_THRESHOLD=0.7
//	GEOBUCKETS_LOG_LEVEL=info
//	GEOBUCKETS_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete geobuckets configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Store selects the persistence backend.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Bucket contains thresholds used during bucket resolution and search.
	Bucket BucketConfig `mapstructure:"bucket" yaml:"bucket"`

	// Stats contains settings of the statistics report.
	Stats StatsConfig `mapstructure:"stats" yaml:"stats"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for batch ingestion.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Driver is either "postgres" or "sqlite". PostgreSQL evaluates name
	// similarity with pg_trgm, SQLite scores candidates in process.
	Driver string `mapstructure:"driver" yaml:"driver"`

	// SQLitePath is the database file used by the "sqlite" driver.
	// When empty, SQLiteFilePath(HomeDir) is used.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// BucketConfig keeps the knobs of bucket resolution and fuzzy search.
type BucketConfig struct {
	// NeighborRing is the grid distance searched around the listing cell
	// for similarly named buckets.
	NeighborRing int `mapstructure:"neighbor_ring" yaml:"neighbor_ring"`

	// MatchThreshold is the minimal (exclusive) similarity for a neighbor
	// bucket to absorb a new listing.
	MatchThreshold float64 `mapstructure:"match_threshold" yaml:"match_threshold"`

	// SearchThreshold is the minimal (exclusive) similarity for buckets
	// returned by fuzzy name search.
	SearchThreshold float64 `mapstructure:"search_threshold" yaml:"search_threshold"`

	// SearchLimit is the default number of buckets returned by fuzzy search.
	SearchLimit int `mapstructure:"search_limit" yaml:"search_limit"`

	// TopBuckets is the size of the "top buckets" list of the stats report.
	TopBuckets int `mapstructure:"top_buckets" yaml:"top_buckets"`

	// LocationSearchBuckets caps how many fuzzy-matched buckets are used
	// when listings are searched by location name.
	LocationSearchBuckets int `mapstructure:"location_search_buckets" yaml:"location_search_buckets"`
}

// StatsConfig contains settings of the statistics report.
type StatsConfig struct {
	// CacheTTL is the number of seconds a computed report is reused.
	// Zero disables caching.
	CacheTTL int `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "geobuckets",
			SSLMode:  "disable",
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Bucket: BucketConfig{
			NeighborRing:          1,
			MatchThreshold:        0.7,
			SearchThreshold:       0.3,
			SearchLimit:           10,
			TopBuckets:            10,
			LocationSearchBuckets: 50,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}

// SQLiteFile returns the SQLite database path for this configuration.
func (c *Config) SQLiteFile() string {
	if c.Store.SQLitePath != "" {
		return c.Store.SQLitePath
	}
	return SQLiteFilePath(c.HomeDir)
}
