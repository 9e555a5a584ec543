package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptStoreDriver selects the persistence backend.
// Valid values: "postgres", "sqlite".
func OptStoreDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Store.Driver", s) {
			c.Store.Driver = s
		}
	}
}

// OptStoreSQLitePath sets the SQLite database file.
func OptStoreSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Store.SQLitePath = s
		}
	}
}

// OptBucketNeighborRing sets how many grid rings around a cell are
// searched for similarly named buckets. Allowed range is 1..5.
func OptBucketNeighborRing(i int) Option {
	return func(c *Config) {
		if isValidRange("Bucket Neighbor Ring", i, 1, 5) {
			c.Bucket.NeighborRing = i
		}
	}
}

// OptBucketMatchThreshold sets the similarity a neighbor bucket must
// exceed to absorb a listing.
func OptBucketMatchThreshold(f float64) Option {
	return func(c *Config) {
		if isValidRatio("Bucket Match Threshold", f) {
			c.Bucket.MatchThreshold = f
		}
	}
}

// OptBucketSearchThreshold sets the similarity a bucket must exceed to
// appear in fuzzy search results.
func OptBucketSearchThreshold(f float64) Option {
	return func(c *Config) {
		if isValidRatio("Bucket Search Threshold", f) {
			c.Bucket.SearchThreshold = f
		}
	}
}

// OptBucketSearchLimit sets the default size of fuzzy search results.
func OptBucketSearchLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Bucket Search Limit", i) {
			c.Bucket.SearchLimit = i
		}
	}
}

// OptBucketTopBuckets sets the length of the top buckets list in reports.
func OptBucketTopBuckets(i int) Option {
	return func(c *Config) {
		if isValidInt("Bucket Top Buckets", i) {
			c.Bucket.TopBuckets = i
		}
	}
}

// OptBucketLocationSearchBuckets caps how many buckets are consulted
// when listings are searched by location name.
func OptBucketLocationSearchBuckets(i int) Option {
	return func(c *Config) {
		if isValidInt("Bucket Location Search Buckets", i) {
			c.Bucket.LocationSearchBuckets = i
		}
	}
}

// OptStatsCacheTTL sets how many seconds a stats report is reused.
// Zero disables the cache.
func OptStatsCacheTTL(i int) Option {
	return func(c *Config) {
		if i < 0 {
			warnNegative("Stats Cache TTL", i)
			return
		}
		c.Stats.CacheTTL = i
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for batch ingestion.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
