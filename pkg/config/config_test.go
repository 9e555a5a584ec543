package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/geobuckets/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "geobuckets"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "geobuckets"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "geobuckets", "logs"),
		},
		{
			msg: "sqlite file",
			fn:  config.SQLiteFilePath,
			res: filepath.Join(tempHome, ".local", "share", "geobuckets",
				"geobuckets.db"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "geobuckets", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Empty(t, cfg.Store.SQLitePath)

	assert.Equal(t, 1, cfg.Bucket.NeighborRing)
	assert.Equal(t, 0.7, cfg.Bucket.MatchThreshold)
	assert.Equal(t, 0.3, cfg.Bucket.SearchThreshold)
	assert.Equal(t, 10, cfg.Bucket.SearchLimit)
	assert.Equal(t, 10, cfg.Bucket.TopBuckets)
	assert.Equal(t, 50, cfg.Bucket.LocationSearchBuckets)

	assert.Equal(t, 0, cfg.Stats.CacheTTL)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestSQLiteFile(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
	assert.Equal(t,
		filepath.Join("/home/user", ".local", "share", "geobuckets",
			"geobuckets.db"),
		cfg.SQLiteFile(),
	)

	cfg.Update([]config.Option{config.OptStoreSQLitePath("/tmp/b.db")})
	assert.Equal(t, "/tmp/b.db", cfg.SQLiteFile())
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost",
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseHost(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionStoreDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"postgres", "postgres", "postgres"},
		{"upper case", "  POSTGRES ", "postgres"},
		{"sqlite", "sqlite", "sqlite"},
		{"unknown driver is ignored", "mysql", "sqlite"},
		{"empty is ignored", "", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptStoreDriver(tt.input)})
			assert.Equal(t, tt.expected, cfg.Store.Driver)
		})
	}
}

func TestOptionBucketThresholds(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		match  float64
		search float64
	}{
		{"valid value", 0.55, 0.55, 0.55},
		{"zero is ignored", 0, 0.7, 0.3},
		{"one is ignored", 1, 0.7, 0.3},
		{"negative is ignored", -0.2, 0.7, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{
				config.OptBucketMatchThreshold(tt.input),
				config.OptBucketSearchThreshold(tt.input),
			})
			assert.Equal(t, tt.match, cfg.Bucket.MatchThreshold)
			assert.Equal(t, tt.search, cfg.Bucket.SearchThreshold)
		})
	}
}

func TestOptionBucketNeighborRing(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"lower bound", 1, 1},
		{"upper bound", 5, 5},
		{"zero is ignored", 0, 1},
		{"above max is ignored", 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptBucketNeighborRing(tt.input)})
			assert.Equal(t, tt.expected, cfg.Bucket.NeighborRing)
		})
	}
}

func TestOptionStatsCacheTTL(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptStatsCacheTTL(30)})
	assert.Equal(t, 30, cfg.Stats.CacheTTL)

	cfg.Update([]config.Option{config.OptStatsCacheTTL(-1)})
	assert.Equal(t, 30, cfg.Stats.CacheTTL)

	cfg.Update([]config.Option{config.OptStatsCacheTTL(0)})
	assert.Equal(t, 0, cfg.Stats.CacheTTL)
}

func TestOptionLogDestination(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"stdout", "stdout", "stdout"},
		{"stderr", "STDERR", "stderr"},
		{"file", "file", "file"},
		{"invalid", "syslog", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogDestination(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Destination)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptJobsNumber(16)})
	assert.Equal(t, 16, cfg.JobsNumber)

	cfg.Update([]config.Option{config.OptJobsNumber(0)})
	assert.Equal(t, 16, cfg.JobsNumber)
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		cfg.Update([]config.Option{
			config.OptDatabaseHost("custom.host.com"),
			config.OptStoreDriver("postgres"),
			config.OptBucketSearchLimit(25),
			config.OptLogLevel("debug"),
		})

		assert.Equal(t, "custom.host.com", cfg.Database.Host)
		assert.Equal(t, "postgres", cfg.Store.Driver)
		assert.Equal(t, 25, cfg.Bucket.SearchLimit)
		assert.Equal(t, "debug", cfg.Log.Level)

		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		})
		assert.Equal(t, "second.host.com", cfg.Database.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(6432),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptStoreDriver("postgres"),
			config.OptStoreSQLitePath("/tmp/buckets.db"),
			config.OptBucketNeighborRing(2),
			config.OptBucketMatchThreshold(0.8),
			config.OptBucketSearchThreshold(0.4),
			config.OptBucketSearchLimit(20),
			config.OptBucketTopBuckets(5),
			config.OptBucketLocationSearchBuckets(30),
			config.OptStatsCacheTTL(60),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Store, newCfg.Store)
		assert.Equal(t, original.Bucket, newCfg.Bucket)
		assert.Equal(t, original.Stats, newCfg.Stats)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptHomeDir("/custom/home")})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
	})
}
