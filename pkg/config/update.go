package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Store.Driver
	if s != "" {
		res = append(res, OptStoreDriver(s))
	}
	s = c.Store.SQLitePath
	if s != "" {
		res = append(res, OptStoreSQLitePath(s))
	}

	i = c.Bucket.NeighborRing
	if i > 0 {
		res = append(res, OptBucketNeighborRing(i))
	}
	f = c.Bucket.MatchThreshold
	if f > 0 {
		res = append(res, OptBucketMatchThreshold(f))
	}
	f = c.Bucket.SearchThreshold
	if f > 0 {
		res = append(res, OptBucketSearchThreshold(f))
	}
	i = c.Bucket.SearchLimit
	if i > 0 {
		res = append(res, OptBucketSearchLimit(i))
	}
	i = c.Bucket.TopBuckets
	if i > 0 {
		res = append(res, OptBucketTopBuckets(i))
	}
	i = c.Bucket.LocationSearchBuckets
	if i > 0 {
		res = append(res, OptBucketLocationSearchBuckets(i))
	}

	i = c.Stats.CacheTTL
	if i > 0 {
		res = append(res, OptStatsCacheTTL(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		warnNegative(name, i)
	}
	return res
}

func warnNegative(name string, i int) {
	gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
}

func isValidRange(name string, i, min, max int) bool {
	res := i >= min && i <= max
	if !res {
		gn.Warn(
			"<em>%s</em> has to be between %d and %d, ignoring %d",
			name, min, max, i,
		)
	}
	return res
}

// isValidRatio accepts values in the open interval (0, 1).
func isValidRatio(name string, f float64) bool {
	res := f > 0 && f < 1
	if !res {
		gn.Warn(
			"<em>%s</em> has to be between 0 and 1, ignoring %v",
			name, f,
		)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Store.Driver":    {"postgres": s, "sqlite": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
