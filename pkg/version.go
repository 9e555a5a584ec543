// Package geobuckets groups free-form property listings into shared
// hexagonal spatial buckets.
package geobuckets

var (
	// Version of geobuckets, set by the build with -ldflags.
	Version = "v0.1.0"
	// Build timestamp, set by the build with -ldflags.
	Build = "n/a"
)
