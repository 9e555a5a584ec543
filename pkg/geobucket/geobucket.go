// Package geobucket defines the domain of spatial buckets: the entities,
// the persistence contracts the engine depends on, and the services it
// exposes to callers.
//
// A bucket is a resolution-8 hexagonal cell that groups listings whose
// coordinates fall in or near the cell and whose location names are
// similar. Implementations of the contracts live in internal/io* packages.
package geobucket

import (
	"context"
	"time"

	"github.com/gnames/geobuckets/pkg/spatial"
)

// ResolveRequest carries the input of a find-or-create resolution.
type ResolveRequest struct {
	// CellID is the resolution-8 cell of the listing coordinate.
	CellID int64
	// RawName is the location name as supplied by the caller.
	RawName string
	// NormalizedName is placename.Normalize(RawName).
	NormalizedName string
	// ParentCellID is the resolution-7 ancestor of CellID.
	ParentCellID int64
}

// Resolver finds the bucket a listing belongs to or creates it.
type Resolver interface {
	// Resolve returns the bucket with the request's cell, or a similarly
	// named bucket in a neighboring cell, or a newly created bucket.
	// When parent is nil the resolution runs in its own transaction,
	// otherwise it joins parent.
	Resolve(ctx context.Context, parent Tx, req ResolveRequest) (*Bucket, error)
}

// Counter maintains listing counts of buckets.
type Counter interface {
	// Increment atomically adds one to the listing count of a bucket.
	// It fails with a BucketNotFoundError when the bucket does not exist.
	Increment(ctx context.Context, parent Tx, bucketID int64) error
}

// StatsAggregator computes population statistics over all buckets.
type StatsAggregator interface {
	// ComputeStats returns a best-effort snapshot. It is not isolated from
	// concurrent writers.
	ComputeStats(ctx context.Context) (*Report, error)
}

// SchemaManager creates and migrates the storage schema.
type SchemaManager interface {
	// Create builds all tables and indexes from scratch.
	Create(ctx context.Context) error
	// Migrate brings an existing schema to the latest version without
	// deleting data.
	Migrate(ctx context.Context) error
}

// Optimizer performs storage maintenance.
type Optimizer interface {
	// Optimize brings listing counts in line with stored listings and
	// refreshes query planner statistics.
	Optimize(ctx context.Context) (OptimizeResult, error)
}

// OptimizeResult summarizes an Optimize run.
type OptimizeResult struct {
	// RecountedBuckets is the number of buckets whose listing count
	// differed from the number of their listings.
	RecountedBuckets int64 `json:"recountedBuckets"`
	// DetachedListings is the number of listings without a bucket.
	DetachedListings int64         `json:"detachedListings"`
	Duration         time.Duration `json:"duration"`
}

// BatchOptions control IngestBatch.
type BatchOptions struct {
	// IfAbsent skips listings whose title already exists.
	IfAbsent bool
	// WithProgress shows a progress bar on STDERR.
	WithProgress bool
}

// BatchResult summarizes an IngestBatch run.
type BatchResult struct {
	Total      int           `json:"total"`
	Ingested   int           `json:"ingested"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// Ingester is the entry point for callers of the engine.
type Ingester interface {
	// IndexCoordinate returns the cell ids of a coordinate at resolutions
	// 7, 8 and 9.
	IndexCoordinate(lat, lng float64) (spatial.Indexes, error)

	// ResolveBucket finds or creates the bucket for a named coordinate.
	ResolveBucket(ctx context.Context, rawName string, lat, lng float64) (*Bucket, error)

	// AttachListing persists the listing in the bucket and increments the
	// bucket's listing count in one transaction, joining parent if given.
	AttachListing(ctx context.Context, parent Tx, l *Listing, b *Bucket) (*Listing, error)

	// IngestListing indexes, resolves and attaches one listing atomically.
	IngestListing(ctx context.Context, in ListingInput) (*Listing, error)

	// IngestListingIfAbsent returns the stored listing with the same
	// title if there is one, otherwise it ingests the input. The boolean
	// is true when a new listing was created.
	IngestListingIfAbsent(ctx context.Context, in ListingInput) (*Listing, bool, error)

	// IngestBatch ingests many listings concurrently.
	IngestBatch(ctx context.Context, ins []ListingInput, opts BatchOptions) (BatchResult, error)

	// FindSimilarBuckets returns buckets with names similar to rawName,
	// most similar first.
	FindSimilarBuckets(ctx context.Context, rawName string, limit int) ([]Bucket, error)

	// FindListingsByLocation returns listings from buckets with names
	// similar to rawLocation, newest first.
	FindListingsByLocation(ctx context.Context, rawLocation string, limit int) ([]Listing, error)

	// BucketsWithinRadius returns existing buckets around a coordinate.
	BucketsWithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]Bucket, error)

	// GetStats returns the population statistics report.
	GetStats(ctx context.Context) (*Report, error)
}
