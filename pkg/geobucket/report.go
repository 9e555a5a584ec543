package geobucket

import "time"

// Report is the population statistics snapshot.
type Report struct {
	TotalBuckets    int64             `json:"totalBuckets"`
	TotalListings   int64             `json:"totalListings"`
	EmptyBuckets    int64             `json:"emptyBuckets"`
	TopBuckets      []BucketSummary   `json:"topBuckets"`
	Coverage        Coverage          `json:"coverage"`
	ResolutionStats []ResolutionStats `json:"resolutionStats"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

// BucketSummary is a bucket entry of the top buckets list.
type BucketSummary struct {
	ID           int64   `json:"id"`
	Cell         string  `json:"cell"`
	Name         string  `json:"name"`
	ListingCount int64   `json:"listingCount"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// Coverage describes the area covered by buckets.
type Coverage struct {
	// BoundingBox of bucket centers, nil when no bucket has geometry.
	BoundingBox *BoundingBox `json:"boundingBox"`
	// AreaKm2 of the bounding box on the WGS84 ellipsoid, nil when
	// BoundingBox is nil.
	AreaKm2          *float64 `json:"areaKm2,omitempty"`
	UniqueLocations  int64    `json:"uniqueLocations"`
	AvgBucketDensity float64  `json:"avgBucketDensity"`
}

// BoundingBox in degrees.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// ResolutionStats aggregates listing counts of buckets at one resolution.
type ResolutionStats struct {
	Resolution    int     `json:"resolution"`
	BucketCount   int64   `json:"bucketCount"`
	AvgListings   float64 `json:"avgListings"`
	MaxListings   int64   `json:"maxListings"`
	MinListings   int64   `json:"minListings"`
	TotalListings int64   `json:"totalListings"`
}
