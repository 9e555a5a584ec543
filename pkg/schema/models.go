// Package schema provides database table models for geobuckets.
// The same models are migrated on PostgreSQL and SQLite.
package schema

import (
	"time"
)

// Bucket is a resolution-8 cell that groups listings.
type Bucket struct {
	// ID is the surrogate key.
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// CellID is the H3 cell of the bucket, unique across buckets.
	CellID int64 `gorm:"not null;uniqueIndex:idx_buckets_cell_id"`

	// Resolution of CellID.
	Resolution int `gorm:"not null;default:8;index:idx_buckets_resolution"`

	// ParentCellID is the resolution-7 ancestor, used for coarse rollups.
	ParentCellID int64 `gorm:"not null;index:idx_buckets_parent_cell_id"`

	// CanonicalName is the first name assigned to the bucket.
	CanonicalName string `gorm:"type:varchar(255);not null"`

	// CanonicalNameNormalized is the normalized CanonicalName.
	CanonicalNameNormalized string `gorm:"type:varchar(255);not null;index:idx_buckets_name"`

	// CenterLat and CenterLng duplicate CenterPoint for aggregate queries.
	CenterLat *float64
	CenterLng *float64

	// CenterPoint is the cell center as WKB.
	CenterPoint []byte

	// Boundary is the cell polygon as WKB.
	Boundary []byte

	// ListingCount is incremented once per attached listing.
	ListingCount int64 `gorm:"not null;default:0;index:idx_buckets_listing_count"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Listings keep existing when their bucket is removed.
	Listings []Listing `gorm:"foreignKey:BucketID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name of buckets.
func (Bucket) TableName() string {
	return "buckets"
}

// Listing is a property listing.
type Listing struct {
	// ID is a time-ordered UUID (version 7).
	ID string `gorm:"type:varchar(36);primaryKey"`

	Title string `gorm:"type:varchar(255);not null;index:idx_listings_title"`

	RawLocationName        string `gorm:"type:varchar(255)"`
	NormalizedLocationName string `gorm:"type:varchar(255);index:idx_listings_location"`

	// Lat and Lng are the exact coordinate supplied with the listing.
	Lat float64 `gorm:"not null"`
	Lng float64 `gorm:"not null"`

	// Coordinates is the (Lng, Lat) point as WKB.
	Coordinates []byte

	// FineCellID is the resolution-9 cell of the coordinate.
	FineCellID int64 `gorm:"not null;index:idx_listings_fine_cell_id"`

	// MidCellID is the resolution-8 cell of the coordinate.
	MidCellID int64 `gorm:"not null;index:idx_listings_mid_cell_id"`

	BucketID *int64 `gorm:"index:idx_listings_bucket_id"`

	// Fingerprint is a UUID v5 of title and coordinate.
	Fingerprint string `gorm:"type:varchar(36);index:idx_listings_fingerprint"`

	Attributes map[string]any `gorm:"type:text;serializer:json"`

	CreatedAt time.Time `gorm:"index:idx_listings_created_at"`
	UpdatedAt time.Time
}

// TableName returns the table name of listings.
func (Listing) TableName() string {
	return "listings"
}
