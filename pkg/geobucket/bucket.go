package geobucket

import (
	"time"

	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/paulmach/orb"
)

// Bucket is a resolution-8 cell that groups listings.
type Bucket struct {
	// ID is the surrogate identifier assigned by the store.
	ID int64 `json:"id"`

	// CellID is the H3 cell of the bucket. There is at most one bucket
	// per cell.
	CellID int64 `json:"cellId"`

	// Resolution of CellID.
	Resolution int `json:"resolution"`

	// ParentCellID is the resolution-7 ancestor of CellID.
	ParentCellID int64 `json:"parentCellId"`

	// CanonicalName is the first name the bucket was created with.
	CanonicalName string `json:"canonicalName"`

	// CanonicalNameNormalized is used for similarity search.
	CanonicalNameNormalized string `json:"canonicalNameNormalized"`

	// Center of the cell in (lng, lat) order, nil if not stored.
	Center *orb.Point `json:"center,omitempty"`

	// Boundary of the cell as a closed ring.
	Boundary orb.Polygon `json:"boundary,omitempty"`

	// ListingCount is the number of listings attached to the bucket.
	ListingCount int64 `json:"listingCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cell returns the hexadecimal form of CellID.
func (b Bucket) Cell() string {
	return spatial.CellToString(b.CellID)
}

// CenterLatLng returns the stored center, or derives it from the cell
// when no geometry was stored.
func (b Bucket) CenterLatLng() (float64, float64, error) {
	if b.Center != nil {
		return b.Center.Lat(), b.Center.Lon(), nil
	}
	return spatial.CenterOf(b.CellID)
}

// NewBucket builds a bucket for a cell with geometry derived from the
// cell id.
func NewBucket(req ResolveRequest) (*Bucket, error) {
	center, boundary, err := spatial.GeometryOf(req.CellID)
	if err != nil {
		return nil, err
	}
	res := &Bucket{
		CellID:                  req.CellID,
		Resolution:              spatial.BucketResolution,
		ParentCellID:            req.ParentCellID,
		CanonicalName:           req.RawName,
		CanonicalNameNormalized: req.NormalizedName,
		Center:                  &center,
		Boundary:                boundary,
	}
	return res, nil
}
