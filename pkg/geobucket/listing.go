package geobucket

import (
	"fmt"
	"strings"
	"time"
)

// Listing is a property listing attached to a bucket.
type Listing struct {
	// ID is a time-ordered UUID.
	ID string `json:"id"`

	Title string `json:"title"`

	RawLocationName        string `json:"rawLocationName"`
	NormalizedLocationName string `json:"normalizedLocationName"`

	// Lat and Lng are the coordinate supplied by the caller.
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// FineCellID and MidCellID index the listing's own coordinate at
	// resolutions 9 and 8. MidCellID may differ from the bucket cell.
	FineCellID int64 `json:"fineCellId"`
	MidCellID  int64 `json:"midCellId"`

	// BucketID is nil only before the listing is attached.
	BucketID *int64 `json:"bucketId"`

	// Fingerprint identifies listings with the same title and coordinate.
	Fingerprint string `json:"fingerprint"`

	Attributes map[string]any `json:"attributes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListingInput is what callers supply to create a listing.
type ListingInput struct {
	Title      string         `json:"title"      yaml:"title"`
	Location   string         `json:"location"   yaml:"location"`
	Lat        float64        `json:"lat"        yaml:"lat"`
	Lng        float64        `json:"lng"        yaml:"lng"`
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
}

// Validate checks fields that do not depend on the spatial grid.
func (in ListingInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("listing title is empty")
	}
	return nil
}
