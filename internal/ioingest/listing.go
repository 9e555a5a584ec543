package ioingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/placename"
	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// Fingerprint is a name-based UUID (v5) of the listing title and
// coordinate rounded to about 10 cm. Identical submissions share it.
func Fingerprint(in geobucket.ListingInput) string {
	key := fmt.Sprintf("%s|%.6f|%.6f", strings.TrimSpace(in.Title), in.Lat, in.Lng)
	return gnuuid.New(key).String()
}

// prepare validates the input and computes everything that does not
// need the database.
func prepare(in geobucket.ListingInput) (
	*geobucket.Listing,
	geobucket.ResolveRequest,
	error,
) {
	var req geobucket.ResolveRequest
	if err := in.Validate(); err != nil {
		return nil, req, InvalidListingError(in.Title, err)
	}

	idx, err := spatial.IndexAt(in.Lat, in.Lng)
	if err != nil {
		return nil, req, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, req, err
	}

	norm := placename.Normalize(in.Location)
	res := &geobucket.Listing{
		ID:                     id.String(),
		Title:                  strings.TrimSpace(in.Title),
		RawLocationName:        in.Location,
		NormalizedLocationName: norm,
		Lat:                    in.Lat,
		Lng:                    in.Lng,
		FineCellID:             idx.R9,
		MidCellID:              idx.R8,
		Fingerprint:            Fingerprint(in),
		Attributes:             in.Attributes,
	}

	req = geobucket.ResolveRequest{
		CellID:         idx.R8,
		RawName:        in.Location,
		NormalizedName: norm,
		ParentCellID:   idx.R7,
	}
	return res, req, nil
}

func checkAttach(l *geobucket.Listing, b *geobucket.Bucket) error {
	switch {
	case l == nil:
		return InvalidListingError("", errors.New("listing is nil"))
	case b == nil || b.ID == 0:
		return InvalidListingError(l.Title, errors.New("bucket is not stored"))
	}
	return nil
}
