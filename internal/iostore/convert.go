package iostore

import (
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/schema"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

func bucketToRow(b *geobucket.Bucket) (schema.Bucket, error) {
	res := schema.Bucket{
		ID:                      b.ID,
		CellID:                  b.CellID,
		Resolution:              b.Resolution,
		ParentCellID:            b.ParentCellID,
		CanonicalName:           b.CanonicalName,
		CanonicalNameNormalized: b.CanonicalNameNormalized,
		ListingCount:            b.ListingCount,
	}

	if b.Center != nil {
		lat, lng := b.Center.Lat(), b.Center.Lon()
		res.CenterLat, res.CenterLng = &lat, &lng
		bs, err := wkb.Marshal(*b.Center)
		if err != nil {
			return res, err
		}
		res.CenterPoint = bs
	}

	if len(b.Boundary) > 0 {
		bs, err := wkb.Marshal(b.Boundary)
		if err != nil {
			return res, err
		}
		res.Boundary = bs
	}
	return res, nil
}

func bucketFromRow(r schema.Bucket) (geobucket.Bucket, error) {
	res := geobucket.Bucket{
		ID:                      r.ID,
		CellID:                  r.CellID,
		Resolution:              r.Resolution,
		ParentCellID:            r.ParentCellID,
		CanonicalName:           r.CanonicalName,
		CanonicalNameNormalized: r.CanonicalNameNormalized,
		ListingCount:            r.ListingCount,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}

	switch {
	case len(r.CenterPoint) > 0:
		g, err := wkb.Unmarshal(r.CenterPoint)
		if err != nil {
			return res, err
		}
		if pt, ok := g.(orb.Point); ok {
			res.Center = &pt
		}
	case r.CenterLat != nil && r.CenterLng != nil:
		res.Center = &orb.Point{*r.CenterLng, *r.CenterLat}
	}

	if len(r.Boundary) > 0 {
		g, err := wkb.Unmarshal(r.Boundary)
		if err != nil {
			return res, err
		}
		if poly, ok := g.(orb.Polygon); ok {
			res.Boundary = poly
		}
	}
	return res, nil
}

func bucketsFromRows(rows []schema.Bucket) ([]geobucket.Bucket, error) {
	res := make([]geobucket.Bucket, 0, len(rows))
	for _, v := range rows {
		b, err := bucketFromRow(v)
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, nil
}

func listingToRow(l *geobucket.Listing) (schema.Listing, error) {
	res := schema.Listing{
		ID:                     l.ID,
		Title:                  l.Title,
		RawLocationName:        l.RawLocationName,
		NormalizedLocationName: l.NormalizedLocationName,
		Lat:                    l.Lat,
		Lng:                    l.Lng,
		FineCellID:             l.FineCellID,
		MidCellID:              l.MidCellID,
		BucketID:               l.BucketID,
		Fingerprint:            l.Fingerprint,
		Attributes:             l.Attributes,
		CreatedAt:              l.CreatedAt,
		UpdatedAt:              l.UpdatedAt,
	}
	bs, err := wkb.Marshal(orb.Point{l.Lng, l.Lat})
	if err != nil {
		return res, err
	}
	res.Coordinates = bs
	return res, nil
}

func listingFromRow(r schema.Listing) geobucket.Listing {
	return geobucket.Listing{
		ID:                     r.ID,
		Title:                  r.Title,
		RawLocationName:        r.RawLocationName,
		NormalizedLocationName: r.NormalizedLocationName,
		Lat:                    r.Lat,
		Lng:                    r.Lng,
		FineCellID:             r.FineCellID,
		MidCellID:              r.MidCellID,
		BucketID:               r.BucketID,
		Fingerprint:            r.Fingerprint,
		Attributes:             r.Attributes,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}
