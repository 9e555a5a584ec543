package ioingest

import (
	"cmp"
	"context"
	"slices"

	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/placename"
	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// FindSimilarBuckets returns buckets whose normalized names are more
// similar to rawName than Bucket.SearchThreshold. A limit of zero or
// less uses Bucket.SearchLimit.
func (g *ingester) FindSimilarBuckets(
	ctx context.Context,
	rawName string,
	limit int,
) ([]geobucket.Bucket, error) {
	if limit <= 0 {
		limit = g.cfg.Bucket.SearchLimit
	}

	res, err := g.similar(ctx, rawName, limit)
	g.metrics.RecordSearch("similar", len(res), err)
	return res, err
}

// FindListingsByLocation returns the newest listings of buckets with
// names similar to rawLocation.
func (g *ingester) FindListingsByLocation(
	ctx context.Context,
	rawLocation string,
	limit int,
) ([]geobucket.Listing, error) {
	if limit <= 0 {
		limit = g.cfg.Bucket.SearchLimit
	}

	bs, err := g.similar(ctx, rawLocation, g.cfg.Bucket.LocationSearchBuckets)
	if err != nil {
		g.metrics.RecordSearch("listings", 0, err)
		return nil, err
	}
	if len(bs) == 0 {
		g.metrics.RecordSearch("listings", 0, nil)
		return []geobucket.Listing{}, nil
	}

	ids := make([]int64, len(bs))
	for i, v := range bs {
		ids[i] = v.ID
	}

	res, err := g.store.ListingsByBuckets(ctx, ids, limit)
	if err != nil {
		err = SearchError(rawLocation, err)
		g.metrics.RecordSearch("listings", 0, err)
		return nil, err
	}
	if res == nil {
		res = []geobucket.Listing{}
	}
	g.metrics.RecordSearch("listings", len(res), nil)
	return res, nil
}

// BucketsWithinRadius returns stored buckets of the cells in the grid
// disk that covers radiusKm around the coordinate, closest first.
func (g *ingester) BucketsWithinRadius(
	ctx context.Context,
	lat, lng, radiusKm float64,
) ([]geobucket.Bucket, error) {
	idx, err := spatial.IndexAt(lat, lng)
	if err != nil {
		return nil, err
	}

	k := spatial.RingSizeForRadius(radiusKm, spatial.BucketResolution)
	cells, err := spatial.NeighborsWithinRing(idx.R8, k)
	if err != nil {
		return nil, err
	}

	res, err := g.store.BucketsByCells(ctx, cells)
	if err != nil {
		err = SearchError(spatial.CellToString(idx.R8), err)
		g.metrics.RecordSearch("near", 0, err)
		return nil, err
	}

	origin := orb.Point{lng, lat}
	dist := make(map[int64]float64, len(res))
	for _, v := range res {
		bLat, bLng, err := v.CenterLatLng()
		if err != nil {
			return nil, err
		}
		dist[v.ID] = geo.Distance(origin, orb.Point{bLng, bLat})
	}
	slices.SortStableFunc(res, func(a, b geobucket.Bucket) int {
		if c := cmp.Compare(dist[a.ID], dist[b.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if res == nil {
		res = []geobucket.Bucket{}
	}
	g.metrics.RecordSearch("near", len(res), nil)
	return res, nil
}

func (g *ingester) similar(
	ctx context.Context,
	rawName string,
	limit int,
) ([]geobucket.Bucket, error) {
	norm := placename.Normalize(rawName)
	if norm == "" {
		return []geobucket.Bucket{}, nil
	}

	res, err := g.store.SimilarBuckets(ctx, norm, g.cfg.Bucket.SearchThreshold, limit)
	if err != nil {
		return nil, SearchError(rawName, err)
	}
	if res == nil {
		res = []geobucket.Bucket{}
	}
	return res, nil
}
