package ioingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/ioingest"
	"github.com/gnames/geobuckets/internal/iotesting"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/errcode"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(err error) gn.ErrorCode {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code
	}
	return errcode.UnknownError
}

func newIngester(t *testing.T, opts ...config.Option) (geobucket.Ingester, geobucket.Store) {
	t.Helper()
	cfg := config.New()
	cfg.Update(opts)
	st := iotesting.NewSQLiteStore(t)
	return ioingest.New(cfg, st, nil), st
}

func TestIndexCoordinate(t *testing.T) {
	g, _ := newIngester(t)

	idx, err := g.IndexCoordinate(6.4698, 3.6285)
	require.NoError(t, err)
	parent, err := spatial.ParentOf(idx.R8, spatial.CoarseResolution)
	require.NoError(t, err)
	assert.Equal(t, parent, idx.R7)
	parent, err = spatial.ParentOf(idx.R9, spatial.BucketResolution)
	require.NoError(t, err)
	assert.Equal(t, parent, idx.R8)

	_, err = g.IndexCoordinate(91, 0)
	assert.Equal(t, errcode.InvalidCoordinateError, codeOf(err))
}

func TestResolveBucket(t *testing.T) {
	ctx := context.Background()
	g, _ := newIngester(t)

	b1, err := g.ResolveBucket(ctx, "Sangotedo", 6.4698, 3.6285)
	require.NoError(t, err)
	assert.Equal(t, "sangotedo", b1.CanonicalNameNormalized)

	b2, err := g.ResolveBucket(ctx, "Sangotedo, Ajah", 6.4720, 3.6301)
	require.NoError(t, err)
	assert.Equal(t, b1.ID, b2.ID)

	_, err = g.ResolveBucket(ctx, "Nowhere", -91, 0)
	assert.Equal(t, errcode.InvalidCoordinateError, codeOf(err))
}

func TestIngestListingNearbyName(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	l1, err := g.IngestListing(ctx, geobucket.ListingInput{
		Title:    "3 Bedroom Flat",
		Location: "Sangotedo",
		Lat:      6.4698,
		Lng:      3.6285,
	})
	require.NoError(t, err)
	require.NotNil(t, l1.BucketID)

	// about 100m away, named with the city appended
	l2, err := g.IngestListing(ctx, geobucket.ListingInput{
		Title:    "2 Bedroom Flat",
		Location: "sangotedo lagos",
		Lat:      6.4705,
		Lng:      3.6290,
	})
	require.NoError(t, err)
	require.NotNil(t, l2.BucketID)
	assert.Equal(t, *l1.BucketID, *l2.BucketID)

	b, err := st.BucketByID(ctx, *l1.BucketID)
	require.NoError(t, err)
	assert.Equal(t, "Sangotedo", b.CanonicalName)
	assert.Equal(t, int64(2), b.ListingCount)

	idx, err := spatial.IndexAt(6.4698, 3.6285)
	require.NoError(t, err)
	assert.Equal(t, idx.R8, b.CellID)

	n, err := st.CountBuckets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIngestListing(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	in := geobucket.ListingInput{
		Title:      "Luxury 3 Bedroom Flat in Sangotedo",
		Location:   "Sangotedo",
		Lat:        6.4698,
		Lng:        3.6285,
		Attributes: map[string]any{"bedrooms": 3},
	}
	l1, err := g.IngestListing(ctx, in)
	require.NoError(t, err)
	assert.Len(t, l1.ID, 36)
	assert.Equal(t, "sangotedo", l1.NormalizedLocationName)
	assert.Equal(t, ioingest.Fingerprint(in), l1.Fingerprint)
	require.NotNil(t, l1.BucketID)

	idx, err := spatial.IndexAt(in.Lat, in.Lng)
	require.NoError(t, err)
	assert.Equal(t, idx.R9, l1.FineCellID)
	assert.Equal(t, idx.R8, l1.MidCellID)

	l2, err := g.IngestListing(ctx, geobucket.ListingInput{
		Title:    "Beautiful 4 Bedroom Duplex",
		Location: "Sangotedo, Ajah",
		Lat:      6.4720,
		Lng:      3.6301,
	})
	require.NoError(t, err)
	assert.Equal(t, *l1.BucketID, *l2.BucketID)
	assert.NotEqual(t, l1.ID, l2.ID)

	b, err := st.BucketByID(ctx, *l1.BucketID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.ListingCount)

	n, err := st.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestIngestListingInvalid(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	tests := []struct {
		msg  string
		in   geobucket.ListingInput
		code gn.ErrorCode
	}{
		{"empty title", geobucket.ListingInput{Title: " ", Lat: 6.4, Lng: 3.6},
			errcode.InvalidListingError},
		{"bad lat", geobucket.ListingInput{Title: "Flat", Lat: 100, Lng: 3.6},
			errcode.InvalidCoordinateError},
		{"bad lng", geobucket.ListingInput{Title: "Flat", Lat: 6.4, Lng: -181},
			errcode.InvalidCoordinateError},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			_, err := g.IngestListing(ctx, v.in)
			require.Error(t, err)
			assert.Equal(t, v.code, codeOf(err))
		})
	}

	n, err := st.CountBuckets(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIngestListingIfAbsent(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	in := geobucket.ListingInput{
		Title:    "3 Bedroom Flat in Lekki Phase 1",
		Location: "Lekki Phase 1, Lagos",
		Lat:      6.4480,
		Lng:      3.4745,
	}
	l1, created, err := g.IngestListingIfAbsent(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)

	in.Lat, in.Lng = 6.4474, 3.4739
	in.Title = "  " + in.Title
	l2, created, err := g.IngestListingIfAbsent(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, l1.ID, l2.ID)

	b, err := st.BucketByID(ctx, *l1.BucketID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ListingCount)

	_, _, err = g.IngestListingIfAbsent(ctx, geobucket.ListingInput{})
	assert.Equal(t, errcode.InvalidListingError, codeOf(err))
}

func TestAttachListing(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	b, err := g.ResolveBucket(ctx, "Victoria Island", 6.4281, 3.4219)
	require.NoError(t, err)

	l, err := g.AttachListing(ctx, nil, &geobucket.Listing{
		Title:           "Penthouse",
		RawLocationName: "Victoria Island",
		Lat:             6.4281,
		Lng:             3.4219,
	}, b)
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.NotEmpty(t, l.Fingerprint)
	assert.Equal(t, b.ID, *l.BucketID)
	assert.Equal(t, int64(1), b.ListingCount)

	stored, err := st.BucketByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ListingCount)

	t.Run("bucket is not stored", func(t *testing.T) {
		_, err := g.AttachListing(ctx, nil, &geobucket.Listing{Title: "Flat"},
			&geobucket.Bucket{})
		assert.Equal(t, errcode.InvalidListingError, codeOf(err))

		_, err = g.AttachListing(ctx, nil, nil, b)
		assert.Equal(t, errcode.InvalidListingError, codeOf(err))
	})
}

func TestAttachListingMissingBucket(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	l := &geobucket.Listing{Title: "Orphan", Lat: 6.5, Lng: 3.5}
	_, err := g.AttachListing(ctx, nil, l, &geobucket.Bucket{ID: 9999})
	require.Error(t, err)
	assert.Nil(t, l.BucketID)

	n, err := st.CountListings(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAttachListingRolledBackWithParent(t *testing.T) {
	ctx := context.Background()
	g, st := newIngester(t)

	b, err := g.ResolveBucket(ctx, "Ikoyi", 6.4541, 3.4316)
	require.NoError(t, err)

	tx, err := st.Begin(ctx)
	require.NoError(t, err)
	_, err = g.AttachListing(ctx, tx, &geobucket.Listing{Title: "Terrace"}, b)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	n, err := st.CountListings(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := st.BucketByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ListingCount)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	g, _ := newIngester(t)

	res, err := g.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.TotalBuckets)
	assert.Nil(t, res.Coverage.BoundingBox)

	_, err = g.IngestListing(ctx, geobucket.ListingInput{
		Title: "Bungalow", Location: "Epe", Lat: 6.5833, Lng: 3.9833,
	})
	require.NoError(t, err)

	res, err = g.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalBuckets)
	assert.Equal(t, int64(1), res.TotalListings)
	require.Len(t, res.TopBuckets, 1)
	assert.Equal(t, "Epe", res.TopBuckets[0].Name)
}

func TestFingerprint(t *testing.T) {
	a := geobucket.ListingInput{Title: "Flat", Lat: 6.4698, Lng: 3.6285}
	b := geobucket.ListingInput{Title: " Flat ", Lat: 6.46980000001, Lng: 3.6285}
	c := geobucket.ListingInput{Title: "Flat", Lat: 6.4699, Lng: 3.6285}

	assert.Equal(t, ioingest.Fingerprint(a), ioingest.Fingerprint(b))
	assert.NotEqual(t, ioingest.Fingerprint(a), ioingest.Fingerprint(c))
	assert.Len(t, ioingest.Fingerprint(a), 36)
}
