// Package ioingest implements geobucket.Ingester, the entry point that
// ties spatial indexing, name normalization, bucket resolution and
// listing storage together.
package ioingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/iobucket"
	"github.com/gnames/geobuckets/internal/iometrics"
	"github.com/gnames/geobuckets/internal/iostats"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/placename"
	"github.com/gnames/geobuckets/pkg/spatial"
	"github.com/google/uuid"
)

type ingester struct {
	cfg      *config.Config
	store    geobucket.Store
	resolver geobucket.Resolver
	counter  geobucket.Counter
	stats    geobucket.StatsAggregator
	metrics  *iometrics.Metrics
}

// New creates an Ingester on top of a store. Metrics may be nil.
func New(
	cfg *config.Config,
	st geobucket.Store,
	m *iometrics.Metrics,
) geobucket.Ingester {
	return &ingester{
		cfg:      cfg,
		store:    st,
		resolver: iobucket.NewResolver(cfg, st, m),
		counter:  iobucket.NewCounter(st, m),
		stats:    iostats.NewAggregator(cfg, st, m),
		metrics:  m,
	}
}

func (g *ingester) IndexCoordinate(lat, lng float64) (spatial.Indexes, error) {
	return spatial.IndexAt(lat, lng)
}

func (g *ingester) ResolveBucket(
	ctx context.Context,
	rawName string,
	lat, lng float64,
) (*geobucket.Bucket, error) {
	idx, err := spatial.IndexAt(lat, lng)
	if err != nil {
		return nil, err
	}

	req := geobucket.ResolveRequest{
		CellID:         idx.R8,
		RawName:        rawName,
		NormalizedName: placename.Normalize(rawName),
		ParentCellID:   idx.R7,
	}
	return g.resolver.Resolve(ctx, nil, req)
}

// AttachListing stores the listing in the bucket and increments the
// bucket count. Both writes commit or roll back together.
func (g *ingester) AttachListing(
	ctx context.Context,
	parent geobucket.Tx,
	l *geobucket.Listing,
	b *geobucket.Bucket,
) (*geobucket.Listing, error) {
	if err := checkAttach(l, b); err != nil {
		return nil, err
	}
	if l.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, AttachListingError(l.Title, err)
		}
		l.ID = id.String()
	}
	if l.Fingerprint == "" {
		l.Fingerprint = Fingerprint(geobucket.ListingInput{
			Title: l.Title, Lat: l.Lat, Lng: l.Lng,
		})
	}

	bucketID := b.ID
	l.BucketID = &bucketID

	err := geobucket.WithinTx(ctx, g.store, parent, func(tx geobucket.Tx) error {
		if err := tx.CreateListing(ctx, l); err != nil {
			return AttachListingError(l.Title, err)
		}
		return g.counter.Increment(ctx, tx, b.ID)
	})
	if err != nil {
		l.BucketID = nil
		return nil, classify(l.Title, err)
	}

	b.ListingCount++
	return l, nil
}

// IngestListing indexes, resolves and attaches a listing in one
// transaction.
func (g *ingester) IngestListing(
	ctx context.Context,
	in geobucket.ListingInput,
) (*geobucket.Listing, error) {
	l, req, err := prepare(in)
	if err != nil {
		g.metrics.RecordListing(iometrics.ListingFailed)
		return nil, err
	}

	var res *geobucket.Listing
	err = geobucket.WithinTx(ctx, g.store, nil, func(tx geobucket.Tx) error {
		b, err := g.resolver.Resolve(ctx, tx, req)
		if err != nil {
			return err
		}
		res, err = g.AttachListing(ctx, tx, l, b)
		return err
	})
	if err != nil {
		g.metrics.RecordListing(iometrics.ListingFailed)
		slog.Error("Cannot ingest listing",
			"title", in.Title,
			"location", in.Location,
			"error", err,
		)
		return nil, classify(in.Title, err)
	}

	g.metrics.RecordListing(iometrics.ListingIngested)
	slog.Debug("Listing ingested",
		"id", res.ID,
		"bucket", *res.BucketID,
		"title", res.Title,
	)
	return res, nil
}

// IngestListingIfAbsent returns the oldest listing with the same title
// unchanged, or ingests a new one.
func (g *ingester) IngestListingIfAbsent(
	ctx context.Context,
	in geobucket.ListingInput,
) (*geobucket.Listing, bool, error) {
	if err := in.Validate(); err != nil {
		g.metrics.RecordListing(iometrics.ListingFailed)
		return nil, false, InvalidListingError(in.Title, err)
	}

	l, err := g.store.ListingByTitle(ctx, strings.TrimSpace(in.Title))
	if err != nil {
		g.metrics.RecordListing(iometrics.ListingFailed)
		return nil, false, iobucket.PersistenceError("listing by title", err)
	}
	if l != nil {
		g.metrics.RecordListing(iometrics.ListingSkipped)
		return l, false, nil
	}

	l, err = g.IngestListing(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return l, true, nil
}

func (g *ingester) GetStats(ctx context.Context) (*geobucket.Report, error) {
	return g.stats.ComputeStats(ctx)
}

// classify returns the first domain error of the chain, or wraps err
// into an AttachListingError.
func classify(title string, err error) error {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr
	}
	return AttachListingError(title, err)
}
