// Package iobucket implements bucket resolution and listing counters on
// top of a geobucket.Store.
package iobucket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/geobuckets/internal/iometrics"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/spatial"
)

type resolver struct {
	store     geobucket.Store
	ring      int
	threshold float64
	metrics   *iometrics.Metrics
}

// NewResolver creates a Resolver that searches NeighborRing cells around
// a listing for buckets with names more similar than MatchThreshold.
// Metrics may be nil.
func NewResolver(
	cfg *config.Config,
	st geobucket.Store,
	m *iometrics.Metrics,
) geobucket.Resolver {
	return &resolver{
		store:     st,
		ring:      cfg.Bucket.NeighborRing,
		threshold: cfg.Bucket.MatchThreshold,
		metrics:   m,
	}
}

// Resolve returns, in this order: the bucket of the request cell, the
// most similar bucket within the neighbor ring, or a new bucket.
func (r *resolver) Resolve(
	ctx context.Context,
	parent geobucket.Tx,
	req geobucket.ResolveRequest,
) (*geobucket.Bucket, error) {
	start := time.Now()
	var res *geobucket.Bucket
	var outcome string

	err := geobucket.WithinTx(ctx, r.store, parent, func(tx geobucket.Tx) error {
		var err error
		res, outcome, err = r.resolve(ctx, tx, req)
		return err
	})
	if err != nil {
		r.metrics.RecordResolution(iometrics.ResolvedError, time.Since(start))
		slog.Error("Cannot resolve bucket",
			"cell", spatial.CellToString(req.CellID),
			"name", req.RawName,
			"depth", depth(parent),
			"error", err,
		)
		if errors.Is(err, geobucket.ErrPersistence) ||
			errors.Is(err, geobucket.ErrTxAborted) {
			return nil, ResolutionFailedError(req.CellID, req.RawName, err)
		}
		return nil, UnexpectedError("bucket resolution", err)
	}

	r.metrics.RecordResolution(outcome, time.Since(start))
	slog.Debug("Bucket resolved",
		"outcome", outcome,
		"bucket", res.ID,
		"cell", res.Cell(),
		"name", req.RawName,
	)
	return res, nil
}

func (r *resolver) resolve(
	ctx context.Context,
	tx geobucket.Tx,
	req geobucket.ResolveRequest,
) (*geobucket.Bucket, string, error) {
	b, err := tx.BucketByCell(ctx, req.CellID)
	if err != nil {
		return nil, "", err
	}
	if b != nil {
		return b, iometrics.ResolvedExact, nil
	}

	if req.NormalizedName != "" {
		b, err = r.nearest(ctx, tx, req)
		if err != nil {
			return nil, "", err
		}
		if b != nil {
			return b, iometrics.ResolvedNeighbor, nil
		}
	}

	b, err = geobucket.NewBucket(req)
	if err != nil {
		return nil, "", err
	}

	err = tx.CreateBucket(ctx, b)
	if err == nil {
		return b, iometrics.ResolvedCreated, nil
	}
	if !errors.Is(err, geobucket.ErrDuplicateKey) {
		return nil, "", err
	}

	// another writer created the bucket after the lookup
	b, err = tx.BucketByCell(ctx, req.CellID)
	if err != nil {
		return nil, "", err
	}
	if b == nil {
		return nil, "", fmt.Errorf("bucket of cell %s is missing after conflict",
			spatial.CellToString(req.CellID))
	}
	return b, iometrics.ResolvedConflict, nil
}

// nearest returns the best match among buckets of the neighbor ring.
// The store orders candidates by similarity, ties by id.
func (r *resolver) nearest(
	ctx context.Context,
	tx geobucket.Tx,
	req geobucket.ResolveRequest,
) (*geobucket.Bucket, error) {
	cells, err := spatial.NeighborsWithinRing(req.CellID, r.ring)
	if err != nil {
		return nil, err
	}

	bs, err := tx.SimilarBucketsInCells(ctx, cells, req.NormalizedName, r.threshold)
	if err != nil {
		return nil, err
	}
	if len(bs) == 0 {
		return nil, nil
	}
	return &bs[0], nil
}

func depth(tx geobucket.Tx) int {
	if tx == nil {
		return 0
	}
	return tx.Depth() + 1
}
