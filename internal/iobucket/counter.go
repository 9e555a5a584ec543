package iobucket

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnames/geobuckets/internal/iometrics"
	"github.com/gnames/geobuckets/pkg/geobucket"
)

type counter struct {
	store   geobucket.Store
	metrics *iometrics.Metrics
}

// NewCounter creates a Counter. Metrics may be nil.
func NewCounter(st geobucket.Store, m *iometrics.Metrics) geobucket.Counter {
	return &counter{store: st, metrics: m}
}

// Increment adds one to the listing count with a single UPDATE
// statement, so concurrent increments are never lost.
func (c *counter) Increment(
	ctx context.Context,
	parent geobucket.Tx,
	bucketID int64,
) error {
	err := geobucket.WithinTx(ctx, c.store, parent, func(tx geobucket.Tx) error {
		return tx.IncrementListingCount(ctx, bucketID)
	})
	if err == nil {
		c.metrics.RecordIncrement(iometrics.StatusSuccess)
		return nil
	}

	c.metrics.RecordIncrement(iometrics.StatusError)
	slog.Error("Cannot increment listing count",
		"bucket", bucketID,
		"error", err,
	)

	switch {
	case errors.Is(err, geobucket.ErrBucketNotFound):
		return BucketNotFoundError(bucketID, err)
	case errors.Is(err, geobucket.ErrPersistence),
		errors.Is(err, geobucket.ErrTxAborted):
		return PersistenceError("increment listing count", err)
	default:
		return UnexpectedError("increment listing count", err)
	}
}
