package geobucket

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrPersistence wraps every failure of the underlying database.
	ErrPersistence = errors.New("persistence failure")

	// ErrDuplicateKey signals that a bucket with the same cell already
	// exists. Resolvers recover from it by re-reading the bucket.
	ErrDuplicateKey = errors.New("duplicate bucket cell")

	// ErrBucketNotFound is returned when a bucket id does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrTxAborted is returned by Commit of a transaction that had one of
	// its nested scopes rolled back.
	ErrTxAborted = errors.New("transaction aborted by nested scope")
)

// Capabilities are optional store features, fixed at construction.
type Capabilities struct {
	// Dialect is the name of the SQL backend.
	Dialect string
	// TrigramSimilarity is true when the store scores name similarity
	// itself. Otherwise candidates are scored in process.
	TrigramSimilarity bool
}

// Queries are the reads and writes the engine needs from a store. They are
// available both on the Store (auto-commit) and on a Tx.
type Queries interface {
	// BucketByID returns ErrBucketNotFound when the id does not exist.
	BucketByID(ctx context.Context, id int64) (*Bucket, error)

	// BucketByCell returns nil and no error when there is no bucket for
	// the cell.
	BucketByCell(ctx context.Context, cellID int64) (*Bucket, error)

	// BucketsByCells returns buckets of the given cells ordered by id.
	BucketsByCells(ctx context.Context, cellIDs []int64) ([]Bucket, error)

	// SimilarBucketsInCells returns buckets of the given cells whose
	// normalized name scores above threshold against name. Results are
	// ordered by score descending, then by id ascending.
	SimilarBucketsInCells(
		ctx context.Context,
		cellIDs []int64,
		name string,
		threshold float64,
	) ([]Bucket, error)

	// SimilarBuckets searches all buckets by normalized name, ordered the
	// same way as SimilarBucketsInCells.
	SimilarBuckets(
		ctx context.Context,
		name string,
		threshold float64,
		limit int,
	) ([]Bucket, error)

	// CreateBucket inserts a bucket and sets its ID. It returns
	// ErrDuplicateKey if the cell already has a bucket.
	CreateBucket(ctx context.Context, b *Bucket) error

	// IncrementListingCount adds one to the count in a single statement.
	// It returns ErrBucketNotFound when the bucket does not exist.
	IncrementListingCount(ctx context.Context, bucketID int64) error

	// CreateListing inserts a listing.
	CreateListing(ctx context.Context, l *Listing) error

	// ListingByTitle returns nil and no error when no listing has the
	// title. With several matches the oldest one is returned.
	ListingByTitle(ctx context.Context, title string) (*Listing, error)

	// ListingsByBuckets returns listings of the buckets, newest first.
	ListingsByBuckets(ctx context.Context, bucketIDs []int64, limit int) ([]Listing, error)
}

// Aggregates are read-only population queries used for statistics.
type Aggregates interface {
	CountBuckets(ctx context.Context) (int64, error)
	CountEmptyBuckets(ctx context.Context) (int64, error)
	CountListings(ctx context.Context) (int64, error)

	// CountDistinctNames counts distinct normalized bucket names.
	CountDistinctNames(ctx context.Context) (int64, error)

	// TopBuckets returns non-empty buckets by listing count descending,
	// ties by id ascending.
	TopBuckets(ctx context.Context, limit int) ([]Bucket, error)

	// CenterExtent returns the bound of all stored bucket centers, or nil
	// when no bucket has a center.
	CenterExtent(ctx context.Context) (*orb.Bound, error)

	// ResolutionRollup aggregates listing counts per bucket resolution,
	// ordered by resolution.
	ResolutionRollup(ctx context.Context) ([]ResolutionStats, error)
}

// Tx is an explicit transaction scope. Scopes nest: Nested returns a scope
// one level deeper that shares the same database transaction. Only the
// scope at depth 0 really commits or rolls back. Rolling back a nested
// scope marks the whole transaction as aborted.
type Tx interface {
	Queries

	// Depth is 0 for the outermost scope.
	Depth() int

	// Nested returns a child scope of this transaction.
	Nested() Tx

	Commit() error
	Rollback() error
}

// Store is the persistence collaborator of the engine.
type Store interface {
	Queries
	Aggregates

	// Begin opens a new outermost transaction scope.
	Begin(ctx context.Context) (Tx, error)

	Capabilities() Capabilities

	Close() error
}

// WithinTx runs fn inside a transaction scope. With a nil parent it opens
// a new transaction on st, otherwise it joins parent one level deeper.
// The scope is committed when fn succeeds and rolled back otherwise.
func WithinTx(
	ctx context.Context,
	st Store,
	parent Tx,
	fn func(Tx) error,
) (err error) {
	var tx Tx
	if parent != nil {
		tx = parent.Nested()
	} else {
		if tx, err = st.Begin(ctx); err != nil {
			return err
		}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit at depth %d: %w", tx.Depth(), err)
	}
	return nil
}
