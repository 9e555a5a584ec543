package iostore

import (
	"cmp"
	"context"
	"slices"

	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/placename"
	"github.com/gnames/geobuckets/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nameScoreSQL scores a normalized bucket name against a query with
// pg_trgm. word_similarity in both directions lets a short name match a
// longer name that contains it.
const nameScoreSQL = `GREATEST(
	similarity(canonical_name_normalized, ?),
	word_similarity(?, canonical_name_normalized),
	word_similarity(canonical_name_normalized, ?))`

const scanBatchSize = 1000

// queries implements geobucket.Queries on a GORM handle that is either
// the connection pool or an open transaction.
type queries struct {
	db   *gorm.DB
	caps geobucket.Capabilities
}

func (q queries) BucketByID(ctx context.Context, id int64) (*geobucket.Bucket, error) {
	var rows []schema.Bucket
	err := q.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, persistenceError("bucket by id", err)
	}
	if len(rows) == 0 {
		return nil, geobucket.ErrBucketNotFound
	}
	return q.single(rows[0])
}

func (q queries) BucketByCell(ctx context.Context, cellID int64) (*geobucket.Bucket, error) {
	var rows []schema.Bucket
	err := q.db.WithContext(ctx).
		Where("cell_id = ?", cellID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, persistenceError("bucket by cell", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return q.single(rows[0])
}

func (q queries) BucketsByCells(
	ctx context.Context,
	cellIDs []int64,
) ([]geobucket.Bucket, error) {
	if len(cellIDs) == 0 {
		return nil, nil
	}
	var rows []schema.Bucket
	err := q.db.WithContext(ctx).
		Where("cell_id IN ?", cellIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, persistenceError("buckets by cells", err)
	}
	return q.many(rows)
}

func (q queries) SimilarBucketsInCells(
	ctx context.Context,
	cellIDs []int64,
	name string,
	threshold float64,
) ([]geobucket.Bucket, error) {
	if len(cellIDs) == 0 || name == "" {
		return nil, nil
	}

	tx := q.db.WithContext(ctx).Where("cell_id IN ?", cellIDs)
	if q.caps.TrigramSimilarity {
		rows, err := q.trigramSearch(tx, name, threshold, 0)
		if err != nil {
			return nil, persistenceError("similar buckets in cells", err)
		}
		return q.many(rows)
	}

	var rows []schema.Bucket
	if err := tx.Find(&rows).Error; err != nil {
		return nil, persistenceError("similar buckets in cells", err)
	}
	return q.many(rankBySimilarity(rows, name, threshold, 0))
}

func (q queries) SimilarBuckets(
	ctx context.Context,
	name string,
	threshold float64,
	limit int,
) ([]geobucket.Bucket, error) {
	if name == "" {
		return nil, nil
	}

	tx := q.db.WithContext(ctx).Model(&schema.Bucket{})
	if q.caps.TrigramSimilarity {
		rows, err := q.trigramSearch(tx, name, threshold, limit)
		if err != nil {
			return nil, persistenceError("similar buckets", err)
		}
		return q.many(rows)
	}

	var matched []schema.Bucket
	var batch []schema.Bucket
	err := tx.FindInBatches(&batch, scanBatchSize, func(*gorm.DB, int) error {
		matched = append(matched, rankBySimilarity(batch, name, threshold, 0)...)
		return nil
	}).Error
	if err != nil {
		return nil, persistenceError("similar buckets", err)
	}
	return q.many(rankBySimilarity(matched, name, threshold, limit))
}

// trigramSearch filters and orders by the pg_trgm score.
func (q queries) trigramSearch(
	tx *gorm.DB,
	name string,
	threshold float64,
	limit int,
) ([]schema.Bucket, error) {
	vars := []any{name, name, name}
	tx = tx.
		Where(nameScoreSQL+" > ?", append(vars, threshold)...).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                nameScoreSQL + " DESC, id ASC",
				Vars:               vars,
				WithoutParentheses: true,
			},
		})
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []schema.Bucket
	err := tx.Find(&rows).Error
	return rows, err
}

// rankBySimilarity scores rows in process, keeps those above threshold
// and orders them by score descending, then id ascending.
func rankBySimilarity(
	rows []schema.Bucket,
	name string,
	threshold float64,
	limit int,
) []schema.Bucket {
	type scored struct {
		row   schema.Bucket
		score float64
	}
	var res []scored
	for _, v := range rows {
		s := placename.SimilarityNormalized(v.CanonicalNameNormalized, name)
		if s > threshold {
			res = append(res, scored{row: v, score: s})
		}
	}

	slices.SortFunc(res, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.row.ID, b.row.ID)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}

	out := make([]schema.Bucket, len(res))
	for i, v := range res {
		out[i] = v.row
	}
	return out
}

func (q queries) CreateBucket(ctx context.Context, b *geobucket.Bucket) error {
	row, err := bucketToRow(b)
	if err != nil {
		return persistenceError("encode bucket geometry", err)
	}

	res := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cell_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return persistenceError("create bucket", res.Error)
	}
	if res.RowsAffected == 0 {
		return geobucket.ErrDuplicateKey
	}

	b.ID = row.ID
	b.ListingCount = row.ListingCount
	b.CreatedAt = row.CreatedAt
	b.UpdatedAt = row.UpdatedAt
	return nil
}

func (q queries) IncrementListingCount(ctx context.Context, bucketID int64) error {
	res := q.db.WithContext(ctx).
		Model(&schema.Bucket{}).
		Where("id = ?", bucketID).
		Updates(map[string]any{
			"listing_count": gorm.Expr("listing_count + ?", 1),
		})
	if res.Error != nil {
		return persistenceError("increment listing count", res.Error)
	}
	if res.RowsAffected == 0 {
		return geobucket.ErrBucketNotFound
	}
	return nil
}

func (q queries) CreateListing(ctx context.Context, l *geobucket.Listing) error {
	row, err := listingToRow(l)
	if err != nil {
		return persistenceError("encode listing coordinates", err)
	}
	if err = q.db.WithContext(ctx).Create(&row).Error; err != nil {
		return persistenceError("create listing", err)
	}
	l.CreatedAt = row.CreatedAt
	l.UpdatedAt = row.UpdatedAt
	return nil
}

func (q queries) ListingByTitle(ctx context.Context, title string) (*geobucket.Listing, error) {
	var rows []schema.Listing
	err := q.db.WithContext(ctx).
		Where("title = ?", title).
		Order("created_at ASC, id ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, persistenceError("listing by title", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	res := listingFromRow(rows[0])
	return &res, nil
}

func (q queries) ListingsByBuckets(
	ctx context.Context,
	bucketIDs []int64,
	limit int,
) ([]geobucket.Listing, error) {
	if len(bucketIDs) == 0 {
		return nil, nil
	}
	tx := q.db.WithContext(ctx).
		Where("bucket_id IN ?", bucketIDs).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []schema.Listing
	if err := tx.Find(&rows).Error; err != nil {
		return nil, persistenceError("listings by buckets", err)
	}

	res := make([]geobucket.Listing, len(rows))
	for i, v := range rows {
		res[i] = listingFromRow(v)
	}
	return res, nil
}

func (q queries) single(row schema.Bucket) (*geobucket.Bucket, error) {
	b, err := bucketFromRow(row)
	if err != nil {
		return nil, persistenceError("decode bucket geometry", err)
	}
	return &b, nil
}

func (q queries) many(rows []schema.Bucket) ([]geobucket.Bucket, error) {
	res, err := bucketsFromRows(rows)
	if err != nil {
		return nil, persistenceError("decode bucket geometry", err)
	}
	return res, nil
}
