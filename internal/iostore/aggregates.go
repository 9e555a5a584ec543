package iostore

import (
	"context"

	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/schema"
	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

type aggregates struct {
	db *gorm.DB
}

func (a aggregates) CountBuckets(ctx context.Context) (int64, error) {
	var res int64
	err := a.db.WithContext(ctx).Model(&schema.Bucket{}).Count(&res).Error
	if err != nil {
		return 0, persistenceError("count buckets", err)
	}
	return res, nil
}

func (a aggregates) CountEmptyBuckets(ctx context.Context) (int64, error) {
	var res int64
	err := a.db.WithContext(ctx).
		Model(&schema.Bucket{}).
		Where("listing_count = 0").
		Count(&res).Error
	if err != nil {
		return 0, persistenceError("count empty buckets", err)
	}
	return res, nil
}

func (a aggregates) CountListings(ctx context.Context) (int64, error) {
	var res int64
	err := a.db.WithContext(ctx).Model(&schema.Listing{}).Count(&res).Error
	if err != nil {
		return 0, persistenceError("count listings", err)
	}
	return res, nil
}

func (a aggregates) CountDistinctNames(ctx context.Context) (int64, error) {
	var res int64
	err := a.db.WithContext(ctx).
		Model(&schema.Bucket{}).
		Where("canonical_name_normalized <> ''").
		Distinct("canonical_name_normalized").
		Count(&res).Error
	if err != nil {
		return 0, persistenceError("count distinct names", err)
	}
	return res, nil
}

func (a aggregates) TopBuckets(ctx context.Context, limit int) ([]geobucket.Bucket, error) {
	var rows []schema.Bucket
	tx := a.db.WithContext(ctx).
		Where("listing_count > 0").
		Order("listing_count DESC, id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, persistenceError("top buckets", err)
	}

	res, err := bucketsFromRows(rows)
	if err != nil {
		return nil, persistenceError("decode bucket geometry", err)
	}
	return res, nil
}

type extentRow struct {
	MinLat *float64
	MaxLat *float64
	MinLng *float64
	MaxLng *float64
}

func (a aggregates) CenterExtent(ctx context.Context) (*orb.Bound, error) {
	var row extentRow
	err := a.db.WithContext(ctx).
		Model(&schema.Bucket{}).
		Select(`MIN(center_lat) AS min_lat, MAX(center_lat) AS max_lat,
			MIN(center_lng) AS min_lng, MAX(center_lng) AS max_lng`).
		Where("center_lat IS NOT NULL AND center_lng IS NOT NULL").
		Scan(&row).Error
	if err != nil {
		return nil, persistenceError("center extent", err)
	}
	if row.MinLat == nil || row.MaxLat == nil ||
		row.MinLng == nil || row.MaxLng == nil {
		return nil, nil
	}

	return &orb.Bound{
		Min: orb.Point{*row.MinLng, *row.MinLat},
		Max: orb.Point{*row.MaxLng, *row.MaxLat},
	}, nil
}

type rollupRow struct {
	Resolution    int
	BucketCount   int64
	AvgListings   float64
	MaxListings   int64
	MinListings   int64
	TotalListings int64
}

func (a aggregates) ResolutionRollup(ctx context.Context) ([]geobucket.ResolutionStats, error) {
	var rows []rollupRow
	err := a.db.WithContext(ctx).
		Model(&schema.Bucket{}).
		Select(`resolution,
			COUNT(*) AS bucket_count,
			CAST(AVG(listing_count) AS DOUBLE PRECISION) AS avg_listings,
			MAX(listing_count) AS max_listings,
			MIN(listing_count) AS min_listings,
			CAST(SUM(listing_count) AS BIGINT) AS total_listings`).
		Group("resolution").
		Order("resolution").
		Scan(&rows).Error
	if err != nil {
		return nil, persistenceError("resolution rollup", err)
	}

	res := make([]geobucket.ResolutionStats, len(rows))
	for i, v := range rows {
		res[i] = geobucket.ResolutionStats(v)
	}
	return res, nil
}
