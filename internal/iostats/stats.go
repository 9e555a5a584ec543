// Package iostats implements geobucket.StatsAggregator with aggregate
// queries of a geobucket.Store.
package iostats

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/geobuckets/internal/iometrics"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/gnfmt"
	"github.com/patrickmn/go-cache"
)

const reportKey = "report"

type aggregator struct {
	store   geobucket.Store
	top     int
	cache   *cache.Cache
	metrics *iometrics.Metrics
}

// NewAggregator creates a StatsAggregator. When Stats.CacheTTL is
// positive a computed report is reused for that many seconds.
func NewAggregator(
	cfg *config.Config,
	st geobucket.Store,
	m *iometrics.Metrics,
) geobucket.StatsAggregator {
	res := &aggregator{
		store:   st,
		top:     cfg.Bucket.TopBuckets,
		metrics: m,
	}
	if cfg.Stats.CacheTTL > 0 {
		ttl := time.Duration(cfg.Stats.CacheTTL) * time.Second
		res.cache = cache.New(ttl, 2*ttl)
	}
	return res
}

// ComputeStats assembles the report from separate queries. Concurrent
// writers may change the population between them.
func (a *aggregator) ComputeStats(ctx context.Context) (*geobucket.Report, error) {
	if a.cache != nil {
		if v, ok := a.cache.Get(reportKey); ok {
			a.metrics.RecordStatsCache(true)
			return v.(*geobucket.Report), nil
		}
		a.metrics.RecordStatsCache(false)
	}

	start := time.Now()
	res, err := a.compute(ctx)
	if err != nil {
		slog.Error("Cannot compute stats", "error", err)
		return nil, err
	}

	slog.Info("Stats computed",
		"buckets", res.TotalBuckets,
		"listings", res.TotalListings,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)

	if a.cache != nil {
		a.cache.SetDefault(reportKey, res)
	}
	return res, nil
}

func (a *aggregator) compute(ctx context.Context) (*geobucket.Report, error) {
	var err error
	res := &geobucket.Report{
		TopBuckets:      []geobucket.BucketSummary{},
		ResolutionStats: []geobucket.ResolutionStats{},
		GeneratedAt:     time.Now().UTC(),
	}

	if res.TotalBuckets, err = a.store.CountBuckets(ctx); err != nil {
		return nil, StatsError("count buckets", err)
	}
	if res.TotalListings, err = a.store.CountListings(ctx); err != nil {
		return nil, StatsError("count listings", err)
	}
	if res.EmptyBuckets, err = a.store.CountEmptyBuckets(ctx); err != nil {
		return nil, StatsError("count empty buckets", err)
	}

	if res.TopBuckets, err = a.topBuckets(ctx); err != nil {
		return nil, err
	}

	if res.Coverage, err = a.coverage(ctx, res.TotalListings); err != nil {
		return nil, err
	}

	rollup, err := a.store.ResolutionRollup(ctx)
	if err != nil {
		return nil, StatsError("resolution rollup", err)
	}
	if len(rollup) > 0 {
		res.ResolutionStats = rollup
	}

	return res, nil
}

func (a *aggregator) topBuckets(ctx context.Context) ([]geobucket.BucketSummary, error) {
	bs, err := a.store.TopBuckets(ctx, a.top)
	if err != nil {
		return nil, StatsError("top buckets", err)
	}

	res := make([]geobucket.BucketSummary, 0, len(bs))
	for _, v := range bs {
		lat, lng, err := v.CenterLatLng()
		if err != nil {
			return nil, StatsError("bucket center", err)
		}
		res = append(res, geobucket.BucketSummary{
			ID:           v.ID,
			Cell:         v.Cell(),
			Name:         v.CanonicalName,
			ListingCount: v.ListingCount,
			Lat:          lat,
			Lng:          lng,
		})
	}
	return res, nil
}

func (a *aggregator) coverage(
	ctx context.Context,
	listings int64,
) (geobucket.Coverage, error) {
	var res geobucket.Coverage
	var err error

	if res.UniqueLocations, err = a.store.CountDistinctNames(ctx); err != nil {
		return res, StatsError("count distinct names", err)
	}

	bound, err := a.store.CenterExtent(ctx)
	if err != nil {
		return res, StatsError("center extent", err)
	}
	if bound == nil {
		return res, nil
	}

	res.BoundingBox = &geobucket.BoundingBox{
		MinLat: bound.Min.Lat(),
		MinLng: bound.Min.Lon(),
		MaxLat: bound.Max.Lat(),
		MaxLng: bound.Max.Lon(),
	}
	area := BoundAreaKm2(*bound)
	res.AreaKm2 = &area
	if area > 0 {
		res.AvgBucketDensity = float64(listings) / area
	}
	return res, nil
}
