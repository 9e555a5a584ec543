// Package iooptimize implements geobucket.Optimizer. It repairs listing
// counts that drifted from stored listings and refreshes planner
// statistics of the store.
package iooptimize

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/internal/iostore"
	"github.com/gnames/geobuckets/pkg/db"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"gorm.io/gorm"
)

// optimizer implements the Optimizer interface.
type optimizer struct {
	store    geobucket.Store
	operator db.Operator
}

// NewOptimizer creates a new Optimizer. The operator runs VACUUM on
// PostgreSQL and may be nil for SQLite stores.
func NewOptimizer(st geobucket.Store, op db.Operator) geobucket.Optimizer {
	return &optimizer{
		store:    st,
		operator: op,
	}
}

// Optimize executes sequential steps:
//  1. Recount listings of buckets where the stored count drifted
//  2. Count listings that lost their bucket
//  3. Run VACUUM ANALYZE to update statistics
//
// Errors are returned to the CLI layer for user-friendly display
// via gn.PrintErrorMessage(). Progress messages are logged via
// slog.Info() for developer visibility.
func (o *optimizer) Optimize(ctx context.Context) (geobucket.OptimizeResult, error) {
	var res geobucket.OptimizeResult
	start := time.Now()

	gormDB, ok := iostore.GormDB(o.store)
	if !ok {
		return res, RecountError(errors.New("store does not expose a GORM handle"))
	}
	gormDB = gormDB.WithContext(ctx)

	slog.Info("Starting storage optimization")
	gn.Info("Optimization in progress...")

	slog.Info("Step 1/3: Recounting listings")
	n, err := recountListings(gormDB)
	if err != nil {
		return res, err
	}
	res.RecountedBuckets = n
	slog.Info("Step 1/3: Complete - Listings recounted", "buckets", n)

	slog.Info("Step 2/3: Counting detached listings")
	if n, err = countDetached(gormDB); err != nil {
		return res, err
	}
	res.DetachedListings = n
	slog.Info("Step 2/3: Complete", "detached", n)

	slog.Info("Step 3/3: Updating statistics")
	if err = o.vacuumAnalyze(ctx, gormDB); err != nil {
		return res, err
	}
	slog.Info("Step 3/3: Complete - Statistics updated")

	res.Duration = time.Since(start)
	slog.Info("Storage optimization completed successfully",
		"duration", res.Duration.String())
	return res, nil
}

func countDetached(gormDB *gorm.DB) (int64, error) {
	var n int64
	err := gormDB.Table("listings").Where("bucket_id IS NULL").Count(&n).Error
	if err != nil {
		return 0, RecountError(err)
	}
	return n, nil
}
