package iooptimize

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/geobuckets/internal/iostore"
	"gorm.io/gorm"
)

// vacuumAnalyze reclaims space and updates statistics used by the query
// planner. VACUUM cannot run inside a transaction block.
func (o *optimizer) vacuumAnalyze(ctx context.Context, gormDB *gorm.DB) error {
	timeStart := time.Now()
	dialect := o.store.Capabilities().Dialect

	var err error
	switch dialect {
	case iostore.DialectPostgres:
		if o.operator == nil || o.operator.Pool() == nil {
			return VacuumError(dialect, errNotConnected)
		}
		_, err = o.operator.Pool().Exec(ctx, "VACUUM ANALYZE")
	default:
		if err = gormDB.Exec("VACUUM").Error; err == nil {
			err = gormDB.Exec("ANALYZE").Error
		}
	}
	if err != nil {
		slog.Error("Failed to run VACUUM ANALYZE", "error", err)
		return VacuumError(dialect, err)
	}

	slog.Info("VACUUM ANALYZE completed",
		"dialect", dialect,
		"duration", time.Since(timeStart).String(),
	)
	return nil
}
