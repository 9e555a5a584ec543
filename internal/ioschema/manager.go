// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnames/geobuckets/internal/iostore"
	"github.com/gnames/geobuckets/pkg/db"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/schema"
	"gorm.io/gorm"
)

// TrigramExtension provides similarity functions and the GIN operator
// class used by name search on PostgreSQL.
const TrigramExtension = "pg_trgm"

// manager implements the geobucket.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	store    geobucket.Store
	operator db.Operator
}

// NewManager creates a new SchemaManager for a store built by iostore.
// The operator is used to enable PostgreSQL extensions and may be nil
// for SQLite stores.
func NewManager(
	st geobucket.Store,
	op db.Operator,
) geobucket.SchemaManager {
	return &manager{store: st, operator: op}
}

// Create creates the initial database schema using
// GORM AutoMigrate. On PostgreSQL it also enables pg_trgm
// and builds the trigram index on normalized bucket names.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.gormDB(ctx)
	if err != nil {
		return err
	}

	if m.trigram() {
		if err = m.enableTrigram(ctx); err != nil {
			return err
		}
	}

	if err = schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	if m.trigram() {
		if err = m.createTrigramIndex(gormDB); err != nil {
			return err
		}
	}

	slog.Info("Schema created",
		"dialect", m.store.Capabilities().Dialect)
	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.gormDB(ctx)
	if err != nil {
		return err
	}

	if err = schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	// the index may be missing in databases created by older versions
	if m.trigram() {
		if err = m.enableTrigram(ctx); err != nil {
			return err
		}
		if err = m.createTrigramIndex(gormDB); err != nil {
			return err
		}
	}

	slog.Info("Schema migrated",
		"dialect", m.store.Capabilities().Dialect)
	return nil
}

func (m *manager) gormDB(ctx context.Context) (*gorm.DB, error) {
	gormDB, ok := iostore.GormDB(m.store)
	if !ok {
		return nil, GORMConnectionError(
			errors.New("store does not expose a GORM handle"),
		)
	}
	return gormDB.WithContext(ctx), nil
}

func (m *manager) trigram() bool {
	return m.store.Capabilities().TrigramSimilarity
}

func (m *manager) enableTrigram(ctx context.Context) error {
	if m.operator == nil || m.operator.Pool() == nil {
		return NotConnectedError()
	}
	return m.operator.EnableExtension(ctx, TrigramExtension)
}

func (m *manager) createTrigramIndex(gormDB *gorm.DB) error {
	if err := gormDB.Exec(schema.TrigramIndexSQL).Error; err != nil {
		return IndexError("idx_buckets_name_trgm", err)
	}
	return nil
}
