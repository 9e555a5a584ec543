package ioschema

import (
	"context"
	"slices"

	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/schema"
)

// HasTables reports whether any geobuckets table exists in the store.
func HasTables(ctx context.Context, st geobucket.Store) (bool, error) {
	m := &manager{store: st}
	gormDB, err := m.gormDB(ctx)
	if err != nil {
		return false, err
	}
	for _, v := range schema.AllModels() {
		if gormDB.Migrator().HasTable(v) {
			return true, nil
		}
	}
	return false, nil
}

// DropTables removes all geobuckets tables with their data.
func DropTables(ctx context.Context, st geobucket.Store) error {
	m := &manager{store: st}
	gormDB, err := m.gormDB(ctx)
	if err != nil {
		return err
	}

	// listings reference buckets, so they go first
	models := schema.AllModels()
	slices.Reverse(models)
	if err = gormDB.Migrator().DropTable(models...); err != nil {
		return CreateSchemaError(err)
	}
	return nil
}
