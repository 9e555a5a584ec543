package schema

import (
	"gorm.io/gorm"
)

// TrigramIndexSQL creates the pg_trgm index used by name similarity
// search on PostgreSQL.
const TrigramIndexSQL = `CREATE INDEX IF NOT EXISTS idx_buckets_name_trgm
ON buckets USING gin (canonical_name_normalized gin_trgm_ops)`

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Bucket{},
		&Listing{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
