// Package db defines the contract of the PostgreSQL connection operator.
package db

import (
	"context"

	"github.com/gnames/geobuckets/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages a PostgreSQL connection pool and database-wide
// housekeeping. Stores and the schema manager build on its pool.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. GORM is opened on top of
	// it with stdlib.OpenDBFromPool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	DropAllTables(ctx context.Context) error

	// EnableExtension installs a PostgreSQL extension if it is missing.
	EnableExtension(ctx context.Context, name string) error
}
