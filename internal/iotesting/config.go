// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gnames/geobuckets/internal/iodb"
	"github.com/gnames/geobuckets/internal/ioschema"
	"github.com/gnames/geobuckets/internal/iostore"
	"github.com/gnames/geobuckets/pkg/db"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/gnames/geobuckets/pkg/schema"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "geobuckets_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database settings come from GEOBUCKETS_DATABASE_* environment variables
// when they are set. The database name is always TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if s := os.Getenv("GEOBUCKETS_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GEOBUCKETS_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("GEOBUCKETS_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GEOBUCKETS_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	cfg.Update(opts)

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// NewSQLiteStore opens a migrated SQLite store in a temporary directory.
// The store is closed when the test finishes.
func NewSQLiteStore(t *testing.T) geobucket.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "geobuckets.db")
	st, err := iostore.NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open SQLite store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	gormDB, ok := iostore.GormDB(st)
	if !ok {
		t.Fatal("SQLite store does not expose GORM handle")
	}
	if err = schema.Migrate(gormDB); err != nil {
		t.Fatalf("Failed to migrate SQLite store: %v", err)
	}

	return st
}

// NewPostgresStore connects to the test database, recreates the schema
// and returns a store on the operator pool. The test is skipped when
// PostgreSQL is not reachable. Packages share the test database, so run
// integration tests with `go test -p 1`.
func NewPostgresStore(t *testing.T) (geobucket.Store, db.Operator) {
	t.Helper()
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, GetTestDatabaseConfig()); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	if err := op.DropAllTables(ctx); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}

	st, err := iostore.NewPostgres(op)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err = ioschema.NewManager(st, op).Create(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return st, op
}

// SetupTempHomeDir creates a temporary home directory with the config,
// cache and data directories of the application.
func SetupTempHomeDir(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	dirs := []string{
		config.ConfigDir(home),
		config.CacheDir(home),
		config.LogDir(home),
	}
	for _, v := range dirs {
		if err := os.MkdirAll(v, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", v, err)
		}
	}
	return home
}
