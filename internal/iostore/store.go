// Package iostore implements geobucket.Store with GORM. The same code
// serves PostgreSQL (through the pgx operator pool) and SQLite (through
// the pure-Go modernc driver). Backend differences are captured by
// geobucket.Capabilities when the store is built.
package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gnames/geobuckets/internal/iodb"
	"github.com/gnames/geobuckets/pkg/config"
	"github.com/gnames/geobuckets/pkg/db"
	"github.com/gnames/geobuckets/pkg/geobucket"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type store struct {
	queries
	aggregates
	sqlDB  *sql.DB
	closer func() error
}

// Open builds a store for the driver selected in the configuration.
// For PostgreSQL it connects a new operator that is closed together
// with the store.
func Open(ctx context.Context, cfg *config.Config) (geobucket.Store, error) {
	switch cfg.Store.Driver {
	case DialectPostgres:
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			return nil, err
		}
		st, err := newPostgres(op)
		if err != nil {
			op.Close()
			return nil, err
		}
		st.closer = op.Close
		return st, nil
	case DialectSQLite:
		return NewSQLite(cfg.SQLiteFile())
	default:
		return nil, DriverError(cfg.Store.Driver)
	}
}

// NewPostgres builds a store on the pool of a connected operator. The
// operator stays open after the store is closed.
func NewPostgres(op db.Operator) (geobucket.Store, error) {
	return newPostgres(op)
}

func newPostgres(op db.Operator) (*store, error) {
	pool := op.Pool()
	if pool == nil {
		return nil, iodb.NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		return nil, OpenError(DialectPostgres, err)
	}

	caps := geobucket.Capabilities{
		Dialect:           DialectPostgres,
		TrigramSimilarity: true,
	}
	return newStore(gormDB, sqlDB, caps), nil
}

// NewSQLite opens (or creates) a SQLite database file. Writes are
// serialized through a single connection.
func NewSQLite(path string) (geobucket.Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"+
			"&_pragma=journal_mode(WAL)",
		path,
	)
	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),
		gormConfig(),
	)
	if err != nil {
		return nil, OpenError(DialectSQLite, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, OpenError(DialectSQLite, err)
	}
	sqlDB.SetMaxOpenConns(1)

	caps := geobucket.Capabilities{Dialect: DialectSQLite}
	return newStore(gormDB, sqlDB, caps), nil
}

// GormDB exposes the GORM handle of a store built by this package, so
// the schema manager can migrate the same database.
func GormDB(st geobucket.Store) (*gorm.DB, bool) {
	s, ok := st.(*store)
	if !ok {
		return nil, false
	}
	return s.queries.db, true
}

func newStore(gormDB *gorm.DB, sqlDB *sql.DB, caps geobucket.Capabilities) *store {
	q := queries{db: gormDB, caps: caps}
	return &store{
		queries:    q,
		aggregates: aggregates{db: gormDB},
		sqlDB:      sqlDB,
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// Begin opens an outermost transaction scope.
func (s *store) Begin(ctx context.Context) (geobucket.Tx, error) {
	gtx := s.queries.db.WithContext(ctx).Begin()
	if gtx.Error != nil {
		return nil, persistenceError("begin transaction", gtx.Error)
	}
	state := &txState{db: gtx}
	return &tx{
		queries: queries{db: gtx, caps: s.caps},
		state:   state,
	}, nil
}

// Capabilities returns the features fixed when the store was built.
func (s *store) Capabilities() geobucket.Capabilities {
	return s.caps
}

// Close releases the database handle and, for stores created by Open,
// the PostgreSQL operator.
func (s *store) Close() error {
	var errs []error
	if s.sqlDB != nil {
		errs = append(errs, s.sqlDB.Close())
	}
	if s.closer != nil {
		errs = append(errs, s.closer())
	}
	return errors.Join(errs...)
}
