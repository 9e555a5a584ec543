package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
)

// ConnectionError is returned when the connection pool cannot be
// created or the database does not answer a ping.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL at <em>%s:%d/%s</em> as <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database <em>%s</em> does not exist
  - Wrong credentials in config.yaml or GEOBUCKETS_DATABASE_* variables`

	vars := []any{host, port, database, user, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// TableCheckError is returned when checking for tables fails.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Could not verify database state",
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// EmptyDatabaseError is returned when an operation needs a schema
// and the database has no tables.
func EmptyDatabaseError(host, database string) error {
	msg := `Database <em>%s</em> on <em>%s</em> has no tables.
Run <em>geobuckets create</em> first.`

	vars := []any{database, host}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("database %s has no tables", database),
	}
}

// NotConnectedError is returned when the operator is used before
// Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError is returned when a table existence query fails.
func TableExistsCheckError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  "Could not check if table <em>%s</em> exists",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// QueryTablesError is returned when listing tables fails.
func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Could not list database tables",
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError is returned when reading table names fails.
func ScanTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  "Could not read database table names",
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  "Could not drop table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}

// ExtensionError is returned when a PostgreSQL extension cannot be
// installed.
func ExtensionError(name string, err error) error {
	msg := `Could not enable PostgreSQL extension <em>%s</em>.
The database user needs permission to run CREATE EXTENSION.`

	return &gn.Error{
		Code: errcode.DBExtensionError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to create extension %s: %w", name, err),
	}
}
