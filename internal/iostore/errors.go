package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
	"github.com/gnames/geobuckets/pkg/geobucket"
)

// OpenError is returned when GORM cannot open the database.
func OpenError(dialect string, err error) error {
	msg := "Cannot open <em>%s</em> store"
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: []any{dialect},
		Err:  fmt.Errorf("failed to open %s store: %w", dialect, err),
	}
}

// DriverError is returned for an unsupported store driver.
func DriverError(driver string) error {
	msg := "Unknown store driver <em>%s</em>, use 'postgres' or 'sqlite'"
	return &gn.Error{
		Code: errcode.StoreDriverError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("unknown store driver %q", driver),
	}
}

// persistenceError marks a database failure with geobucket.ErrPersistence.
func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", geobucket.ErrPersistence, op, err)
}
