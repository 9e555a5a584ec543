package iooptimize

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
)

var errNotConnected = errors.New("database operator is not connected")

// RecountError is returned when listing counts cannot be reconciled.
func RecountError(err error) error {
	msg := `Cannot recount bucket listings

<em>Possible causes:</em>
  - Schema was not created, run 'geobuckets create'
  - Database is unavailable`

	return &gn.Error{
		Code: errcode.OptimizerRecountError,
		Msg:  msg,
		Err:  fmt.Errorf("recount listings: %w", err),
	}
}

// VacuumError is returned when VACUUM or ANALYZE fails.
func VacuumError(dialect string, err error) error {
	msg := "Cannot update <em>%s</em> statistics"
	return &gn.Error{
		Code: errcode.OptimizerVacuumError,
		Msg:  msg,
		Vars: []any{dialect},
		Err:  fmt.Errorf("vacuum analyze: %w", err),
	}
}
