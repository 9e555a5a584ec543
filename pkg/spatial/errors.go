package spatial

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
)

// InvalidCoordinateError is returned for a latitude outside [-90, 90]
// or a longitude outside [-180, 180].
func InvalidCoordinateError(lat, lng float64) error {
	msg := "Invalid coordinate <em>(%v, %v)</em>: latitude must be " +
		"within [-90, 90] and longitude within [-180, 180]"
	vars := []any{lat, lng}
	return &gn.Error{
		Code: errcode.InvalidCoordinateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid coordinate (%v, %v)", lat, lng),
	}
}

// InvalidCellError is returned when a value is not a valid H3 cell.
func InvalidCellError(cell string, err error) error {
	msg := "Invalid cell id <em>%s</em>"
	vars := []any{cell}
	if err == nil {
		err = fmt.Errorf("invalid cell %q", cell)
	} else {
		err = fmt.Errorf("invalid cell %q: %w", cell, err)
	}
	return &gn.Error{
		Code: errcode.InvalidCellError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}

// InvalidResolutionError is returned when a parent is requested at a
// resolution finer than the cell's own.
func InvalidResolutionError(cell int64, res int) error {
	msg := "Cannot take parent of <em>%s</em> at resolution %d"
	vars := []any{CellToString(cell), res}
	return &gn.Error{
		Code: errcode.InvalidCellError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("resolution %d is not coarser than cell %s",
			res, CellToString(cell)),
	}
}
