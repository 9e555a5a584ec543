package iobucket

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
	"github.com/gnames/geobuckets/pkg/spatial"
)

// ResolutionFailedError is returned when the store fails while a bucket
// is being resolved.
func ResolutionFailedError(cell int64, name string, err error) error {
	msg := `Cannot resolve bucket for <em>%s</em> in cell <em>%s</em>

<em>Possible causes:</em>
  - Database is unavailable or overloaded
  - Schema was not created, run 'geobuckets create'`

	hex := spatial.CellToString(cell)
	return &gn.Error{
		Code: errcode.ResolutionFailedError,
		Msg:  msg,
		Vars: []any{name, hex},
		Err:  fmt.Errorf("resolve bucket for cell %s: %w", hex, err),
	}
}

// BucketNotFoundError is returned when a listing count is incremented
// for a bucket that does not exist.
func BucketNotFoundError(id int64, err error) error {
	msg := "Bucket <em>%d</em> does not exist"
	return &gn.Error{
		Code: errcode.BucketNotFoundError,
		Msg:  msg,
		Vars: []any{id},
		Err:  fmt.Errorf("bucket %d: %w", id, err),
	}
}

// PersistenceError is returned when the store fails outside of bucket
// resolution.
func PersistenceError(op string, err error) error {
	msg := "Database operation <em>%s</em> failed"
	return &gn.Error{
		Code: errcode.PersistenceError,
		Msg:  msg,
		Vars: []any{op},
		Err:  fmt.Errorf("%s: %w", op, err),
	}
}

// UnexpectedError wraps failures that do not belong to any known class.
func UnexpectedError(op string, err error) error {
	msg := "Unexpected failure during <em>%s</em>"
	return &gn.Error{
		Code: errcode.UnexpectedError,
		Msg:  msg,
		Vars: []any{op},
		Err:  fmt.Errorf("unexpected failure in %s: %w", op, err),
	}
}
