package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
)

// WriteError is returned when metrics cannot be written to a file.
func WriteError(path string, err error) error {
	msg := "Cannot write metrics to <em>%s</em>"
	return &gn.Error{
		Code: errcode.MetricsWriteError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("cannot write metrics to %s: %w", path, err),
	}
}
