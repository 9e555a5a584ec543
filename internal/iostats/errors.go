package iostats

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
)

// StatsError is returned when statistics cannot be computed.
func StatsError(step string, err error) error {
	msg := "Cannot compute bucket statistics (<em>%s</em>)"
	return &gn.Error{
		Code: errcode.StatsError,
		Msg:  msg,
		Vars: []any{step},
		Err:  fmt.Errorf("stats %s: %w", step, err),
	}
}
