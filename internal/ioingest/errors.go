package ioingest

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/geobuckets/pkg/errcode"
)

// InvalidListingError is returned for listings that cannot be ingested
// regardless of the database state.
func InvalidListingError(title string, err error) error {
	msg := "Listing <em>%s</em> is invalid: %s"
	return &gn.Error{
		Code: errcode.InvalidListingError,
		Msg:  msg,
		Vars: []any{title, err.Error()},
		Err:  fmt.Errorf("invalid listing %q: %w", title, err),
	}
}

// AttachListingError is returned when a listing cannot be stored in
// its bucket.
func AttachListingError(title string, err error) error {
	msg := `Cannot store listing <em>%s</em>

<em>Possible causes:</em>
  - Database is unavailable
  - Schema was not created, run 'geobuckets create'`

	return &gn.Error{
		Code: errcode.AttachListingError,
		Msg:  msg,
		Vars: []any{title},
		Err:  fmt.Errorf("attach listing %q: %w", title, err),
	}
}

// SearchError is returned when a search query fails.
func SearchError(query string, err error) error {
	msg := "Search for <em>%s</em> failed"
	return &gn.Error{
		Code: errcode.SearchError,
		Msg:  msg,
		Vars: []any{query},
		Err:  fmt.Errorf("search %q: %w", query, err),
	}
}
