package iostore

import (
	"database/sql"
	"errors"

	"github.com/gnames/geobuckets/pkg/geobucket"
	"gorm.io/gorm"
)

// txState is shared by all scopes of one database transaction.
type txState struct {
	db      *gorm.DB
	aborted bool
	done    bool
}

// tx is a transaction scope. It is not safe for concurrent use.
type tx struct {
	queries
	state *txState
	depth int
}

func (t *tx) Depth() int {
	return t.depth
}

func (t *tx) Nested() geobucket.Tx {
	return &tx{
		queries: t.queries,
		state:   t.state,
		depth:   t.depth + 1,
	}
}

func (t *tx) Commit() error {
	if t.depth > 0 || t.state.done {
		return nil
	}
	t.state.done = true

	if t.state.aborted {
		if err := t.state.db.Rollback().Error; err != nil &&
			!errors.Is(err, sql.ErrTxDone) {
			return errors.Join(geobucket.ErrTxAborted,
				persistenceError("rollback", err))
		}
		return geobucket.ErrTxAborted
	}

	if err := t.state.db.Commit().Error; err != nil {
		return persistenceError("commit", err)
	}
	return nil
}

func (t *tx) Rollback() error {
	if t.depth > 0 {
		t.state.aborted = true
		return nil
	}
	if t.state.done {
		return nil
	}
	t.state.done = true

	err := t.state.db.Rollback().Error
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return persistenceError("rollback", err)
	}
	return nil
}
