package db_test

import (
	"testing"

	"github.com/gnames/geobuckets/internal/iodb"
	"github.com/gnames/geobuckets/pkg/db"
	"github.com/stretchr/testify/assert"
)

func TestNewPgxOperatorImplementsInterface(t *testing.T) {
	var op db.Operator = iodb.NewPgxOperator()
	assert.NotNil(t, op)
	assert.Nil(t, op.Pool(), "pool is nil before Connect")
}
