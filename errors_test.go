package fluentsql

import (
	"errors"
	"testing"

	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	state := &StateError{Op: "where", Kind: dialect.KindInsert}
	assert.ErrorIs(t, state, ErrInvalidTransactionState)
	assert.NotErrorIs(t, state, ErrInvalidArgument)
	assert.Equal(t, "fluentsql: where is not allowed on a INSERT statement", state.Error())

	inner := errors.New("inner")
	arg := &ArgumentError{Op: "limit", Reason: "bad", Err: inner}
	assert.ErrorIs(t, arg, ErrInvalidArgument)
	assert.ErrorIs(t, arg, inner)
	assert.Equal(t, "fluentsql: limit: bad: inner", arg.Error())

	op := NewValidationError("==", "operator", "not allowed")
	assert.ErrorIs(t, op, ErrInvalidOperator)
	assert.ErrorIs(t, op, ErrInvalidArgument)
	assert.NotErrorIs(t, op, ErrInvalidIdentifier)

	col := NewValidationError("a b", "column", "bad chars")
	assert.ErrorIs(t, col, ErrInvalidIdentifier)
	assert.NotErrorIs(t, col, ErrInvalidOperator)
	assert.Equal(t, "fluentsql: invalid column 'a b': bad chars", col.Error())

	te := &TypeError{Table: "t", Column: "c", Want: "integer (int)", Got: "string (string)"}
	assert.ErrorIs(t, te, ErrTypeMismatch)
	assert.Equal(t, "fluentsql: column t.c expects integer (int), got string (string)", te.Error())

	qe := NewQueryError("exec", "DELETE FROM t;", nil, inner)
	assert.ErrorIs(t, qe, inner)
	assert.Equal(t, "fluentsql: exec failed executing DELETE FROM t;: inner", qe.Error())

	assert.Nil(t, WrapError("x", nil))
	assert.ErrorIs(t, WrapError("x", inner), inner)
}
