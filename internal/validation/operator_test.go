package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOperator(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"=", "="},
		{"<>", "<>"},
		{"<=", "<="},
		{"like", "LIKE"},
		{"is not", "IS NOT"},
		{"  not   in ", "NOT IN"},
		{"In", "IN"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeOperator(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeOperator_Rejected(t *testing.T) {
	for _, op := range []string{"", "!=", "==", "BETWEEN", "; DROP TABLE users", "= 1 OR 1", "REGEXP"} {
		_, err := NormalizeOperator(op)
		var oe *OperatorError
		require.ErrorAs(t, err, &oe, op)
		assert.Contains(t, oe.Reason, "<, <=, <>, =, >, >=, IN, IS, IS NOT, LIKE, NOT IN", op)
	}
}

func TestOperatorClasses(t *testing.T) {
	assert.True(t, IsSetOperator("in"))
	assert.True(t, IsSetOperator("NOT  IN"))
	assert.False(t, IsSetOperator("="))
	assert.True(t, IsNullOperator("is"))
	assert.True(t, IsNullOperator("IS NOT"))
	assert.False(t, IsNullOperator("LIKE"))
}

func TestAllowedOperators(t *testing.T) {
	ops := AllowedOperators()
	assert.Len(t, ops, 11)
	assert.IsIncreasing(t, ops)
	assert.Contains(t, ops, "NOT IN")
}

func TestNormalizeDirection(t *testing.T) {
	got, err := NormalizeDirection(" desc ")
	require.NoError(t, err)
	assert.Equal(t, "DESC", got)

	got, err = NormalizeDirection("asc")
	require.NoError(t, err)
	assert.Equal(t, "ASC", got)

	for _, bad := range []string{"", "up", "ASC; DROP TABLE x"} {
		_, err := NormalizeDirection(bad)
		assert.Error(t, err, bad)
	}
}
