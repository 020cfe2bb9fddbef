package fluentsql

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestToSQLColor_Select(t *testing.T) {
	withoutColor(t)

	out, err := NewBuilder().Select("id").From("t").Where("x", "=", 5).OrderByAsc("id").Limit(1).ToSQLColor()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id\nFROM t\nWHERE x = ?\nORDER BY id ASC\nLIMIT 1;", out)
}

func TestToSQLColor_Write(t *testing.T) {
	withoutColor(t)

	out, err := NewBuilder().Delete("t").Where("x", "=", 5).ToSQLColor()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t WHERE x = ?;", out)
}

func TestToSQLColor_Errors(t *testing.T) {
	_, err := NewBuilder().ToSQLColor()
	assert.Error(t, err)

	_, err = NewBuilder().Where("x", "=", 1).ToSQLColor()
	assert.ErrorIs(t, err, ErrInvalidTransactionState)
}

func TestColorize(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	out := Colorize("SELECT id FROM t")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, " id ")
	assert.NotEqual(t, "SELECT id FROM t", out)
}
