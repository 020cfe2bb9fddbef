package fluentsql

import (
	"context"
	"testing"
	"time"

	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/biyonik/go-fluent-sqlite/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 500000000)

func fixedClock() time.Time { return fixedNow }

func fixedIDs(id string) IDGenerator {
	return IDGeneratorFunc(func(time.Time, ...any) string { return id })
}

func newTestBuilder() *Builder {
	return NewBuilder(WithBuilderClock(fixedClock), WithBuilderIDGenerator(fixedIDs("row-1")))
}

func TestBuilder_SelectRoundTrip(t *testing.T) {
	sql, args, err := NewBuilder().
		Select("id").
		From("t").
		Where("x", "=", 5).
		OrderBy("id", "").
		Limit(1).
		ToSQL()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t WHERE x = ? ORDER BY id ASC LIMIT 1;", sql)
	assert.Equal(t, []any{5}, args)
}

func TestBuilder_Select(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Builder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no columns selects star",
			build:   func() *Builder { return NewBuilder().Select().From("users") },
			wantSQL: "SELECT * FROM users;",
		},
		{
			name: "aliases in every shape",
			build: func() *Builder {
				return NewBuilder().Select("name as n", As("email", "e"), []string{"age", "a"}, [2]string{"city", "c"}).From("users")
			},
			wantSQL: "SELECT name as n, email as e, age as a, city as c FROM users;",
		},
		{
			name: "table aliases accumulate",
			build: func() *Builder {
				return NewBuilder().Select("u.id").From("users u").From([]string{"posts", "p"}).From(TblAs("tags", "t"))
			},
			wantSQL: "SELECT u.id FROM users u, posts p, tags t;",
		},
		{
			name:    "count",
			build:   func() *Builder { return NewBuilder().Select(Count("*")).From("users") },
			wantSQL: "SELECT COUNT(*) FROM users;",
		},
		{
			name:    "raw select expression",
			build:   func() *Builder { return NewBuilder().Select(NewRaw("MAX(age)"), Col("name")).From("users") },
			wantSQL: "SELECT MAX(age), name FROM users;",
		},
		{
			name: "where variants",
			build: func() *Builder {
				return NewBuilder().Select().From("users").
					Where("age", ">=", 18).
					OrWhere("role", "like", "admin%").
					WhereNull("deleted_at").
					Where("banned", "IS NOT", "NULL").
					OrWhereNotNull("verified_at").
					WhereNotIn("status", []string{"a", "b"})
			},
			wantSQL: "SELECT * FROM users WHERE age >= ? OR role LIKE ? AND deleted_at IS NULL AND banned IS NOT NULL " +
				"OR verified_at IS NOT NULL AND status NOT IN (?, ?);",
			wantArgs: []any{18, "admin%", "a", "b"},
		},
		{
			name: "raw where value",
			build: func() *Builder {
				return NewBuilder().Select("id").From("events").Where("created_at", ">", NewRaw("strftime('%s', ?)", "2024-01-01"))
			},
			wantSQL:  "SELECT id FROM events WHERE created_at > strftime('%s', ?);",
			wantArgs: []any{"2024-01-01"},
		},
		{
			name: "order limit offset",
			build: func() *Builder {
				return NewBuilder().Select("id").From("t").OrderByMany(dialect.Desc("created_at"), dialect.Asc("id")).Limit(10).Offset(20)
			},
			wantSQL: "SELECT id FROM t ORDER BY created_at DESC, id ASC LIMIT 10 OFFSET 20;",
		},
		{
			name:    "from without select",
			build:   func() *Builder { return NewBuilder().From("t") },
			wantSQL: "SELECT * FROM t;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build().ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestBuilder_InsertScenario(t *testing.T) {
	b := newTestBuilder().Insert("t", []string{"a", "b"}, []any{1, 2})

	sql, args, err := b.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t(id, a, b, created_at, modified_at) VALUES (?,?,?,?,?);", sql)
	require.Len(t, args, 5)
	assert.Equal(t, "row-1", args[0])
	assert.Equal(t, []any{1, 2}, args[1:3])
	assert.Equal(t, 1700000000.5, args[3])
	assert.Equal(t, args[3], args[4])
	assert.Equal(t, KindInsert, b.Kind())
}

func TestBuilder_InsertDefaultID(t *testing.T) {
	build := func() []any {
		return NewBuilder(WithBuilderClock(fixedClock)).Insert("t", []string{"a"}, []any{1}).Args()
	}

	first, second := build(), build()
	id, ok := first[0].(string)
	require.True(t, ok)
	assert.Len(t, id, 32)
	assert.Equal(t, first[0], second[0], "same time and payload give the same digest")

	other := NewBuilder(WithBuilderClock(fixedClock)).Insert("t", []string{"a"}, []any{2}).Args()
	assert.NotEqual(t, first[0], other[0])
}

func TestBuilder_InsertErrors(t *testing.T) {
	err := newTestBuilder().Insert("t", []string{"a", "b"}, []any{1}).Err()
	assert.ErrorIs(t, err, ErrArityMismatch)

	err = newTestBuilder().Insert("t", []string{"id", "a"}, []any{"x", 1}).Err()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = newTestBuilder().Insert("t", []string{"a", "A"}, []any{1, 2}).Err()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = newTestBuilder().Insert("t; DROP TABLE t", []string{"a"}, []any{1}).Err()
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestBuilder_InsertCallerSlicesUntouched(t *testing.T) {
	fields := []string{"a"}
	values := []any{1}
	newTestBuilder().Insert("t", fields, values)

	assert.Equal(t, []string{"a"}, fields)
	assert.Equal(t, []any{1}, values)
}

func TestBuilder_Update(t *testing.T) {
	sql, args, err := newTestBuilder().
		Update("people", []string{"name"}, []any{"Bob"}).
		Where("id", "=", "abc").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE people SET name=?, modified_at=? WHERE id = ?;", sql)
	assert.Equal(t, []any{"Bob", 1700000000.5, "abc"}, args)

	sql, args, err = newTestBuilder().
		Update("people", []string{"name"}, []any{"Bob"}, SkipModified()).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE people SET name=?;", sql)
	assert.Equal(t, []any{"Bob"}, args)

	sql, _, err = newTestBuilder().Update("people", nil, nil).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE people SET modified_at=?;", sql)
}

func TestBuilder_UpdateErrors(t *testing.T) {
	err := newTestBuilder().Update("people", []string{"a"}, nil).Err()
	assert.ErrorIs(t, err, ErrArityMismatch)

	err = newTestBuilder().Update("people", []string{"modified_at"}, []any{1.0}).Err()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = newTestBuilder().Update("people", nil, nil, SkipModified()).Err()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = newTestBuilder().Update("people", []string{"modified_at"}, []any{1.0}, SkipModified()).Err()
	assert.NoError(t, err)
}

func TestBuilder_Delete(t *testing.T) {
	sql, args, err := NewBuilder().Delete("people").Where("age", "<", 18).OrWhereNull("age").ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM people WHERE age < ? OR age IS NULL;", sql)
	assert.Equal(t, []any{18}, args)
}

func TestBuilder_WhereOnFreshBuilder(t *testing.T) {
	b := NewBuilder().Where("x", "=", 1)

	require.Error(t, b.Err())
	assert.ErrorIs(t, b.Err(), ErrInvalidTransactionState)

	var se *StateError
	require.ErrorAs(t, b.Err(), &se)
	assert.Equal(t, KindUnset, se.Kind)
	assert.Equal(t, "where", se.Op)
}

func TestBuilder_WhereOnInsert(t *testing.T) {
	err := newTestBuilder().Insert("t", []string{"a"}, []any{1}).Where("a", "=", 1).Err()
	assert.ErrorIs(t, err, ErrInvalidTransactionState)
}

func TestBuilder_WhereInRejectsScalar(t *testing.T) {
	b := NewBuilder().Select("id").From("t").Where("a", "=", 1)
	before := append([]dialect.WhereClause(nil), b.GetWheres()...)

	b.WhereIn("x", 5)

	assert.ErrorIs(t, b.Err(), ErrInvalidArgument)
	assert.Equal(t, before, b.GetWheres())

	_, _, err := b.ToSQL()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuilder_WhereInValues(t *testing.T) {
	tests := []struct {
		name   string
		values any
		want   []any
	}{
		{"ints", []int{1, 2, 3}, []any{1, 2, 3}},
		{"any", []any{"a", 2}, []any{"a", 2}},
		{"array", [2]string{"x", "y"}, []any{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args, err := NewBuilder().Select("id").From("t").WhereIn("x", tt.values).ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}

	for _, bad := range []any{nil, "abc", []byte("abc"), []int{}} {
		assert.ErrorIs(t, NewBuilder().Select().From("t").WhereIn("x", bad).Err(), ErrInvalidArgument)
	}
}

func TestBuilder_WhereRejectsListForScalarOperator(t *testing.T) {
	err := NewBuilder().Select().From("t").Where("x", "=", []int{1, 2}).Err()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuilder_WhereValidation(t *testing.T) {
	err := NewBuilder().Select().From("t").Where("x", "==", 1).Err()
	assert.ErrorIs(t, err, ErrInvalidOperator)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = NewBuilder().Select().From("t").Where("x OR 1=1", "=", 1).Err()
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "column", ve.Context)
}

func TestBuilder_WhereParameterOrder(t *testing.T) {
	sub := NewBuilder().Select("user_id").From("orders").Where("total", ">", 100).Where("status", "=", "paid")

	sql, args, err := NewBuilder().
		Select("id").
		From("users").
		Where("active", "=", true).
		WhereIn("id", sub).
		Where("age", "<", 65).
		OrWhereIn("role", []string{"admin", "owner"}).
		ToSQL()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id FROM users WHERE active = ? AND id IN (SELECT user_id FROM orders WHERE total > ? AND status = ?) "+
			"AND age < ? OR role IN (?, ?);",
		sql)
	assert.Equal(t, []any{true, 100, "paid", 65, "admin", "owner"}, args)
}

func TestBuilder_SubquerySnapshot(t *testing.T) {
	sub := NewBuilder().Select("id").From("s").Where("y", "=", 1)
	outer := NewBuilder().Select("id").From("t").Where("x", "IN", sub)

	sub.Where("z", "=", 2)

	sql, args, err := outer.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t WHERE x IN (SELECT id FROM s WHERE y = ?);", sql)
	assert.Equal(t, []any{1}, args)
}

func TestBuilder_SubqueryErrors(t *testing.T) {
	b := NewBuilder().Select().From("t")
	assert.ErrorIs(t, b.Where("x", "IN", b).Err(), ErrInvalidArgument)

	notSelect := NewBuilder().Delete("s")
	assert.ErrorIs(t, NewBuilder().Select().From("t").Where("x", "IN", notSelect).Err(), ErrInvalidArgument)

	broken := NewBuilder().Select().From("s").Limit(0)
	assert.ErrorIs(t, NewBuilder().Select().From("t").Where("x", "IN", broken).Err(), ErrInvalidArgument)
}

func TestBuilder_Idempotence(t *testing.T) {
	once, _, err := NewBuilder().Select("id").From("t").OrderBy("id", "ASC").Limit(1).ToSQL()
	require.NoError(t, err)

	twice, _, err := NewBuilder().
		Select("id").Select("name").
		From("t").
		OrderBy("id", "ASC").OrderByDesc("name").
		Limit(1).Limit(5).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "SELECT id FROM t ORDER BY id ASC LIMIT 1;", twice)
}

func TestBuilder_KindConflicts(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
	}{
		{"insert after select", func() *Builder { return newTestBuilder().Select("id").Insert("t", []string{"a"}, []any{1}) }},
		{"select after insert", func() *Builder { return newTestBuilder().Insert("t", []string{"a"}, []any{1}).Select("id") }},
		{"update after delete", func() *Builder { return newTestBuilder().Delete("t").Update("t", []string{"a"}, []any{1}) }},
		{"delete after update", func() *Builder { return newTestBuilder().Update("t", []string{"a"}, []any{1}).Delete("t") }},
		{"from after delete", func() *Builder { return newTestBuilder().Delete("t").From("u") }},
		{"limit after update", func() *Builder { return newTestBuilder().Update("t", []string{"a"}, []any{1}).Limit(1) }},
		{"order after insert", func() *Builder { return newTestBuilder().Insert("t", []string{"a"}, []any{1}).OrderByAsc("a") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.build().Err(), ErrInvalidTransactionState)
		})
	}
}

func TestBuilder_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
	}{
		{"select number", func() *Builder { return NewBuilder().Select(42) }},
		{"select short pair", func() *Builder { return NewBuilder().Select([]string{"a"}) }},
		{"select raw with bindings", func() *Builder { return NewBuilder().Select(NewRaw("x + ?", 1)) }},
		{"from number", func() *Builder { return NewBuilder().From(1) }},
		{"from long pair", func() *Builder { return NewBuilder().From([]string{"a", "b", "c"}) }},
		{"zero limit", func() *Builder { return NewBuilder().Select().From("t").Limit(0) }},
		{"negative offset", func() *Builder { return NewBuilder().Select().From("t").Offset(-1) }},
		{"bad direction", func() *Builder { return NewBuilder().Select().From("t").OrderBy("id", "UP") }},
		{"empty order", func() *Builder { return NewBuilder().Select().From("t").OrderByMany() }},
		{"empty raw where", func() *Builder { return NewBuilder().Select().From("t").Where("x", "=", NewRaw(" ")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.build().Err(), ErrInvalidArgument)
		})
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	b := NewBuilder().Select(42).From("t; DROP").Limit(-1)

	var ae *ArgumentError
	require.ErrorAs(t, b.Err(), &ae)
	assert.Equal(t, "select", ae.Op)
	assert.Empty(t, b.GetTables())

	sql, args, err := b.ToSQL()
	assert.Empty(t, sql)
	assert.Nil(t, args)
	assert.Equal(t, b.Err(), err)
	assert.Empty(t, b.String())
	assert.Nil(t, b.Args())
}

func TestBuilder_EmptyRender(t *testing.T) {
	_, _, err := NewBuilder().ToSQL()
	assert.ErrorIs(t, err, dialect.ErrNoStatement)
}

func TestBuilder_Reset(t *testing.T) {
	kinds := map[string]func(*Builder) *Builder{
		"select": func(b *Builder) *Builder { return b.Select("id").From("t").Where("a", "=", 1) },
		"insert": func(b *Builder) *Builder { return b.Insert("t", []string{"a"}, []any{1}) },
		"update": func(b *Builder) *Builder { return b.Update("t", []string{"a"}, []any{1}) },
		"delete": func(b *Builder) *Builder { return b.Delete("t") },
		"failed": func(b *Builder) *Builder { return b.Where("a", "=", 1) },
	}

	for name, first := range kinds {
		t.Run(name, func(t *testing.T) {
			b := first(newTestBuilder()).Reset()

			assert.Equal(t, KindUnset, b.Kind())
			assert.NoError(t, b.Err())
			assert.Empty(t, b.GetWheres())

			sql, args, err := b.Delete("u").Where("x", "=", 2).ToSQL()
			require.NoError(t, err)
			assert.Equal(t, "DELETE FROM u WHERE x = ?;", sql)
			assert.Equal(t, []any{2}, args)
		})
	}
}

func TestBuilder_ResetKeepsCollaborators(t *testing.T) {
	b := newTestBuilder().Select("id").Reset()
	args := b.Insert("t", []string{"a"}, []any{1}).Args()
	assert.Equal(t, "row-1", args[0])
	assert.Equal(t, 1700000000.5, args[2])
}

func TestBuilder_Clone(t *testing.T) {
	base := NewBuilder().Select("id").From("t").Where("a", "=", 1)
	clone := base.Clone().Where("b", "=", 2).Limit(3)

	assert.Equal(t, "SELECT id FROM t WHERE a = ?;", base.String())
	assert.Equal(t, "SELECT id FROM t WHERE a = ? AND b = ? LIMIT 3;", clone.String())
	assert.Equal(t, []any{1, 2}, clone.Args())
}

func TestBuilder_WhenUnless(t *testing.T) {
	status := ""
	sql := NewBuilder().Select("id").From("users").
		When(status != "", func(b *Builder) { b.Where("status", "=", status) }).
		Unless(false, func(b *Builder) { b.WhereNotNull("email") }).
		String()

	assert.Equal(t, "SELECT id FROM users WHERE email IS NOT NULL;", sql)
}

func TestBuilder_CreateTable(t *testing.T) {
	cols := []schema.Column{
		schema.ForeignKey("user_id", "users", "id"),
		schema.Text("title"),
		schema.Integer("views").Nullable(),
		schema.ForeignKey("category_id", "categories", "id").Nullable(),
	}

	want := "CREATE TABLE IF NOT EXISTS posts(id varchar(255) PRIMARY KEY NOT NULL, user_id varchar(255) NOT NULL, " +
		"title text NOT NULL, views int, category_id varchar(255), created_at datetime NOT NULL, " +
		"modified_at datetime NOT NULL, FOREIGN KEY(user_id) REFERENCES users(id), " +
		"FOREIGN KEY(category_id) REFERENCES categories(id));"

	sql, err := NewBuilder().CreateTable("posts", cols, true)
	require.NoError(t, err)
	assert.Equal(t, want, sql)

	sql, err = CreateTable("posts", cols, true)
	require.NoError(t, err)
	assert.Equal(t, want, sql)

	sql, err = CreateTable("tags", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE tags(id varchar(255) PRIMARY KEY NOT NULL, created_at datetime NOT NULL, modified_at datetime NOT NULL);", sql)
}

func TestBuilder_CreateTableIgnoresKind(t *testing.T) {
	b := newTestBuilder().Insert("t", []string{"a"}, []any{1})
	_, err := b.CreateTable("x", []schema.Column{schema.Text("a")}, true)
	require.NoError(t, err)
	assert.Equal(t, KindInsert, b.Kind())
}

func TestBuilder_CreateTableErrors(t *testing.T) {
	_, err := CreateTable("posts", []schema.Column{schema.Text("created_at")}, true)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateTable("posts", []schema.Column{schema.Text("a"), schema.Integer("A")}, true)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateTable("posts;", []schema.Column{schema.Text("a")}, true)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = CreateTable("posts", []schema.Column{schema.New("a", "text); DROP TABLE x", schema.Flags{})}, true)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestBuilder_DetachedExecution(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder().Select().From("t")

	_, err := b.Query(ctx)
	assert.ErrorIs(t, err, ErrNoExecutor)
	_, err = b.First(ctx)
	assert.ErrorIs(t, err, ErrNoExecutor)
	assert.ErrorIs(t, b.Get(ctx, &struct{}{}), ErrNoExecutor)
	_, err = NewBuilder().Delete("t").Exec(ctx)
	assert.ErrorIs(t, err, ErrNoExecutor)
}

func TestKindAllows(t *testing.T) {
	assert.True(t, kindAllows(KindUnset, KindInsert))
	assert.True(t, kindAllows(KindUpdate, KindSelect, KindUpdate))
	assert.False(t, kindAllows(KindDelete, KindSelect))

	var c chainCounter
	assert.False(t, c.exhausted(clauseLimit))
	c.bump(clauseLimit)
	assert.True(t, c.exhausted(clauseLimit))
	c.bump(clauseWhere)
	c.bump(clauseWhere)
	assert.False(t, c.exhausted(clauseWhere))
	assert.Equal(t, "order by", clauseOrder.String())
}
