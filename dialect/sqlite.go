package dialect

import (
	"strconv"
	"strings"

	"github.com/biyonik/go-fluent-sqlite/schema"
)

/*
 * ----------------------------------------------------------------------------
 * SQLITE GRAMMAR IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * Builder'ın topladığı parçaları gömülü SQLite motorunun anlayacağı metne
 * çevirir. Tanımlayıcılar Builder tarafında zaten doğrulandığı için burada
 * tırnaklanmaz; çıktı, çağıranın yazdığı isimlerle birebir aynıdır.
 *
 * Parametre sırası kuralı: dönen args dizisi, metindeki "?" işaretleriyle
 * soldan sağa aynı sırada ve aynı sayıdadır.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * ----------------------------------------------------------------------------
 */

// SQLiteGrammar implements Grammar for SQLite.
type SQLiteGrammar struct{}

// SQLite returns the SQLite grammar.
func SQLite() *SQLiteGrammar {
	return &SQLiteGrammar{}
}

// Name implements Grammar.
func (g *SQLiteGrammar) Name() string { return "sqlite" }

// Placeholder implements Grammar.
func (g *SQLiteGrammar) Placeholder() string { return "?" }

// Compile implements Grammar.
func (g *SQLiteGrammar) Compile(b QueryBuilder) (string, []any, error) {
	switch b.Kind() {
	case KindInsert:
		return g.CompileInsert(b)
	case KindUpdate:
		return g.CompileUpdate(b)
	case KindDelete:
		return g.CompileDelete(b)
	default:
		return g.CompileSelect(b)
	}
}

// CompileSelect implements Grammar.
func (g *SQLiteGrammar) CompileSelect(b QueryBuilder) (string, []any, error) {
	body, args, err := g.CompileSubquery(b)
	if err != nil {
		return "", nil, err
	}
	return body + ";", args, nil
}

// CompileSubquery implements Grammar.
func (g *SQLiteGrammar) CompileSubquery(b QueryBuilder) (string, []any, error) {
	fragments, args, err := g.SelectFragments(b)
	if err != nil {
		return "", nil, err
	}
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Text()
	}
	return strings.Join(parts, " "), args, nil
}

// SelectFragments implements Grammar.
func (g *SQLiteGrammar) SelectFragments(b QueryBuilder) ([]Fragment, []any, error) {
	fragments := make([]Fragment, 0, 5)
	args := make([]any, 0)

	// SELECT; a builder that never called Select reads every column.
	fragments = append(fragments, Fragment{Keyword: "SELECT", Body: compileColumns(b.GetColumns())})

	// FROM
	if tables := b.GetTables(); len(tables) > 0 {
		fragments = append(fragments, Fragment{Keyword: "FROM", Body: compileTables(tables)})
	}

	// WHERE
	if wheres := b.GetWheres(); len(wheres) > 0 {
		whereSQL, whereArgs, err := g.compileWheres(wheres)
		if err != nil {
			return nil, nil, err
		}
		fragments = append(fragments, Fragment{Keyword: "WHERE", Body: whereSQL})
		args = append(args, whereArgs...)
	}

	// ORDER BY
	if orders := b.GetOrders(); len(orders) > 0 {
		parts := make([]string, len(orders))
		for i, o := range orders {
			parts[i] = o.Column + " " + string(o.Direction)
		}
		fragments = append(fragments, Fragment{Keyword: "ORDER BY", Body: strings.Join(parts, ", ")})
	}

	// LIMIT / OFFSET
	limit, offset := b.GetLimit(), b.GetOffset()
	switch {
	case limit != nil && offset != nil:
		fragments = append(fragments, Fragment{Keyword: "LIMIT", Body: strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(*offset)})
	case limit != nil:
		fragments = append(fragments, Fragment{Keyword: "LIMIT", Body: strconv.Itoa(*limit)})
	case offset != nil:
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		fragments = append(fragments, Fragment{Keyword: "LIMIT", Body: "-1 OFFSET " + strconv.Itoa(*offset)})
	}

	return fragments, args, nil
}

// CompileInsert implements Grammar.
func (g *SQLiteGrammar) CompileInsert(b QueryBuilder) (string, []any, error) {
	ins := b.GetInsert()
	if ins == nil {
		return "", nil, ErrNoStatement
	}
	if ins.Table == "" {
		return "", nil, ErrNoTable
	}
	if len(ins.Fields) == 0 {
		return "", nil, ErrNoColumns
	}
	if len(ins.Fields) != len(ins.Values) {
		return "", nil, ErrFieldMismatch
	}

	placeholders := make([]string, len(ins.Fields))
	for i := range placeholders {
		placeholders[i] = g.Placeholder()
	}

	var sql strings.Builder
	sql.WriteString("INSERT INTO ")
	sql.WriteString(ins.Table)
	sql.WriteString("(")
	sql.WriteString(strings.Join(ins.Fields, ", "))
	sql.WriteString(") VALUES (")
	sql.WriteString(strings.Join(placeholders, ","))
	sql.WriteString(");")

	args := make([]any, len(ins.Values))
	copy(args, ins.Values)
	return sql.String(), args, nil
}

// CompileUpdate implements Grammar.
func (g *SQLiteGrammar) CompileUpdate(b QueryBuilder) (string, []any, error) {
	upd := b.GetUpdate()
	if upd == nil {
		return "", nil, ErrNoStatement
	}
	if upd.Table == "" {
		return "", nil, ErrNoTable
	}
	if len(upd.Fields) == 0 {
		return "", nil, ErrNoColumns
	}
	if len(upd.Fields) != len(upd.Values) {
		return "", nil, ErrFieldMismatch
	}

	setParts := make([]string, len(upd.Fields))
	for i, f := range upd.Fields {
		setParts[i] = f + "=" + g.Placeholder()
	}

	args := make([]any, 0, len(upd.Values))
	args = append(args, upd.Values...)

	var sql strings.Builder
	sql.WriteString("UPDATE ")
	sql.WriteString(upd.Table)
	sql.WriteString(" SET ")
	sql.WriteString(strings.Join(setParts, ", "))

	if wheres := b.GetWheres(); len(wheres) > 0 {
		whereSQL, whereArgs, err := g.compileWheres(wheres)
		if err != nil {
			return "", nil, err
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(whereSQL)
		args = append(args, whereArgs...)
	}
	sql.WriteString(";")

	return sql.String(), args, nil
}

// CompileDelete implements Grammar.
func (g *SQLiteGrammar) CompileDelete(b QueryBuilder) (string, []any, error) {
	table := b.GetDelete()
	if table == "" {
		return "", nil, ErrNoTable
	}

	args := make([]any, 0)

	var sql strings.Builder
	sql.WriteString("DELETE FROM ")
	sql.WriteString(table)

	if wheres := b.GetWheres(); len(wheres) > 0 {
		whereSQL, whereArgs, err := g.compileWheres(wheres)
		if err != nil {
			return "", nil, err
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(whereSQL)
		args = append(args, whereArgs...)
	}
	sql.WriteString(";")

	return sql.String(), args, nil
}

// CompileCreateTable implements Grammar. Foreign key constraints follow all
// column definitions, in the order their columns were declared.
func (g *SQLiteGrammar) CompileCreateTable(name string, columns []schema.Column, ifNotExists bool) (string, error) {
	if name == "" {
		return "", ErrNoTable
	}
	if len(columns) == 0 {
		return "", ErrNoColumns
	}

	defs := make([]string, 0, len(columns))
	constraints := make([]string, 0)
	for _, c := range columns {
		defs = append(defs, c.Render())
		if c.IsForeignKey() {
			constraints = append(constraints, c.Constraint())
		}
	}
	defs = append(defs, constraints...)

	var sql strings.Builder
	sql.WriteString("CREATE TABLE ")
	if ifNotExists {
		sql.WriteString("IF NOT EXISTS ")
	}
	sql.WriteString(name)
	sql.WriteString("(")
	sql.WriteString(strings.Join(defs, ", "))
	sql.WriteString(");")

	return sql.String(), nil
}

// ----------------------------------------------------------------------------
// Internal helpers
// ----------------------------------------------------------------------------

// compileColumns renders the select list; an empty list selects "*".
func compileColumns(cols []ColumnRef) string {
	if len(cols) == 0 {
		return "*"
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		if c.Alias != "" {
			parts[i] = c.Name + " as " + c.Alias
		} else {
			parts[i] = c.Name
		}
	}
	return strings.Join(parts, ", ")
}

func compileTables(tables []TableRef) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		if t.Alias != "" {
			parts[i] = t.Name + " " + t.Alias
		} else {
			parts[i] = t.Name
		}
	}
	return strings.Join(parts, ", ")
}

// compileWheres joins clauses with their AND/OR connector; the first
// clause's connector is dropped.
func (g *SQLiteGrammar) compileWheres(wheres []WhereClause) (string, []any, error) {
	var sql strings.Builder
	args := make([]any, 0)

	for i, where := range wheres {
		if i > 0 {
			sql.WriteString(" ")
			sql.WriteString(where.Boolean.String())
			sql.WriteString(" ")
		}
		clauseSQL, err := g.compileWhere(where)
		if err != nil {
			return "", nil, err
		}
		sql.WriteString(clauseSQL)
		args = append(args, where.Args()...)
	}

	return sql.String(), args, nil
}

func (g *SQLiteGrammar) compileWhere(where WhereClause) (string, error) {
	switch where.Type {
	case WhereTypeBasic:
		return where.Column + " " + where.Operator + " " + g.Placeholder(), nil
	case WhereTypeIn:
		if len(where.Values) == 0 {
			return "", ErrEmptyWhereIn
		}
		placeholders := make([]string, len(where.Values))
		for i := range placeholders {
			placeholders[i] = g.Placeholder()
		}
		return where.Column + " " + where.Operator + " (" + strings.Join(placeholders, ", ") + ")", nil
	case WhereTypeNull:
		return where.Column + " IS NULL", nil
	case WhereTypeNotNull:
		return where.Column + " IS NOT NULL", nil
	case WhereTypeSubquery, WhereTypeRaw:
		return where.Column + " " + where.Operator + " " + where.Raw, nil
	default:
		return "", ErrUnknownWhere
	}
}
