package fluentsql

import (
	"context"
	"fmt"

	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/biyonik/go-fluent-sqlite/schema"
)

// checkInsert compares every inserted value with the declared type of its
// column. The id and timestamp columns are filled in by the builder and are
// not checked. nil values and columns of unknown class pass.
func (d *DB) checkInsert(ctx context.Context, q QueryExecutor, ins *dialect.InsertClause) error {
	cols, err := d.describeOn(ctx, q, ins.Table)
	if err != nil {
		return err
	}
	return CheckTypes(ins.Table, cols, ins.Fields, ins.Values)
}

// CheckTypes validates fields/values against a table schema.
func CheckTypes(table string, cols TableSchema, fields []string, values []any) error {
	if len(fields) != len(values) {
		return arityErr("type check", len(fields), len(values))
	}
	for i, field := range fields {
		switch field {
		case ColumnID, ColumnCreatedAt, ColumnModifiedAt:
			continue
		}

		declared, ok := cols[field]
		if !ok {
			return &TypeError{Table: table, Column: field}
		}

		want := schema.Classify(declared)
		if want == schema.ClassUnknown || values[i] == nil {
			continue
		}
		if got := schema.ClassOf(values[i]); got != want {
			return &TypeError{
				Table:  table,
				Column: field,
				Want:   want.String() + " (" + declared + ")",
				Got:    fmt.Sprintf("%s (%T)", got, values[i]),
			}
		}
	}
	return nil
}
