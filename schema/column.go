package schema

import (
	"fmt"
	"strings"

	"github.com/biyonik/go-fluent-sqlite/internal/validation"
)

// Flags holds the column modifiers. The zero value is a NOT NULL column with
// no other constraints.
type Flags struct {
	PrimaryKey    bool
	Nullable      bool
	AutoIncrement bool
	Unique        bool
}

// Reference is the target of a foreign key.
type Reference struct {
	Table  string
	Column string
}

// Column describes one column of a table. Columns are plain values; the
// modifier methods return a modified copy and never touch the receiver.
type Column struct {
	Name  string
	Type  string
	Flags Flags

	// Foreign is non-nil for columns built with ForeignKey.
	Foreign *Reference
}

// New returns a column with an explicit declared type.
func New(name, typ string, flags Flags) Column {
	return Column{Name: name, Type: typ, Flags: flags}
}

// Integer returns an "int" column.
func Integer(name string) Column { return New(name, "int", Flags{}) }

// Text returns a "text" column.
func Text(name string) Column { return New(name, "text", Flags{}) }

// Varchar returns a "varchar(size)" column. A non-positive size means 255.
func Varchar(name string, size int) Column {
	if size <= 0 {
		size = 255
	}
	return New(name, fmt.Sprintf("varchar(%d)", size), Flags{})
}

// Boolean returns a "boolean" column.
func Boolean(name string) Column { return New(name, "boolean", Flags{}) }

// Date returns a "date" column.
func Date(name string) Column { return New(name, "date", Flags{}) }

// DateTime returns a "datetime" column.
func DateTime(name string) Column { return New(name, "datetime", Flags{}) }

// Blob returns a "blob" column.
func Blob(name string) Column { return New(name, "blob", Flags{}) }

// Float returns a "float" column.
func Float(name string) Column { return New(name, "float", Flags{}) }

// Double returns a "double" column.
func Double(name string) Column { return New(name, "double", Flags{}) }

// ForeignKey returns a varchar(255) column referencing table(column). The
// generated row identifiers are strings, hence the declared type.
func ForeignKey(name, table, column string) Column {
	c := Varchar(name, 255)
	c.Foreign = &Reference{Table: table, Column: column}
	return c
}

// PrimaryKey marks the column as PRIMARY KEY.
func (c Column) PrimaryKey() Column { c.Flags.PrimaryKey = true; return c }

// Nullable drops the NOT NULL constraint.
func (c Column) Nullable() Column { c.Flags.Nullable = true; return c }

// AutoIncrement marks the column AUTOINCREMENT.
func (c Column) AutoIncrement() Column { c.Flags.AutoIncrement = true; return c }

// Unique marks the column UNIQUE.
func (c Column) Unique() Column { c.Flags.Unique = true; return c }

// WithFlags replaces all modifiers at once.
func (c Column) WithFlags(f Flags) Column { c.Flags = f; return c }

// IsForeignKey reports whether the column carries a foreign key constraint.
func (c Column) IsForeignKey() bool { return c.Foreign != nil }

// Render returns "name type [PRIMARY KEY] [AUTOINCREMENT] [UNIQUE] [NOT NULL]".
func (c Column) Render() string {
	parts := make([]string, 0, 6)
	parts = append(parts, c.Name, c.Type)
	if c.Flags.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.Flags.AutoIncrement {
		parts = append(parts, "AUTOINCREMENT")
	}
	if c.Flags.Unique {
		parts = append(parts, "UNIQUE")
	}
	if !c.Flags.Nullable {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}

// Constraint returns the FOREIGN KEY table constraint, or "" for ordinary
// columns.
func (c Column) Constraint() string {
	if c.Foreign == nil {
		return ""
	}
	return "FOREIGN KEY(" + c.Name + ") REFERENCES " + c.Foreign.Table + "(" + c.Foreign.Column + ")"
}

// Validate checks the column name, type and foreign key target.
func (c Column) Validate() error {
	if err := validation.ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if err := validation.ValidateColumnType(c.Type); err != nil {
		return err
	}
	if c.Foreign != nil {
		if err := validation.ValidateIdentifier(c.Foreign.Table); err != nil {
			return err
		}
		if err := validation.ValidateIdentifier(c.Foreign.Column); err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (c Column) String() string { return c.Render() }
