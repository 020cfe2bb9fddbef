package fluentsql

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/biyonik/go-fluent-sqlite/internal/validation"
)

// TableSchema maps a table's column names to their declared SQL types.
type TableSchema map[string]string

// catalog caches the schema of every table. Concurrent refreshes share one
// round trip.
type catalog struct {
	mu     sync.RWMutex
	tables map[string]TableSchema
	group  singleflight.Group
}

func newCatalog() *catalog {
	return &catalog{tables: make(map[string]TableSchema)}
}

func (c *catalog) get(table string) (TableSchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.tables[table]
	return s, ok
}

func (c *catalog) put(table string, s TableSchema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[table] = s
}

func (c *catalog) replace(tables map[string]TableSchema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = tables
}

func (c *catalog) names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables returns the cached table names in sorted order.
func (d *DB) Tables() []string {
	return d.catalog.names()
}

// RefreshTables reloads the table catalog from sqlite_master and returns the
// table names.
func (d *DB) RefreshTables(ctx context.Context) ([]string, error) {
	v, err, _ := d.catalog.group.Do("refresh", func() (any, error) {
		tables, err := d.loadCatalog(ctx, d.DB)
		if err != nil {
			return nil, err
		}
		d.catalog.replace(tables)
		return d.catalog.names(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// DescribeTable returns the column types of table, from the cache when
// possible. Unknown tables give ErrUnknownTable.
func (d *DB) DescribeTable(ctx context.Context, table string) (TableSchema, error) {
	return d.describeOn(ctx, d.DB, table)
}

func (d *DB) describeOn(ctx context.Context, q QueryExecutor, table string) (TableSchema, error) {
	if s, ok := d.catalog.get(table); ok {
		return copySchema(s), nil
	}
	s, err := describe(ctx, q, table)
	if err != nil {
		return nil, err
	}
	d.catalog.put(table, s)
	return copySchema(s), nil
}

func (d *DB) loadCatalog(ctx context.Context, q QueryExecutor) (map[string]TableSchema, error) {
	const query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name;"

	records, err := d.queryOn(ctx, q, KindSelect, query, nil)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]TableSchema, len(records))
	for _, rec := range records {
		name := rec.String("name")
		s, err := describe(ctx, q, name)
		if err != nil {
			return nil, err
		}
		tables[name] = s
	}
	return tables, nil
}

// describe reads PRAGMA table_info. The pragma takes no parameters, so the
// table name is validated and quoted before it is spliced in. Declared types
// are lower-cased.
func describe(ctx context.Context, q QueryExecutor, table string) (TableSchema, error) {
	if err := validation.ValidateName(table); err != nil {
		return nil, validationErr(table, "table", err)
	}

	query := `PRAGMA table_info("` + table + `");`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, NewQueryError("describe", query, nil, err)
	}
	defer rows.Close()

	s := make(TableSchema)
	for rows.Next() {
		var (
			cid     int
			name    string
			declTyp string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &declTyp, &notNull, &dflt, &pk); err != nil {
			return nil, WrapError("describe "+table, err)
		}
		s[name] = strings.ToLower(declTyp)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError("describe "+table, err)
	}
	if len(s) == 0 {
		return nil, WrapError("describe "+table, ErrUnknownTable)
	}
	return s, nil
}

func copySchema(s TableSchema) TableSchema {
	out := make(TableSchema, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
