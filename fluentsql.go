// Package fluentsql, gömülü SQLite veritabanı için akıcı (fluent) bir SQL
// ifade oluşturucusu ve bu ifadeleri transaction disipliniyle çalıştıran ince
// bir bağlantı katmanı sunar.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package fluentsql

import (
	"context"
	"database/sql"

	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/biyonik/go-fluent-sqlite/schema"

	// modernc.org/sqlite registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// Version, go-fluent-sqlite kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.2.0"

// DriverName is the database/sql driver used by Open.
const DriverName = "sqlite"

// Open, path'teki SQLite veritabanını varsayılan ayarlarla açar.
//
// Örnek:
//
//	db, err := fluentsql.Open("app.db", fluentsql.WithTypeCheck(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func Open(path string, opts ...Option) (*DB, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	return OpenWithConfig(cfg, opts...)
}

// OpenWithConfig, Config ile bir SQLite bağlantısı açar. Bağlantı sayısı bire
// sabitlenir, bağlantı doğrulanır ve tablo kataloğu yüklenir. Config'teki
// Debug ve TypeCheck, opts'tan önce uygulanır.
func OpenWithConfig(cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(DriverName, cfg.DSN())
	if err != nil {
		return nil, WrapError("connect", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, WrapError("ping", err)
	}

	base := []Option{WithDebug(cfg.Debug), WithTypeCheck(cfg.TypeCheck)}
	db := NewDB(sqlDB, append(base, opts...)...)

	if _, err := db.RefreshTables(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// New, veritabanı bağlantısı olmadan yeni bir Builder oluşturur.
// SQL stringleri oluşturmak için kullanılır; çalıştırma metodları
// ErrNoExecutor döndürür.
//
// Örnek:
//
//	sql, args, err := fluentsql.New().
//	    Select("id", "name").
//	    From("users").
//	    Where("status", "=", "active").
//	    ToSQL()
func New(opts ...BuilderOption) *Builder {
	return NewBuilder(opts...)
}

// Subquery, başka bir ifadenin WHERE koşuluna gömülecek bağımsız bir Builder
// döndürür.
func Subquery(opts ...BuilderOption) *Builder {
	return NewBuilder(opts...)
}

// CreateTable, bağımsız olarak CREATE TABLE ifadesini üretir. Tablonun başına
// id varchar(255) PRIMARY KEY, sonuna created_at ve modified_at eklenir.
//
// Örnek:
//
//	sql, err := fluentsql.CreateTable("users", []schema.Column{
//	    schema.Varchar("name", 100),
//	    schema.Integer("age").Nullable(),
//	}, true)
func CreateTable(name string, columns []schema.Column, ifNotExists bool) (string, error) {
	return createTable(dialect.SQLite(), name, columns, ifNotExists)
}

// Count returns the select-list entry COUNT(column). Use "*" to count rows.
// Query results report the value under the key "count".
func Count(column string) ColumnRef {
	return ColumnRef{Name: "COUNT(" + column + ")"}
}

// Raw, kaçış yapılmayacak ham SQL ifadesini temsil eder.
// Sadece güvenli ve kontrol edilen girdi için kullanın.
//
// Bu tip, düzenli değerlerden ayırt edilebilmesi için bir işaretleyicidir.
type Raw struct {
	SQL      string
	Bindings []any
}

// NewRaw, yeni bir Raw SQL ifadesi oluşturur.
//
// Örnek:
//
//	qb.Where("created_at", ">", fluentsql.NewRaw("strftime('%s', ?)", "2024-01-01"))
func NewRaw(sql string, bindings ...any) Raw {
	return Raw{
		SQL:      sql,
		Bindings: bindings,
	}
}

// String, ham SQL ifadesini string olarak döndürür.
func (r Raw) String() string {
	return r.SQL
}
