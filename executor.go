package fluentsql

import (
	"context"
	"database/sql"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/biyonik/go-fluent-sqlite/schema"
)

/*
=======================================================================================================================
  FLUENT SQL – Bağlantı Katmanı

  Builder'ın ürettiği (sql, args) çiftini gömülü SQLite bağlantısında çalıştırır:
  - SELECT ifadeleri doğrudan bağlantıda çalışır, sonuçlar Record ya da struct olarak döner.
  - INSERT / UPDATE / DELETE ifadeleri her zaman açık bir BEGIN / COMMIT içinde çalışır;
    herhangi bir hata transaction'ı geri alır ve ifadeyle birlikte QueryError olarak döner.
  - Değerler her zaman "?" parametreleriyle bağlanır, metne gömülmez.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
  @linkedin  linkedin.com/in/biyonik
  @email     ahmet.altun60@gmail.com
=======================================================================================================================
*/

// QueryExecutor arayüzü; hem *sql.DB hem *sql.Tx yapılarının ortak olarak sağlayabildiği temel veritabanı
// fonksiyonlarını soyutlar.
type QueryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ QueryExecutor = (*sql.DB)(nil)
	_ QueryExecutor = (*sql.Tx)(nil)
	_ QueryExecutor = (*Transaction)(nil)

	_ runner = (*DB)(nil)
	_ runner = (*Transaction)(nil)
)

// DB, SQLite bağlantısını sarar; gramer, tarayıcı, loglama, tip denetimi ve
// metrik davranışlarını taşır.
type DB struct {
	*sql.DB
	grammar   dialect.Grammar
	scanner   Scanner
	logger    Logger
	debug     bool
	typeCheck bool
	clock     Clock
	ids       IDGenerator
	metrics   *Metrics
	catalog   *catalog
}

// NewDB, hazır bir *sql.DB'yi sarar. Tablo kataloğu ilk ihtiyaçta yüklenir;
// Open bunu bağlantı sırasında yapar.
func NewDB(db *sql.DB, opts ...Option) *DB {
	d := &DB{
		DB:      db,
		logger:  NopLogger{},
		catalog: newCatalog(),
	}

	applyOptions(d, opts)

	if d.grammar == nil {
		d.grammar = dialect.SQLite()
	}
	if d.scanner == nil {
		d.scanner = NewDefaultScanner()
	}
	if d.clock == nil {
		d.clock = SystemClock
	}
	if d.ids == nil {
		d.ids = DefaultIDGenerator
	}

	return d
}

// Grammar -> Aktif SQL cümle oluşturma motorunu döndürür.
func (d *DB) Grammar() dialect.Grammar { return d.grammar }

// Scanner -> Satır dönüştürücüyü döndürür.
func (d *DB) Scanner() Scanner { return d.scanner }

// Logger -> Sorgu logger'ını döndürür.
func (d *DB) Logger() Logger { return d.logger }

// IsDebug -> Başarılı ifadeler de loglanıyor mu?
func (d *DB) IsDebug() bool { return d.debug }

// TypeCheck reports whether inserts are checked against the table schema.
func (d *DB) TypeCheck() bool { return d.typeCheck }

// ----------------------------------------------------------------------------
// Builder starters
// ----------------------------------------------------------------------------

// Builder, bu bağlantıya bağlı boş bir Builder döndürür.
func (d *DB) Builder() *Builder {
	return d.newBuilder(d)
}

func (d *DB) newBuilder(r runner) *Builder {
	b := NewBuilder(WithBuilderClock(d.clock), WithBuilderIDGenerator(d.ids))
	b.grammar = d.grammar
	b.run = r
	return b
}

// Select starts a SELECT bound to d.
func (d *DB) Select(columns ...any) *Builder {
	return d.Builder().Select(columns...)
}

// From starts "SELECT * FROM table" bound to d.
func (d *DB) From(table any) *Builder {
	return d.Builder().Select().From(table)
}

// Update starts an UPDATE bound to d.
func (d *DB) Update(table string, fields []string, values []any, opts ...UpdateOption) *Builder {
	return d.Builder().Update(table, fields, values, opts...)
}

// Delete starts a DELETE bound to d.
func (d *DB) Delete(table string) *Builder {
	return d.Builder().Delete(table)
}

// Subquery returns a builder meant to be embedded in another statement's
// WHERE clause.
func (d *DB) Subquery() *Builder {
	return d.Builder()
}

// ----------------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------------

// Query, bir SELECT ifadesini çalıştırır ve satırları Record olarak döndürür.
func (d *DB) Query(ctx context.Context, b *Builder) ([]Record, error) {
	return d.queryBuilder(ctx, d.DB, b)
}

// QueryRows, SELECT ifadesini çalıştırıp ham *sql.Rows döndürür. Kapatmak
// çağıranın sorumluluğundadır.
func (d *DB) QueryRows(ctx context.Context, b *Builder) (*sql.Rows, error) {
	query, args, err := d.compileRead("query", b)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := d.DB.QueryContext(ctx, query, args...)
	d.observe(KindSelect, query, args, time.Since(start), err)
	if err != nil {
		return nil, NewQueryError("query", query, args, err)
	}
	return rows, nil
}

// First, ifadeyi LIMIT 1 ile çalıştırır ve ilk satırı döndürür. Satır
// yoksa ErrNoRows döner.
func (d *DB) First(ctx context.Context, b *Builder) (Record, error) {
	return d.firstOn(ctx, d.DB, b)
}

// Get, sonuçları dest'e tarar (struct pointer'ı ya da slice pointer'ı).
func (d *DB) Get(ctx context.Context, b *Builder, dest any) error {
	return d.getOn(ctx, d.DB, b, dest)
}

// Paginate, ifadenin page numaralı sayfasını ve toplam kayıt sayısını döndürür.
// b üzerinde LIMIT ya da OFFSET olmamalıdır; b değişmez.
func (d *DB) Paginate(ctx context.Context, b *Builder, page, perPage int) (*Page, error) {
	if b.limit != nil || b.offset != nil {
		return nil, &ArgumentError{Op: "paginate", Reason: "builder already has LIMIT or OFFSET"}
	}

	counter := b.Clone()
	counter.columns = []dialect.ColumnRef{Count("*")}
	counter.orders = nil
	counted, err := d.Query(ctx, counter)
	if err != nil {
		return nil, err
	}
	var total int64
	if len(counted) > 0 {
		total = counted[0].Int64("count")
	}

	p := NewPagination(page, perPage, total)
	records, err := d.Query(ctx, b.Clone().Limit(p.PerPage).Offset(p.Offset()))
	if err != nil {
		return nil, err
	}
	return &Page{Records: records, Pagination: p}, nil
}

// ----------------------------------------------------------------------------
// Writes (her biri kendi transaction'ında)
// ----------------------------------------------------------------------------

// Exec, UPDATE ya da DELETE ifadesini BEGIN / COMMIT içinde çalıştırır; hata
// durumunda geri alır. Diğer türler StateError ile reddedilir.
func (d *DB) Exec(ctx context.Context, b *Builder) (*QueryResult, error) {
	if _, _, err := d.compileWrite("exec", b, KindUpdate, KindDelete); err != nil {
		return nil, err
	}
	var res *QueryResult
	err := d.Transaction(ctx, func(tx *Transaction) error {
		var err error
		res, err = tx.Exec(ctx, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Insert, tek bir satır ekler ve üretilen id'yi döndürür. Tip denetimi
// açıksa değerler tablo şemasıyla karşılaştırılır.
func (d *DB) Insert(ctx context.Context, table string, fields []string, values []any) (string, error) {
	ids, err := d.InsertMany(ctx, d.Builder().Insert(table, fields, values))
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertRecord, bir kolon → değer haritasını ekler. Kolonlar alfabetik
// sıralanır.
func (d *DB) InsertRecord(ctx context.Context, table string, record map[string]any) (string, error) {
	ids, err := d.InsertRecords(ctx, table, []map[string]any{record})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertRecords, kayıtların tamamını tek transaction içinde ekler; biri
// başarısız olursa hiçbiri kalıcı olmaz.
func (d *DB) InsertRecords(ctx context.Context, table string, records []map[string]any) ([]string, error) {
	if len(records) == 0 {
		return nil, &ArgumentError{Op: "insert records", Reason: "no records given"}
	}
	stmts := make([]*Builder, len(records))
	for i, rec := range records {
		fields, values := splitRecord(rec)
		stmts[i] = d.Builder().Insert(table, fields, values)
	}
	return d.InsertMany(ctx, stmts...)
}

// InsertMany, INSERT Builder'larını sırayla tek transaction içinde çalıştırır
// ve üretilen id'leri aynı sırada döndürür. Hata, başarısız ifadeyi içeren
// bir QueryError'dır ve transaction geri alınır.
func (d *DB) InsertMany(ctx context.Context, stmts ...*Builder) ([]string, error) {
	if len(stmts) == 0 {
		return nil, &ArgumentError{Op: "insert many", Reason: "no statements given"}
	}
	for _, b := range stmts {
		if _, _, err := d.compileWrite("insert", b, KindInsert); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(stmts))
	err := d.Transaction(ctx, func(tx *Transaction) error {
		for _, b := range stmts {
			id, err := tx.InsertBuilder(ctx, b)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateTable, tabloyu oluşturur ve tablo kataloğunu yeniler. Kolon listesi
// boş olamaz.
func (d *DB) CreateTable(ctx context.Context, name string, columns []schema.Column, ifNotExists bool) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	query, err := createTable(d.grammar, name, columns, ifNotExists)
	if err != nil {
		return err
	}
	err = d.Transaction(ctx, func(tx *Transaction) error {
		_, err := d.execOn(ctx, tx, KindUnset, query, nil)
		return err
	})
	if err != nil {
		return err
	}
	_, err = d.RefreshTables(ctx)
	return err
}

// Raw, ham bir SQL ifadesini çalıştırır. Okuma ifadeleri (SELECT, PRAGMA,
// WITH, EXPLAIN, VALUES) doğrudan, diğerleri bir transaction içinde çalışır.
// Şema değiştiren ifadelerden sonra tablo kataloğu yenilenir.
func (d *DB) Raw(ctx context.Context, query string, args ...any) ([]Record, error) {
	if isReadStatement(query) {
		return d.queryOn(ctx, d.DB, KindSelect, query, args)
	}

	var records []Record
	err := d.Transaction(ctx, func(tx *Transaction) error {
		var err error
		records, err = tx.Raw(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	if isSchemaStatement(query) {
		if _, err := d.RefreshTables(ctx); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ----------------------------------------------------------------------------
// Transactions
// ----------------------------------------------------------------------------

// BeginTx -> Manuel transaction başlatır.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Transaction, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, WrapError("begin transaction", err)
	}
	return &Transaction{tx: tx, db: d}, nil
}

// Begin -> Varsayılan ayarlarla transaction başlatır.
func (d *DB) Begin() (*Transaction, error) {
	return d.BeginTx(context.Background(), nil)
}

// Transaction -> fn'i bir transaction içinde çalıştırır. fn hata döndürürse
// ya da panic olursa geri alınır, aksi halde commit edilir.
func (d *DB) Transaction(ctx context.Context, fn func(*Transaction) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return WrapError("rollback after error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Close -> Veritabanı bağlantısını kapatır.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Ping -> Bağlantı canlı mı? Kontrol eder.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// ----------------------------------------------------------------------------
// Internal execution helpers (shared with Transaction)
// ----------------------------------------------------------------------------

// compileRead renders b, which must be a SELECT (or an unset builder with a
// FROM list).
func (d *DB) compileRead(op string, b *Builder) (string, []any, error) {
	if b == nil {
		return "", nil, &ArgumentError{Op: op, Reason: "builder is nil"}
	}
	if b.err == nil && !kindAllows(b.kind, KindSelect) {
		return "", nil, &StateError{Op: op, Kind: b.kind}
	}
	return b.ToSQL()
}

// compileWrite renders b, which must be one of kinds.
func (d *DB) compileWrite(op string, b *Builder, kinds ...Kind) (string, []any, error) {
	if b == nil {
		return "", nil, &ArgumentError{Op: op, Reason: "builder is nil"}
	}
	if b.err != nil {
		return "", nil, b.err
	}
	for _, k := range kinds {
		if b.kind == k {
			return b.ToSQL()
		}
	}
	return "", nil, &StateError{Op: op, Kind: b.kind}
}

func (d *DB) queryBuilder(ctx context.Context, q QueryExecutor, b *Builder) ([]Record, error) {
	query, args, err := d.compileRead("query", b)
	if err != nil {
		return nil, err
	}
	return d.queryOn(ctx, q, KindSelect, query, args)
}

func (d *DB) firstOn(ctx context.Context, q QueryExecutor, b *Builder) (Record, error) {
	c := b.Clone()
	if c.limit == nil {
		c.Limit(1)
	}
	records, err := d.queryBuilder(ctx, q, c)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records[0], nil
}

func (d *DB) getOn(ctx context.Context, q QueryExecutor, b *Builder, dest any) error {
	if rv := reflect.ValueOf(dest); rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrNotAPointer
	}
	query, args, err := d.compileRead("get", b)
	if err != nil {
		return err
	}
	start := time.Now()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		d.observe(KindSelect, query, args, time.Since(start), err)
		return NewQueryError("get", query, args, err)
	}
	err = d.scanner.ScanStructs(rows, dest)
	d.observe(KindSelect, query, args, time.Since(start), err)
	return err
}

func (d *DB) queryOn(ctx context.Context, q QueryExecutor, kind Kind, query string, args []any) ([]Record, error) {
	start := time.Now()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		d.observe(kind, query, args, time.Since(start), err)
		return nil, NewQueryError("query", query, args, err)
	}
	records, err := d.scanner.ScanRecords(rows)
	d.observe(kind, query, args, time.Since(start), err)
	if err != nil {
		return nil, NewQueryError("query", query, args, err)
	}
	return records, nil
}

func (d *DB) execOn(ctx context.Context, q QueryExecutor, kind Kind, query string, args []any) (sql.Result, error) {
	start := time.Now()
	res, err := q.ExecContext(ctx, query, args...)
	d.observe(kind, query, args, time.Since(start), err)
	if err != nil {
		return nil, NewQueryError("exec", query, args, err)
	}
	return res, nil
}

// observe logs the statement (successes only in debug mode) and records
// metrics.
func (d *DB) observe(kind Kind, query string, args []any, dur time.Duration, err error) {
	if d.debug || err != nil {
		d.logger.Log(query, args, dur, err)
	}
	d.metrics.observe(kind, dur, err)
}

// splitRecord returns the record's keys in sorted order with their values.
func splitRecord(rec map[string]any) ([]string, []any) {
	fields := make([]string, 0, len(rec))
	for k := range rec {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = rec[f]
	}
	return fields, values
}

func firstKeyword(query string) string {
	fields := strings.Fields(strings.TrimLeft(query, "( \t\r\n"))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func isReadStatement(query string) bool {
	switch firstKeyword(query) {
	case "SELECT", "PRAGMA", "WITH", "EXPLAIN", "VALUES":
		return true
	}
	return false
}

func isSchemaStatement(query string) bool {
	switch firstKeyword(query) {
	case "CREATE", "DROP", "ALTER":
		return true
	}
	return false
}

// statementKind classifies raw SQL for metrics.
func statementKind(query string) Kind {
	switch firstKeyword(query) {
	case "SELECT", "WITH":
		return KindSelect
	case "INSERT":
		return KindInsert
	case "UPDATE":
		return KindUpdate
	case "DELETE":
		return KindDelete
	default:
		return KindUnset
	}
}
