package fluentsql

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/biyonik/go-fluent-sqlite/internal/validation"
	"github.com/biyonik/go-fluent-sqlite/schema"
)

// Otomatik yönetilen kolon adları.
const (
	ColumnID         = "id"
	ColumnCreatedAt  = "created_at"
	ColumnModifiedAt = "modified_at"
)

// ColumnRef, SELECT listesindeki bir girdidir.
type ColumnRef = dialect.ColumnRef

// TableRef, FROM listesindeki bir tablodur.
type TableRef = dialect.TableRef

// Col, alias'sız bir kolon referansı döndürür.
func Col(name string) ColumnRef { return ColumnRef{Name: name} }

// As, "name as alias" olarak yazılan bir kolon referansı döndürür.
func As(name, alias string) ColumnRef { return ColumnRef{Name: name, Alias: alias} }

// Tbl, alias'sız bir tablo referansı döndürür.
func Tbl(name string) TableRef { return TableRef{Name: name} }

// TblAs, "name alias" olarak yazılan bir tablo referansı döndürür.
func TblAs(name, alias string) TableRef { return TableRef{Name: name, Alias: alias} }

// Builder, tek bir SQL ifadesini akıcı bir arayüz (fluent interface) ile
// biriktiren durum makinesidir.
//
// İlk tür belirleyen çağrı (Select, Insert, Update, Delete) Builder'ı o türe
// kilitler; aynı örnek üzerinde başka türe ait bir çağrı StateError üretir.
// WHERE yalnızca SELECT, UPDATE ve DELETE için geçerlidir.
//
// Hatalar birikir: ilk hatadan sonra gelen tüm çağrılar hiçbir şey yapmaz ve
// ToSQL bu hatayı döndürür. Başarısız bir çağrı Builder'ı değiştirmez.
//
// Builder örnekleri **concurrent-safe** değildir; her mantıksal ifade için
// yeni bir örnek kullanın ya da Reset ile sıfırlayın.
//
// Genel kullanım örneği:
//
//	sql, args, err := fluentsql.NewBuilder().
//	    Select("id", fluentsql.As("name", "n")).
//	    From("users").
//	    Where("age", ">=", 18).
//	    OrderByDesc("created_at").
//	    Limit(10).
//	    ToSQL()
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
type Builder struct {
	run     runner
	grammar dialect.Grammar
	clock   Clock
	ids     IDGenerator

	kind  Kind
	chain chainCounter

	// SELECT
	columns []dialect.ColumnRef
	tables  []dialect.TableRef
	wheres  []dialect.WhereClause
	orders  []dialect.OrderClause
	limit   *int
	offset  *int

	// INSERT / UPDATE / DELETE
	insert      *dialect.InsertClause
	update      *dialect.UpdateClause
	deleteTable string

	// Accumulated error
	err error
}

// NewBuilder, bağımsız (veritabanına bağlı olmayan) yeni bir Builder oluşturur.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		grammar: dialect.SQLite(),
		clock:   SystemClock,
		ids:     DefaultIDGenerator,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// ----------------------------------------------------------------------------
// SELECT
// ----------------------------------------------------------------------------

// Select, seçilecek kolonları ayarlar ve Builder'ı SELECT türüne kilitler.
//
// Her argüman bir kolon adı ("id", "name as n", "COUNT(*)"), ColumnRef,
// iki elemanlı []string{kolon, alias} çifti ya da Raw olabilir. Argümansız
// çağrı "*" anlamına gelir. İkinci ve sonraki çağrılar etkisizdir.
func (b *Builder) Select(columns ...any) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindSelect) {
		return b.fail(&StateError{Op: "select", Kind: b.kind})
	}
	if b.chain.exhausted(clauseSelect) {
		return b
	}

	refs := make([]dialect.ColumnRef, 0, len(columns))
	for _, c := range columns {
		ref, err := toColumnRef(c)
		if err != nil {
			return b.fail(err)
		}
		refs = append(refs, ref)
	}

	b.columns = refs
	b.kind = KindSelect
	b.chain.bump(clauseSelect)
	return b
}

// From, FROM listesine bir tablo ekler. Birden çok çağrı virgülle birleşir.
// Tablo bir ad ("users", "users u", "users as u"), TableRef ya da
// []string{tablo, alias} çifti olabilir.
func (b *Builder) From(table any) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindSelect) {
		return b.fail(&StateError{Op: "from", Kind: b.kind})
	}

	ref, err := toTableRef(table)
	if err != nil {
		return b.fail(err)
	}

	b.tables = append(b.tables, ref)
	b.chain.bump(clauseFrom)
	return b
}

// ----------------------------------------------------------------------------
// WHERE
// ----------------------------------------------------------------------------

// Where, AND ile bağlanan bir WHERE koşulu ekler.
//
// value bir *Builder ise alt sorgu olarak parantez içine gömülür ve
// parametreleri bu koşulun konumuna eklenir. IN / NOT IN için value bir
// slice ya da dizi olmalıdır; her eleman kendi "?" işaretini alır. IS / IS NOT
// ile nil (ya da "NULL") değeri parametresiz IS NULL / IS NOT NULL üretir.
func (b *Builder) Where(column, operator string, value any) *Builder {
	return b.where("where", dialect.WhereBooleanAnd, column, operator, value)
}

// OrWhere, OR ile bağlanan bir WHERE koşulu ekler.
func (b *Builder) OrWhere(column, operator string, value any) *Builder {
	return b.where("or where", dialect.WhereBooleanOr, column, operator, value)
}

// WhereIn, WHERE column IN (...) koşulu ekler. values bir slice, dizi ya da
// alt sorgu olmalıdır.
func (b *Builder) WhereIn(column string, values any) *Builder {
	return b.where("where in", dialect.WhereBooleanAnd, column, "IN", values)
}

// WhereNotIn, WHERE column NOT IN (...) koşulu ekler.
func (b *Builder) WhereNotIn(column string, values any) *Builder {
	return b.where("where not in", dialect.WhereBooleanAnd, column, "NOT IN", values)
}

// OrWhereIn, OR column IN (...) koşulu ekler.
func (b *Builder) OrWhereIn(column string, values any) *Builder {
	return b.where("or where in", dialect.WhereBooleanOr, column, "IN", values)
}

// WhereNull, WHERE column IS NULL koşulu ekler.
func (b *Builder) WhereNull(column string) *Builder {
	return b.where("where null", dialect.WhereBooleanAnd, column, "IS", nil)
}

// WhereNotNull, WHERE column IS NOT NULL koşulu ekler.
func (b *Builder) WhereNotNull(column string) *Builder {
	return b.where("where not null", dialect.WhereBooleanAnd, column, "IS NOT", nil)
}

// OrWhereNull, OR column IS NULL koşulu ekler.
func (b *Builder) OrWhereNull(column string) *Builder {
	return b.where("or where null", dialect.WhereBooleanOr, column, "IS", nil)
}

// OrWhereNotNull, OR column IS NOT NULL koşulu ekler.
func (b *Builder) OrWhereNotNull(column string) *Builder {
	return b.where("or where not null", dialect.WhereBooleanOr, column, "IS NOT", nil)
}

func (b *Builder) where(op string, boolean dialect.WhereBoolean, column, operator string, value any) *Builder {
	if b.err != nil {
		return b
	}
	if !b.kind.AllowsWhere() {
		return b.fail(&StateError{Op: op, Kind: b.kind})
	}

	clause, err := b.buildWhere(op, boolean, column, operator, value)
	if err != nil {
		return b.fail(err)
	}

	b.wheres = append(b.wheres, clause)
	b.chain.bump(clauseWhere)
	return b
}

func (b *Builder) buildWhere(op string, boolean dialect.WhereBoolean, column, operator string, value any) (dialect.WhereClause, error) {
	var clause dialect.WhereClause

	if err := validation.ValidateIdentifier(column); err != nil {
		return clause, validationErr(column, "column", err)
	}
	normalized, err := validation.NormalizeOperator(operator)
	if err != nil {
		return clause, validationErr(operator, "operator", err)
	}

	clause.Boolean = boolean
	clause.Column = column
	clause.Operator = normalized

	switch v := value.(type) {
	case *Builder:
		raw, bindings, err := b.subquery(op, v)
		if err != nil {
			return clause, err
		}
		clause.Type = dialect.WhereTypeSubquery
		clause.Raw = raw
		clause.Bindings = bindings
		return clause, nil
	case Raw:
		if strings.TrimSpace(v.SQL) == "" {
			return clause, &ArgumentError{Op: op, Reason: "raw expression is empty"}
		}
		clause.Type = dialect.WhereTypeRaw
		clause.Raw = v.SQL
		clause.Bindings = append([]any(nil), v.Bindings...)
		return clause, nil
	}

	if validation.IsSetOperator(normalized) {
		values, ok := toSlice(value)
		if !ok {
			return clause, &ArgumentError{Op: op, Reason: fmt.Sprintf("%s requires a slice or array, got %T", normalized, value)}
		}
		if len(values) == 0 {
			return clause, &ArgumentError{Op: op, Reason: normalized + " requires at least one value"}
		}
		clause.Type = dialect.WhereTypeIn
		clause.Values = values
		return clause, nil
	}

	if validation.IsNullOperator(normalized) && isNullLiteral(value) {
		if normalized == "IS" {
			clause.Type = dialect.WhereTypeNull
		} else {
			clause.Type = dialect.WhereTypeNotNull
		}
		return clause, nil
	}

	if _, ok := toSlice(value); ok {
		return clause, &ArgumentError{Op: op, Reason: "operator " + normalized + " does not accept a list"}
	}

	clause.Type = dialect.WhereTypeBasic
	clause.Value = value
	return clause, nil
}

// subquery, sub'ı ";" olmadan ve parantez içinde derler. Metin ve
// parametreler bu anda kopyalanır; sub'daki sonraki değişiklikler sızmaz.
func (b *Builder) subquery(op string, sub *Builder) (string, []any, error) {
	if sub == nil {
		return "", nil, &ArgumentError{Op: op, Reason: "subquery is nil"}
	}
	if sub == b {
		return "", nil, &ArgumentError{Op: op, Reason: "a builder cannot be its own subquery"}
	}
	if sub.err != nil {
		return "", nil, WrapError("subquery", sub.err)
	}
	if sub.kind != KindSelect {
		return "", nil, &ArgumentError{Op: op, Reason: "subquery must be a SELECT statement, got " + sub.kind.String()}
	}
	text, args, err := b.grammar.CompileSubquery(sub)
	if err != nil {
		return "", nil, WrapError("subquery", err)
	}
	return "(" + text + ")", args, nil
}

// ----------------------------------------------------------------------------
// ORDER BY / LIMIT / OFFSET
// ----------------------------------------------------------------------------

// OrderBy, sıralama ekler. Boş direction ASC kabul edilir. ORDER BY yalnızca
// bir kez uygulanır; birden fazla kolon için OrderByMany kullanın.
func (b *Builder) OrderBy(column, direction string) *Builder {
	return b.OrderByMany(dialect.OrderClause{Column: column, Direction: dialect.OrderDirection(direction)})
}

// OrderByAsc, artan sıralama ekler.
func (b *Builder) OrderByAsc(column string) *Builder {
	return b.OrderByMany(dialect.Asc(column))
}

// OrderByDesc, azalan sıralama ekler.
func (b *Builder) OrderByDesc(column string) *Builder {
	return b.OrderByMany(dialect.Desc(column))
}

// OrderByMany, birden çok "kolon yön" çiftini tek bir ORDER BY olarak ekler.
func (b *Builder) OrderByMany(terms ...dialect.OrderClause) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindSelect) {
		return b.fail(&StateError{Op: "order by", Kind: b.kind})
	}
	if b.chain.exhausted(clauseOrder) {
		return b
	}
	if len(terms) == 0 {
		return b.fail(&ArgumentError{Op: "order by", Reason: "at least one column is required"})
	}

	orders := make([]dialect.OrderClause, 0, len(terms))
	for _, t := range terms {
		if !validation.IsExpression(t.Column) {
			if err := validation.ValidateIdentifier(t.Column); err != nil {
				return b.fail(validationErr(t.Column, "column", err))
			}
		}
		dir := dialect.OrderAsc
		if t.Direction != "" {
			normalized, err := validation.NormalizeDirection(string(t.Direction))
			if err != nil {
				return b.fail(validationErr(string(t.Direction), "direction", err))
			}
			dir = dialect.OrderDirection(normalized)
		}
		orders = append(orders, dialect.OrderClause{Column: t.Column, Direction: dir})
	}

	b.orders = orders
	b.chain.bump(clauseOrder)
	return b
}

// Limit, LIMIT değerini ayarlar. n pozitif olmalıdır; ikinci çağrı etkisizdir.
func (b *Builder) Limit(n int) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindSelect) {
		return b.fail(&StateError{Op: "limit", Kind: b.kind})
	}
	if b.chain.exhausted(clauseLimit) {
		return b
	}
	if n <= 0 {
		return b.fail(&ArgumentError{Op: "limit", Reason: fmt.Sprintf("limit must be a positive integer, got %d", n)})
	}

	b.limit = &n
	b.chain.bump(clauseLimit)
	return b
}

// Offset, OFFSET değerini ayarlar. n negatif olamaz; ikinci çağrı etkisizdir.
func (b *Builder) Offset(n int) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindSelect) {
		return b.fail(&StateError{Op: "offset", Kind: b.kind})
	}
	if b.chain.exhausted(clauseOffset) {
		return b
	}
	if n < 0 {
		return b.fail(&ArgumentError{Op: "offset", Reason: fmt.Sprintf("offset cannot be negative, got %d", n)})
	}

	b.offset = &n
	b.chain.bump(clauseOffset)
	return b
}

// ----------------------------------------------------------------------------
// INSERT / UPDATE / DELETE
// ----------------------------------------------------------------------------

// Insert, bir INSERT ifadesi hazırlar ve Builder'ı INSERT türüne kilitler.
//
// Başa üretilmiş bir id, sona aynı anda alınmış created_at ve modified_at
// zaman damgaları eklenir. Çağıranın dilimleri değiştirilmez.
func (b *Builder) Insert(table string, fields []string, values []any) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindInsert) {
		return b.fail(&StateError{Op: "insert", Kind: b.kind})
	}
	if b.chain.exhausted(clauseInsert) {
		return b
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(validationErr(table, "table", err))
	}
	if len(fields) != len(values) {
		return b.fail(arityErr("insert", len(fields), len(values)))
	}
	if err := validateFields("insert", fields, ColumnID, ColumnCreatedAt, ColumnModifiedAt); err != nil {
		return b.fail(err)
	}

	now := b.clock()
	ts := Timestamp(now)
	id := b.ids.NewID(now, fields, values)

	allFields := make([]string, 0, len(fields)+3)
	allFields = append(allFields, ColumnID)
	allFields = append(allFields, fields...)
	allFields = append(allFields, ColumnCreatedAt, ColumnModifiedAt)

	allValues := make([]any, 0, len(values)+3)
	allValues = append(allValues, id)
	allValues = append(allValues, values...)
	allValues = append(allValues, ts, ts)

	b.insert = &dialect.InsertClause{Table: table, Fields: allFields, Values: allValues}
	b.kind = KindInsert
	b.chain.bump(clauseInsert)
	return b
}

// UpdateOption, Update davranışını değiştirir.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	touchModified bool
}

// SkipModified, Update'in modified_at kolonunu otomatik güncellemesini engeller.
func SkipModified() UpdateOption {
	return func(o *updateOptions) { o.touchModified = false }
}

// Update, bir UPDATE ifadesi hazırlar ve Builder'ı UPDATE türüne kilitler.
// Varsayılan olarak modified_at şimdiki zamanla güncellenir.
func (b *Builder) Update(table string, fields []string, values []any, opts ...UpdateOption) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindUpdate) {
		return b.fail(&StateError{Op: "update", Kind: b.kind})
	}
	if b.chain.exhausted(clauseUpdate) {
		return b
	}

	o := updateOptions{touchModified: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(validationErr(table, "table", err))
	}
	if len(fields) != len(values) {
		return b.fail(arityErr("update", len(fields), len(values)))
	}
	var managed []string
	if o.touchModified {
		managed = append(managed, ColumnModifiedAt)
	}
	if err := validateFields("update", fields, managed...); err != nil {
		return b.fail(err)
	}
	if len(fields) == 0 && !o.touchModified {
		return b.fail(&ArgumentError{Op: "update", Reason: "no fields to update"})
	}

	allFields := make([]string, 0, len(fields)+1)
	allFields = append(allFields, fields...)
	allValues := make([]any, 0, len(values)+1)
	allValues = append(allValues, values...)
	if o.touchModified {
		allFields = append(allFields, ColumnModifiedAt)
		allValues = append(allValues, Timestamp(b.clock()))
	}

	b.update = &dialect.UpdateClause{Table: table, Fields: allFields, Values: allValues}
	b.kind = KindUpdate
	b.chain.bump(clauseUpdate)
	return b
}

// Delete, bir DELETE ifadesi hazırlar ve Builder'ı DELETE türüne kilitler.
func (b *Builder) Delete(table string) *Builder {
	if b.err != nil {
		return b
	}
	if !kindAllows(b.kind, KindDelete) {
		return b.fail(&StateError{Op: "delete", Kind: b.kind})
	}
	if b.chain.exhausted(clauseDelete) {
		return b
	}
	if err := validation.ValidateIdentifier(table); err != nil {
		return b.fail(validationErr(table, "table", err))
	}

	b.deleteTable = table
	b.kind = KindDelete
	b.chain.bump(clauseDelete)
	return b
}

// CreateTable, CREATE TABLE ifadesini üretir. Builder'ın durumunu okumaz ve
// değiştirmez; tür kilidine tabi değildir.
func (b *Builder) CreateTable(name string, columns []schema.Column, ifNotExists bool) (string, error) {
	return createTable(b.grammar, name, columns, ifNotExists)
}

// IDColumn, otomatik yönetilen birincil anahtar kolonunu döndürür.
func IDColumn() schema.Column { return schema.Varchar(ColumnID, 255).PrimaryKey() }

func createTable(g dialect.Grammar, name string, columns []schema.Column, ifNotExists bool) (string, error) {
	if err := validation.ValidateIdentifier(name); err != nil {
		return "", validationErr(name, "table", err)
	}

	seen := map[string]bool{ColumnID: true, ColumnCreatedAt: true, ColumnModifiedAt: true}
	all := make([]schema.Column, 0, len(columns)+3)
	all = append(all, IDColumn())
	for _, c := range columns {
		if err := c.Validate(); err != nil {
			return "", validationErr(c.Name, "column", err)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return "", &ArgumentError{Op: "create table", Reason: "column " + c.Name + " is duplicated or managed automatically"}
		}
		seen[key] = true
		all = append(all, c)
	}
	all = append(all, schema.DateTime(ColumnCreatedAt), schema.DateTime(ColumnModifiedAt))

	return g.CompileCreateTable(name, all, ifNotExists)
}

// ----------------------------------------------------------------------------
// Derleme
// ----------------------------------------------------------------------------

// ToSQL, ifadenin SQL metnini ve bağlı parametrelerini döndürür. Builder
// değişmez. Parametreler metindeki "?" işaretleriyle aynı sıradadır.
func (b *Builder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if b.kind == KindUnset && len(b.tables) == 0 {
		return "", nil, WrapError("render", dialect.ErrNoStatement)
	}
	return b.grammar.Compile(b)
}

// String, SQL metnini döndürür; hata varsa boş string döner.
func (b *Builder) String() string {
	sql, _, err := b.ToSQL()
	if err != nil {
		return ""
	}
	return sql
}

// Args, bağlı parametreleri döndürür; hata varsa nil döner.
func (b *Builder) Args() []any {
	_, args, err := b.ToSQL()
	if err != nil {
		return nil
	}
	return args
}

// Kind, Builder'ın kilitlendiği ifade türünü döndürür.
func (b *Builder) Kind() Kind { return b.kind }

// Err, biriken ilk hatayı döndürür.
func (b *Builder) Err() error { return b.err }

// Reset, tüm cümle durumunu, parametreleri, zincir sayaçlarını, tür kilidini
// ve biriken hatayı temizler. Veritabanı, gramer, saat ve id üreticisi korunur.
func (b *Builder) Reset() *Builder {
	*b = Builder{run: b.run, grammar: b.grammar, clock: b.clock, ids: b.ids}
	return b
}

// Clone, Builder'ın bağımsız bir kopyasını döndürür.
func (b *Builder) Clone() *Builder {
	c := *b
	if b.columns != nil {
		c.columns = append([]dialect.ColumnRef{}, b.columns...)
	}
	c.tables = append([]dialect.TableRef(nil), b.tables...)
	c.wheres = append([]dialect.WhereClause(nil), b.wheres...)
	c.orders = append([]dialect.OrderClause(nil), b.orders...)
	if b.limit != nil {
		n := *b.limit
		c.limit = &n
	}
	if b.offset != nil {
		n := *b.offset
		c.offset = &n
	}
	if b.insert != nil {
		ins := *b.insert
		ins.Fields = append([]string(nil), ins.Fields...)
		ins.Values = append([]any(nil), ins.Values...)
		c.insert = &ins
	}
	if b.update != nil {
		upd := *b.update
		upd.Fields = append([]string(nil), upd.Fields...)
		upd.Values = append([]any(nil), upd.Values...)
		c.update = &upd
	}
	return &c
}

// When, condition doğruysa fn'i uygular.
func (b *Builder) When(condition bool, fn func(*Builder)) *Builder {
	if condition && b.err == nil {
		fn(b)
	}
	return b
}

// Unless, condition yanlışsa fn'i uygular.
func (b *Builder) Unless(condition bool, fn func(*Builder)) *Builder {
	return b.When(!condition, fn)
}

// ----------------------------------------------------------------------------
// Çalıştırma (bağlı Builder'lar için)
// ----------------------------------------------------------------------------

// runner, bağlı Builder'ları çalıştırır. *DB yazma ifadelerini kendi
// transaction'ında, *Transaction ise her şeyi açık transaction'ında çalıştırır.
type runner interface {
	Query(ctx context.Context, b *Builder) ([]Record, error)
	First(ctx context.Context, b *Builder) (Record, error)
	Get(ctx context.Context, b *Builder, dest any) error
	Exec(ctx context.Context, b *Builder) (*QueryResult, error)
}

// Query, SELECT ifadesini bağlı olduğu veritabanında çalıştırır.
func (b *Builder) Query(ctx context.Context) ([]Record, error) {
	if b.run == nil {
		return nil, ErrNoExecutor
	}
	return b.run.Query(ctx, b)
}

// First, LIMIT 1 ile ilk satırı döndürür.
func (b *Builder) First(ctx context.Context) (Record, error) {
	if b.run == nil {
		return nil, ErrNoExecutor
	}
	return b.run.First(ctx, b)
}

// Get, sonuçları dest'e (struct ya da struct slice pointer'ı) tarar.
func (b *Builder) Get(ctx context.Context, dest any) error {
	if b.run == nil {
		return ErrNoExecutor
	}
	return b.run.Get(ctx, b, dest)
}

// Exec, UPDATE ya da DELETE ifadesini bir transaction içinde çalıştırır.
func (b *Builder) Exec(ctx context.Context) (*QueryResult, error) {
	if b.run == nil {
		return nil, ErrNoExecutor
	}
	return b.run.Exec(ctx, b)
}

// ----------------------------------------------------------------------------
// dialect.QueryBuilder
// ----------------------------------------------------------------------------

func (b *Builder) GetColumns() []dialect.ColumnRef  { return b.columns }
func (b *Builder) GetTables() []dialect.TableRef    { return b.tables }
func (b *Builder) GetWheres() []dialect.WhereClause { return b.wheres }
func (b *Builder) GetOrders() []dialect.OrderClause { return b.orders }
func (b *Builder) GetLimit() *int                   { return b.limit }
func (b *Builder) GetOffset() *int                  { return b.offset }
func (b *Builder) GetInsert() *dialect.InsertClause { return b.insert }
func (b *Builder) GetUpdate() *dialect.UpdateClause { return b.update }
func (b *Builder) GetDelete() string                { return b.deleteTable }

var _ dialect.QueryBuilder = (*Builder)(nil)

// ----------------------------------------------------------------------------
// Argüman yardımcıları
// ----------------------------------------------------------------------------

func toColumnRef(v any) (dialect.ColumnRef, error) {
	switch c := v.(type) {
	case string:
		return parseColumn(c)
	case dialect.ColumnRef:
		return c, validateColumnRef(c)
	case []string:
		if len(c) != 2 {
			return dialect.ColumnRef{}, &ArgumentError{Op: "select", Reason: fmt.Sprintf("alias pair must have exactly 2 elements, got %d", len(c))}
		}
		ref := dialect.ColumnRef{Name: c[0], Alias: c[1]}
		return ref, validateColumnRef(ref)
	case [2]string:
		ref := dialect.ColumnRef{Name: c[0], Alias: c[1]}
		return ref, validateColumnRef(ref)
	case Raw:
		if strings.TrimSpace(c.SQL) == "" {
			return dialect.ColumnRef{}, &ArgumentError{Op: "select", Reason: "raw expression is empty"}
		}
		if len(c.Bindings) > 0 {
			return dialect.ColumnRef{}, &ArgumentError{Op: "select", Reason: "raw select expressions cannot carry bindings"}
		}
		return dialect.ColumnRef{Name: c.SQL}, nil
	default:
		return dialect.ColumnRef{}, &ArgumentError{Op: "select", Reason: fmt.Sprintf("unsupported column type %T", v)}
	}
}

// parseColumn, "col", "COUNT(*)", "*" ve bunların "... as alias" biçimlerini kabul eder.
func parseColumn(s string) (dialect.ColumnRef, error) {
	if i := strings.LastIndex(strings.ToLower(s), " as "); i > 0 {
		ref := dialect.ColumnRef{Name: strings.TrimSpace(s[:i]), Alias: strings.TrimSpace(s[i+4:])}
		return ref, validateColumnRef(ref)
	}
	ref := dialect.ColumnRef{Name: s}
	return ref, validateColumnRef(ref)
}

func validateColumnRef(ref dialect.ColumnRef) error {
	if err := validation.ValidateSelectable(ref.Name); err != nil {
		return validationErr(ref.Name, "column", err)
	}
	if ref.Alias != "" {
		if err := validation.ValidateIdentifier(ref.Alias); err != nil {
			return validationErr(ref.Alias, "alias", err)
		}
	}
	return nil
}

func toTableRef(v any) (dialect.TableRef, error) {
	switch t := v.(type) {
	case string:
		name, alias, err := validation.ValidateTableWithAlias(t)
		if err != nil {
			return dialect.TableRef{}, validationErr(t, "table", err)
		}
		return dialect.TableRef{Name: name, Alias: alias}, nil
	case dialect.TableRef:
		return t, validateTableRef(t)
	case []string:
		if len(t) != 2 {
			return dialect.TableRef{}, &ArgumentError{Op: "from", Reason: fmt.Sprintf("alias pair must have exactly 2 elements, got %d", len(t))}
		}
		ref := dialect.TableRef{Name: t[0], Alias: t[1]}
		return ref, validateTableRef(ref)
	case [2]string:
		ref := dialect.TableRef{Name: t[0], Alias: t[1]}
		return ref, validateTableRef(ref)
	default:
		return dialect.TableRef{}, &ArgumentError{Op: "from", Reason: fmt.Sprintf("unsupported table type %T", v)}
	}
}

func validateTableRef(ref dialect.TableRef) error {
	if err := validation.ValidateIdentifier(ref.Name); err != nil {
		return validationErr(ref.Name, "table", err)
	}
	if ref.Alias != "" {
		if err := validation.ValidateIdentifier(ref.Alias); err != nil {
			return validationErr(ref.Alias, "alias", err)
		}
	}
	return nil
}

// validateFields, alan adlarını doğrular; tekrarları ve otomatik yönetilen
// adları reddeder.
func validateFields(op string, fields []string, reserved ...string) error {
	seen := make(map[string]bool, len(fields)+len(reserved))
	for _, r := range reserved {
		seen[r] = true
	}
	for _, f := range fields {
		if err := validation.ValidateIdentifier(f); err != nil {
			return validationErr(f, "column", err)
		}
		key := strings.ToLower(f)
		if seen[key] {
			return &ArgumentError{Op: op, Reason: "field " + f + " is duplicated or managed automatically"}
		}
		seen[key] = true
	}
	return nil
}

func arityErr(op string, fields, values int) error {
	return fmt.Errorf("%w: %s has %d fields and %d values", ErrArityMismatch, op, fields, values)
}

// toSlice, slice ve dizileri []any'ye açar. []byte tekil değerdir (BLOB).
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return append([]any(nil), s...), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isNullLiteral(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.EqualFold(s, "NULL")
}

// validationErr, validation paketinin hatasını bağlamıyla ("table",
// "column", "operator") birlikte ValidationError'a çevirir.
func validationErr(value, context string, err error) error {
	var ie *validation.IdentifierError
	if errors.As(err, &ie) {
		return NewValidationError(ie.Identifier, context, ie.Reason)
	}
	var oe *validation.OperatorError
	if errors.As(err, &oe) {
		return NewValidationError(oe.Operator, context, oe.Reason)
	}
	return NewValidationError(value, context, err.Error())
}
