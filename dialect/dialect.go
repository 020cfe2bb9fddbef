// Package dialect, Builder'ın biriktirdiği cümle parçalarını (clause) SQL metnine
// ve bağlı parametre listesine çeviren gramer katmanıdır.
//
// Builder hiçbir zaman string şablonu üzerinde arama/değiştirme yapmaz; her
// çağrı burada tanımlanan değer tiplerinden birini listeye ekler ve metin
// yalnızca derleme (Compile*) anında birleştirilir.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
package dialect

import "github.com/biyonik/go-fluent-sqlite/schema"

// ----------------------------------------------------------------------------
// İfade türü (Kind)
// ----------------------------------------------------------------------------

// Kind, Builder'ın kilitlendiği ifade türüdür.
type Kind int

const (
	KindUnset Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
)

// String, türün SQL anahtar kelimesini döndürür; tür yoksa "UNSET".
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "SELECT"
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	case KindDelete:
		return "DELETE"
	default:
		return "UNSET"
	}
}

// AllowsWhere, bu türde WHERE kullanılıp kullanılamayacağını bildirir.
func (k Kind) AllowsWhere() bool {
	return k == KindSelect || k == KindUpdate || k == KindDelete
}

// ----------------------------------------------------------------------------
// QueryBuilder Interface (import döngüsünü kırmak için)
// ----------------------------------------------------------------------------

// QueryBuilder, gramerin derleme sırasında ihtiyaç duyduğu okuma arayüzüdür.
type QueryBuilder interface {
	Kind() Kind
	GetColumns() []ColumnRef
	GetTables() []TableRef
	GetWheres() []WhereClause
	GetOrders() []OrderClause
	GetLimit() *int
	GetOffset() *int
	GetInsert() *InsertClause
	GetUpdate() *UpdateClause
	GetDelete() string
}

// ----------------------------------------------------------------------------
// Grammar Interface
// ----------------------------------------------------------------------------

// Grammar, Builder durumunu SQL metnine ve bağlı parametrelere derler. Her
// ifade ";" ile biter ve yalnızca "?" yer tutucusu kullanır.
type Grammar interface {
	// Name, dialect adını döndürür (ör. "sqlite").
	Name() string

	// Placeholder, konumsal parametre işaretini döndürür.
	Placeholder() string

	// Compile, b.Kind()'a göre dallanır; UNSET, SELECT olarak derlenir.
	Compile(b QueryBuilder) (string, []any, error)

	// CompileSelect, "{select} {from} {where} {order} {limit};" üretir.
	CompileSelect(b QueryBuilder) (string, []any, error)

	// CompileSubquery, parantez içine gömülebilmesi için SELECT'i ";"
	// olmadan üretir.
	CompileSubquery(b QueryBuilder) (string, []any, error)

	// SelectFragments, boş olmayan SELECT parçalarını sırasıyla döndürür.
	SelectFragments(b QueryBuilder) ([]Fragment, []any, error)

	// CompileInsert, "INSERT INTO t(f1, f2) VALUES (?,?);" üretir.
	CompileInsert(b QueryBuilder) (string, []any, error)

	// CompileUpdate, "UPDATE t SET f1=?, f2=? {where};" üretir.
	CompileUpdate(b QueryBuilder) (string, []any, error)

	// CompileDelete, "DELETE FROM t {where};" üretir.
	CompileDelete(b QueryBuilder) (string, []any, error)

	// CompileCreateTable, tam kolon listesinden CREATE TABLE üretir; kendisi
	// kolon eklemez.
	CompileCreateTable(name string, columns []schema.Column, ifNotExists bool) (string, error)
}

// Fragment, derlenmiş tek bir cümle parçasıdır: baştaki anahtar kelime ve
// gövde ayrı tutulur, renklendirme yalnızca anahtar kelimeye uygulanır.
type Fragment struct {
	Keyword string
	Body    string
}

// Text, anahtar kelime ile gövdeyi birleştirir.
func (f Fragment) Text() string {
	if f.Body == "" {
		return f.Keyword
	}
	return f.Keyword + " " + f.Body
}

// ----------------------------------------------------------------------------
// SELECT / FROM listeleri
// ----------------------------------------------------------------------------

// ColumnRef, SELECT listesindeki bir girdidir: kolon adı, alias'lı kolon ya
// da COUNT(*) gibi bir ifade.
type ColumnRef struct {
	Name  string
	Alias string
}

// TableRef, FROM listesindeki bir tablodur.
type TableRef struct {
	Name  string
	Alias string
}

// ----------------------------------------------------------------------------
// WHERE Clause Types
// ----------------------------------------------------------------------------

// WhereType, WHERE koşulunun türünü belirtir.
type WhereType int

const (
	WhereTypeBasic WhereType = iota
	WhereTypeIn
	WhereTypeNull
	WhereTypeNotNull
	WhereTypeSubquery
	WhereTypeRaw
)

func (t WhereType) String() string {
	names := [...]string{"Basic", "In", "Null", "NotNull", "Subquery", "Raw"}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// WhereBoolean, AND veya OR bağlacını belirtir.
type WhereBoolean int

const (
	WhereBooleanAnd WhereBoolean = iota
	WhereBooleanOr
)

func (b WhereBoolean) String() string {
	if b == WhereBooleanOr {
		return "OR"
	}
	return "AND"
}

// WhereClause, tek bir WHERE koşulunu temsil eder.
//
// WhereTypeSubquery ve WhereTypeRaw için sağ taraf Raw alanındadır (alt
// sorgu parantez içinde gelir); parametreleri koşul eklendiği anda
// Bindings'e kopyalanır.
type WhereClause struct {
	Type     WhereType
	Boolean  WhereBoolean
	Column   string
	Operator string
	Value    any
	Values   []any
	Raw      string
	Bindings []any
}

// Args, koşulun katkıda bulunduğu parametreleri yer tutucu sırasıyla döndürür.
func (w WhereClause) Args() []any {
	switch w.Type {
	case WhereTypeBasic:
		return []any{w.Value}
	case WhereTypeIn:
		return w.Values
	case WhereTypeSubquery, WhereTypeRaw:
		return w.Bindings
	default:
		return nil
	}
}

// ----------------------------------------------------------------------------
// ORDER BY Types
// ----------------------------------------------------------------------------

// OrderDirection, sıralama yönünü belirtir.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// IsValid, yönün geçerli olup olmadığını kontrol eder.
func (d OrderDirection) IsValid() bool {
	return d == OrderAsc || d == OrderDesc
}

// OrderClause, ORDER BY ifadesini temsil eder.
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// Asc ve Desc, OrderByMany için sıralama terimleri üretir.
func Asc(column string) OrderClause  { return OrderClause{Column: column, Direction: OrderAsc} }
func Desc(column string) OrderClause { return OrderClause{Column: column, Direction: OrderDesc} }

// ----------------------------------------------------------------------------
// Yazma ifadeleri
// ----------------------------------------------------------------------------

// InsertClause, otomatik yönetilen alanlar dahil tüm alan listesini tutar.
type InsertClause struct {
	Table  string
	Fields []string
	Values []any
}

// UpdateClause, SET listesini sırasıyla tutar.
type UpdateClause struct {
	Table  string
	Fields []string
	Values []any
}

// ----------------------------------------------------------------------------
// Sentinel Errors (dialect-specific)
// ----------------------------------------------------------------------------

var (
	ErrNoTable       = &DialectError{Message: "no table specified"}
	ErrNoColumns     = &DialectError{Message: "no columns specified"}
	ErrNoStatement   = &DialectError{Message: "statement body has not been built"}
	ErrUnknownWhere  = &DialectError{Message: "unknown where clause type"}
	ErrEmptyWhereIn  = &DialectError{Message: "empty slice passed to WhereIn"}
	ErrFieldMismatch = &DialectError{Message: "fields and values differ in length"}
)

// DialectError, dialect'e özgü hataları temsil eder.
type DialectError struct {
	Message string
}

func (e *DialectError) Error() string {
	return "dialect: " + e.Message
}
