package fluentsql

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

//
// =====================================================================================
// FLUENTSQL – SCANNER BİRİMİ
// -------------------------------------------------------------------------------------
// Sorgu sonuçlarını iki biçimde çağırana taşır:
//   1. Record: kolon adı → değer haritası. created_at / modified_at sayısal
//      zaman damgaları ISO-8601 UTC metnine çevrilir, "COUNT(" ile başlayan
//      kolonlar "count" anahtarıyla döner.
//   2. Struct: `db:"column"` tag'lerine göre eşleme; tip analizleri cache'lenir.
//
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// TimestampLayout is the format created_at and modified_at are rendered in.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Record is one result row keyed by column name.
type Record map[string]any

// String returns the value of key formatted as a string, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns the integer value of key, or 0.
func (r Record) Int64(key string) int64 {
	switch n := r[key].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Scanner, satırları Record'lara ya da struct'lara dönüştürür.
type Scanner interface {
	// ScanRecords reads every row into a Record.
	ScanRecords(rows *sql.Rows) ([]Record, error)

	// ScanStructs reads rows into dest, a pointer to a struct (first row
	// only) or a pointer to a slice of structs or struct pointers.
	ScanStructs(rows *sql.Rows, dest any) error
}

// DefaultScanner → Kütüphanenin standart tarama motorudur.
// Struct metadata bilgisi cache'de tutulur.
type DefaultScanner struct {
	cache sync.Map // reflect.Type → *structInfo
}

// NewDefaultScanner → Varsayılan scanner oluşturur.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{}
}

type structInfo struct {
	fields  []fieldInfo
	columns map[string]int // kolon adı → fields index
}

type fieldInfo struct {
	index []int
	name  string
}

var _ Scanner = (*DefaultScanner)(nil)

// ScanRecords implements Scanner. rows is closed on return.
func (s *DefaultScanner) ScanRecords(rows *sql.Rows) ([]Record, error) {
	if rows == nil {
		return nil, ErrNoRows
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapError("get columns", err)
	}

	records := make([]Record, 0)
	for rows.Next() {
		values, err := scanAny(rows, len(columns))
		if err != nil {
			return nil, err
		}
		records = append(records, MapRecord(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError("rows iteration", err)
	}
	return records, nil
}

// MapRecord builds a Record from one row.
func MapRecord(columns []string, values []any) Record {
	rec := make(Record, len(columns))
	for i, col := range columns {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = append([]byte(nil), b...)
		}
		switch {
		case col == ColumnCreatedAt || col == ColumnModifiedAt:
			v = formatTimestamp(v)
		case strings.HasPrefix(strings.ToUpper(col), "COUNT("):
			col = "count"
		}
		rec[col] = v
	}
	return rec
}

func formatTimestamp(v any) any {
	switch ts := v.(type) {
	case float64:
		return FromTimestamp(ts).Format(TimestampLayout)
	case int64:
		return time.Unix(ts, 0).UTC().Format(TimestampLayout)
	case time.Time:
		return ts.UTC().Format(TimestampLayout)
	default:
		return v
	}
}

func scanAny(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, WrapError("scan row", err)
	}
	return values, nil
}

// ScanStructs implements Scanner. rows is closed on return.
func (s *DefaultScanner) ScanStructs(rows *sql.Rows, dest any) error {
	if rows == nil {
		return ErrNoRows
	}
	defer rows.Close()

	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrNotAPointer
	}

	target := v.Elem()
	single := target.Kind() == reflect.Struct
	if !single && target.Kind() != reflect.Slice {
		return ErrNotASlice
	}

	elemType := target.Type()
	isPtr := false
	if !single {
		elemType = elemType.Elem()
		if elemType.Kind() == reflect.Ptr {
			isPtr = true
			elemType = elemType.Elem()
		}
		if elemType.Kind() != reflect.Struct {
			return ErrNotAStruct
		}
	}

	columns, err := rows.Columns()
	if err != nil {
		return WrapError("get columns", err)
	}

	info := s.getStructInfo(elemType)
	columnToField := make([]int, len(columns))
	for i, col := range columns {
		col = strings.ToLower(col)
		if strings.HasPrefix(col, "count(") {
			col = "count"
		}
		if idx, ok := info.columns[col]; ok {
			columnToField[i] = idx
		} else {
			columnToField[i] = -1
		}
	}

	found := false
	for rows.Next() {
		values, err := scanAny(rows, len(columns))
		if err != nil {
			return err
		}

		elemVal := reflect.New(elemType).Elem()
		for i, fieldIdx := range columnToField {
			if fieldIdx == -1 {
				continue
			}
			f := info.fields[fieldIdx]
			if err := assign(elemVal.FieldByIndex(f.index), values[i]); err != nil {
				return WrapError("scan "+columns[i], err)
			}
		}

		found = true
		if single {
			target.Set(elemVal)
			break
		}
		if isPtr {
			target.Set(reflect.Append(target, elemVal.Addr()))
		} else {
			target.Set(reflect.Append(target, elemVal))
		}
	}

	if err := rows.Err(); err != nil {
		return WrapError("rows iteration", err)
	}
	if single && !found {
		return ErrNoRows
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// assign stores a driver value into field, converting SQLite storage
// classes (epoch floats, 0/1 integers) to the field's Go type.
func assign(field reflect.Value, v any) error {
	if v == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), v); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	if field.Type() == timeType {
		switch t := v.(type) {
		case time.Time:
			field.Set(reflect.ValueOf(t.UTC()))
		case float64:
			field.Set(reflect.ValueOf(FromTimestamp(t)))
		case int64:
			field.Set(reflect.ValueOf(time.Unix(t, 0).UTC()))
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(parsed))
		default:
			return fmt.Errorf("cannot convert %T to time.Time", v)
		}
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		switch s := v.(type) {
		case string:
			field.SetString(s)
		case []byte:
			field.SetString(string(s))
		default:
			field.SetString(fmt.Sprint(v))
		}
		return nil
	case reflect.Bool:
		switch b := v.(type) {
		case bool:
			field.SetBool(b)
		case int64:
			field.SetBool(b != 0)
		default:
			return fmt.Errorf("cannot convert %T to bool", v)
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("cannot convert %T to %s", v, field.Type())
	}
	field.Set(rv.Convert(field.Type()))
	return nil
}

// getStructInfo → Struct metadata cache erişim fonksiyonu.
func (s *DefaultScanner) getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := s.cache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		fields:  make([]fieldInfo, 0),
		columns: make(map[string]int),
	}

	s.parseStruct(t, nil, info)
	s.cache.Store(t, info)

	return info
}

// parseStruct → Gömülü struct'lar dahil tüm alanları tarar.
func (s *DefaultScanner) parseStruct(t reflect.Type, index []int, info *structInfo) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldIndex := append(append([]int{}, index...), i)

		// Gömülü struct export edilmemiş olsa bile alanları terfi eder.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			s.parseStruct(field.Type, fieldIndex, info)
			continue
		}

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}

		name := strings.ToLower(field.Name)
		if tag != "" {
			name = strings.Split(tag, ",")[0]
		}

		info.columns[name] = len(info.fields)
		info.fields = append(info.fields, fieldInfo{index: fieldIndex, name: name})
	}
}
