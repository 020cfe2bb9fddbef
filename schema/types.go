package schema

import (
	"reflect"
	"strings"
)

// Class is the Go value class a declared SQL type maps to.
type Class int

const (
	ClassUnknown Class = iota
	ClassString
	ClassInteger
	ClassFloat
	ClassBoolean
)

func (c Class) String() string {
	switch c {
	case ClassString:
		return "string"
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// classTable is fixed; existing databases depend on these exact mappings.
var classTable = map[string]Class{
	"varchar":           ClassString,
	"text":              ClassString,
	"character":         ClassString,
	"clob":              ClassString,
	"nvarchar":          ClassString,
	"native character":  ClassString,
	"nchar":             ClassString,
	"varying character": ClassString,
	"blob":              ClassString,
	"numeric":           ClassString,
	"decimal":           ClassString,
	"date":              ClassString,
	"datetime":          ClassString,

	"int":              ClassInteger,
	"integer":          ClassInteger,
	"tinyint":          ClassInteger,
	"smallint":         ClassInteger,
	"mediumint":        ClassInteger,
	"bigint":           ClassInteger,
	"unsigned big int": ClassInteger,
	"int2":             ClassInteger,
	"int8":             ClassInteger,

	"real":             ClassFloat,
	"double":           ClassFloat,
	"double precision": ClassFloat,
	"float":            ClassFloat,

	"boolean": ClassBoolean,
}

// Classify maps a declared SQL type such as "VARCHAR(255)" to its class.
// The size suffix is ignored and matching is case-insensitive.
func Classify(declType string) Class {
	t := strings.ToLower(declType)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return classTable[strings.TrimSpace(t)]
}

// ClassOf returns the class of a Go value. nil and unsupported kinds are
// ClassUnknown.
func ClassOf(v any) Class {
	if v == nil {
		return ClassUnknown
	}
	if _, ok := v.([]byte); ok {
		return ClassString
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return ClassString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ClassInteger
	case reflect.Float32, reflect.Float64:
		return ClassFloat
	case reflect.Bool:
		return ClassBoolean
	default:
		return ClassUnknown
	}
}
