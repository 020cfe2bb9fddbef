// Package validation, sorgu oluşturucunun kabul ettiği tablo, kolon ve alias
// isimlerini doğrulayan dahili yardımcıları içerir. Builder kullanıcıdan gelen
// her tanımlayıcıyı SQL metnine yazmadan önce buradan geçirir; değerler ise
// her zaman "?" yer tutucusu ile ayrı taşınır.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
package validation

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength is the longest table, column or alias name accepted.
const MaxIdentifierLength = 128

// identifierRegex matches plain identifiers and one level of table.column.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// aliasRegex matches "table as alias" and "table alias".
var aliasRegex = regexp.MustCompile(`(?i)^([a-zA-Z_][a-zA-Z0-9_]*)\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)$`)

// expressionRegex matches the small set of expressions allowed in a select
// list without quoting: aggregate calls such as COUNT(*) or MAX(t.created_at).
var expressionRegex = regexp.MustCompile(`(?i)^(count|sum|avg|min|max)\(\s*(\*|[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?)\s*\)$`)

var reservedWords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"insert": true, "update": true, "delete": true, "into": true, "values": true,
	"set": true, "order": true, "by": true, "asc": true, "desc": true,
	"limit": true, "offset": true, "join": true, "left": true, "right": true,
	"inner": true, "outer": true, "on": true, "as": true, "in": true,
	"between": true, "like": true, "is": true, "null": true, "not": true,
	"group": true, "having": true, "distinct": true, "union": true,
	"create": true, "drop": true, "alter": true, "table": true, "index": true,
	"primary": true, "key": true, "foreign": true, "references": true,
	"default": true, "constraint": true, "unique": true, "check": true,
	"autoincrement": true, "exists": true, "if": true, "pragma": true,
}

// ValidateIdentifier reports whether id is usable as a bare table or column
// name. SQL keywords are rejected because the grammar writes names unquoted.
func ValidateIdentifier(id string) error {
	if err := ValidateName(id); err != nil {
		return err
	}
	for _, part := range strings.Split(id, ".") {
		if IsReservedWord(part) {
			return &IdentifierError{Identifier: id, Reason: "'" + part + "' is a reserved SQL keyword"}
		}
	}
	return nil
}

// ValidateName checks only the shape of id: length and characters. Names
// read back from the database go through here and are quoted by the caller.
func ValidateName(id string) error {
	if id == "" {
		return &IdentifierError{Identifier: id, Reason: "identifier cannot be empty"}
	}
	if len(id) > MaxIdentifierLength {
		return &IdentifierError{Identifier: id, Reason: "identifier exceeds maximum length of 128 characters"}
	}
	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and dots are allowed",
		}
	}
	return nil
}

// ValidateSelectable accepts everything ValidateIdentifier accepts plus "*"
// and simple aggregate calls.
func ValidateSelectable(expr string) error {
	if expr == "*" || expressionRegex.MatchString(expr) {
		return nil
	}
	return ValidateIdentifier(expr)
}

// IsExpression reports whether expr is an aggregate call rather than a name.
func IsExpression(expr string) bool {
	return expressionRegex.MatchString(expr)
}

// ValidateTableWithAlias splits and validates "table", "table alias" and
// "table as alias".
func ValidateTableWithAlias(table string) (name, alias string, err error) {
	if table == "" {
		return "", "", &IdentifierError{Identifier: table, Reason: "table name cannot be empty"}
	}

	if matches := aliasRegex.FindStringSubmatch(table); matches != nil {
		name, alias = matches[1], matches[2]
		if err := ValidateIdentifier(name); err != nil {
			return "", "", err
		}
		if err := ValidateIdentifier(alias); err != nil {
			return "", "", &IdentifierError{Identifier: alias, Reason: "invalid alias: " + err.Error()}
		}
		return name, alias, nil
	}

	if err := ValidateIdentifier(table); err != nil {
		return "", "", err
	}
	return table, "", nil
}

// ValidateColumnType checks a declared SQL type such as "int" or
// "varchar(255)". Only letters, digits, spaces, commas and one pair of
// parentheses are allowed.
func ValidateColumnType(typ string) error {
	if strings.TrimSpace(typ) == "" {
		return &IdentifierError{Identifier: typ, Reason: "column type cannot be empty"}
	}
	if !columnTypeRegex.MatchString(typ) {
		return &IdentifierError{Identifier: typ, Reason: "column type contains invalid characters"}
	}
	return nil
}

var columnTypeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9 ]*(\(\s*[0-9]+\s*(,\s*[0-9]+\s*)?\))?$`)

// IsReservedWord reports whether id is an SQL keyword.
func IsReservedWord(id string) bool {
	return reservedWords[strings.ToLower(id)]
}

// IdentifierError describes a rejected identifier.
type IdentifierError struct {
	Identifier string
	Reason     string
}

func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "fluentsql: invalid identifier: " + e.Reason
	}
	return "fluentsql: invalid identifier '" + e.Identifier + "': " + e.Reason
}
