// Package validation, WHERE koşullarında kullanılan operatörleri ve sıralama
// yönlerini beyaz listeye göre denetler.
package validation

import (
	"sort"
	"strings"
)

// allowedOperators is the closed set of comparison operators the builder
// renders. Anything else is rejected before it reaches the SQL text.
var allowedOperators = map[string]bool{
	"=":      true,
	"<>":     true,
	"<":      true,
	">":      true,
	"<=":     true,
	">=":     true,
	"LIKE":   true,
	"IS":     true,
	"IS NOT": true,
	"IN":     true,
	"NOT IN": true,
}

// NormalizeOperator upper-cases op, collapses inner whitespace and checks it
// against the whitelist.
func NormalizeOperator(op string) (string, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	if !allowedOperators[normalized] {
		return "", &OperatorError{Operator: op, Reason: "operator not in allowed list: " + strings.Join(AllowedOperators(), ", ")}
	}
	return normalized, nil
}

// IsSetOperator reports whether op takes a parenthesised list (IN / NOT IN).
func IsSetOperator(op string) bool {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	return normalized == "IN" || normalized == "NOT IN"
}

// IsNullOperator reports whether op is IS or IS NOT.
func IsNullOperator(op string) bool {
	normalized := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	return normalized == "IS" || normalized == "IS NOT"
}

// AllowedOperators returns the whitelist in sorted order.
func AllowedOperators() []string {
	ops := make([]string, 0, len(allowedOperators))
	for op := range allowedOperators {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// NormalizeDirection accepts ASC or DESC in any case.
func NormalizeDirection(dir string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(dir))
	if normalized != "ASC" && normalized != "DESC" {
		return "", &OperatorError{Operator: dir, Reason: "sort direction must be ASC or DESC"}
	}
	return normalized, nil
}

// OperatorError describes a rejected operator or sort direction.
type OperatorError struct {
	Operator string
	Reason   string
}

func (e *OperatorError) Error() string {
	return "fluentsql: invalid operator '" + e.Operator + "': " + e.Reason
}
