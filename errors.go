package fluentsql

import (
	"errors"
	"fmt"

	"github.com/biyonik/go-fluent-sqlite/dialect"
)

// Sentinel errors for go-fluent-sqlite.
// These errors can be checked using errors.Is().
var (
	// ErrInvalidTransactionState is returned when a call conflicts with the
	// statement kind the builder is locked to, or WHERE is used where it is
	// not allowed.
	ErrInvalidTransactionState = errors.New("fluentsql: invalid transaction state")

	// ErrInvalidArgument is returned for malformed alias pairs, non-sequence
	// values where a sequence is required, non-positive limits and
	// unsupported argument types.
	ErrInvalidArgument = errors.New("fluentsql: invalid argument")

	// ErrArityMismatch is returned when insert/update fields and values differ in length.
	ErrArityMismatch = errors.New("fluentsql: fields and values differ in length")

	// ErrTypeMismatch is returned by type checking when a value does not match its column.
	ErrTypeMismatch = errors.New("fluentsql: value does not match column type")

	// ErrInvalidIdentifier is returned when a table or column name contains invalid characters.
	ErrInvalidIdentifier = errors.New("fluentsql: invalid SQL identifier")

	// ErrInvalidOperator is returned when an unsupported SQL operator is used.
	ErrInvalidOperator = errors.New("fluentsql: invalid SQL operator")

	// ErrNoColumns is returned when a table is created without columns.
	ErrNoColumns = errors.New("fluentsql: no columns specified")

	// ErrNoRows is returned when a query returns no rows.
	ErrNoRows = errors.New("fluentsql: no rows in result set")

	// ErrNoExecutor is returned when a detached builder is asked to run.
	ErrNoExecutor = errors.New("fluentsql: builder has no database")

	// ErrUnknownTable is returned by type checking for tables missing from the catalog.
	ErrUnknownTable = errors.New("fluentsql: table not found")

	// ErrTxAlreadyClosed is returned when trying to use a closed transaction.
	ErrTxAlreadyClosed = errors.New("fluentsql: transaction already closed")

	// ErrNotAPointer, ErrNotASlice and ErrNotAStruct describe bad scan destinations.
	ErrNotAPointer = errors.New("fluentsql: destination must be a non-nil pointer")
	ErrNotASlice   = errors.New("fluentsql: destination must point to a slice")
	ErrNotAStruct  = errors.New("fluentsql: destination must be a struct")
)

// StateError reports a call that is illegal for the builder's statement kind.
type StateError struct {
	Op   string
	Kind dialect.Kind
}

func (e *StateError) Error() string {
	return fmt.Sprintf("fluentsql: %s is not allowed on a %s statement", e.Op, e.Kind)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidTransactionState
}

// ArgumentError reports a rejected argument.
type ArgumentError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return "fluentsql: " + e.Op + ": " + e.Reason + ": " + e.Err.Error()
	}
	return "fluentsql: " + e.Op + ": " + e.Reason
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// QueryError wraps an execution failure with the statement that caused it.
type QueryError struct {
	Op    string
	Query string
	Args  []any
	Err   error
}

func (e *QueryError) Error() string {
	return "fluentsql: " + e.Op + " failed executing " + e.Query + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError with context.
func NewQueryError(op, query string, args []any, err error) *QueryError {
	return &QueryError{Op: op, Query: query, Args: args, Err: err}
}

// ValidationError represents an identifier or operator validation error.
type ValidationError struct {
	Identifier string
	Context    string
	Reason     string
}

func (e *ValidationError) Error() string {
	return "fluentsql: invalid " + e.Context + " '" + e.Identifier + "': " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return true
	case ErrInvalidIdentifier:
		return e.Context != "operator" && e.Context != "direction"
	case ErrInvalidOperator:
		return e.Context == "operator"
	}
	return false
}

// NewValidationError creates a new ValidationError.
func NewValidationError(identifier, context, reason string) *ValidationError {
	return &ValidationError{Identifier: identifier, Context: context, Reason: reason}
}

// TypeError reports an inserted value whose Go type does not match the
// column's declared SQL type.
type TypeError struct {
	Table  string
	Column string
	Want   string
	Got    string
}

func (e *TypeError) Error() string {
	if e.Want == "" {
		return "fluentsql: column " + e.Table + "." + e.Column + " does not exist"
	}
	return "fluentsql: column " + e.Table + "." + e.Column + " expects " + e.Want + ", got " + e.Got
}

func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// WrapError prefixes err with the failing operation, keeping it unwrappable.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fluentsql: %s: %w", op, err)
}
