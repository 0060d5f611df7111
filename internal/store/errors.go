package store

import "fmt"

// MutationError reports a rejected edit. A rejected edit leaves the
// working copy and the change log untouched.
type MutationError struct {
	// Code identifies the rejection category.
	Code MutationErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the logical table addressed by the edit.
	Table string

	// Column names the addressed column, when the edit got that far.
	Column string
}

// MutationErrorCode categorizes rejected edits.
type MutationErrorCode string

const (
	// ErrCodeNoData indicates no dataset has been loaded yet.
	ErrCodeNoData MutationErrorCode = "NO_DATA"

	// ErrCodeTableNotFound indicates an unknown logical table name.
	ErrCodeTableNotFound MutationErrorCode = "TABLE_NOT_FOUND"

	// ErrCodeColumnNotFound indicates the column is not in the table.
	ErrCodeColumnNotFound MutationErrorCode = "COLUMN_NOT_FOUND"

	// ErrCodeImmutableColumn indicates an attempt to edit the row id.
	ErrCodeImmutableColumn MutationErrorCode = "IMMUTABLE_COLUMN"

	// ErrCodeRowNotFound indicates no working row carries the given id.
	ErrCodeRowNotFound MutationErrorCode = "ROW_NOT_FOUND"

	// ErrCodeRowConflict indicates the row id matches more than one row.
	ErrCodeRowConflict MutationErrorCode = "ROW_CONFLICT"

	// ErrCodeValidationFailed indicates the value failed schema validation.
	ErrCodeValidationFailed MutationErrorCode = "VALIDATION_FAILED"
)

// Error implements the error interface.
func (e *MutationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s (table=%s, column=%s)", e.Code, e.Message, e.Table, e.Column)
	}
	if e.Table != "" {
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
