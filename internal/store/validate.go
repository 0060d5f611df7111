package store

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/table"
)

// Validate coerces a raw edit value according to the column's schema role
// and returns the value to store, or a validation error.
//
// Numeric and monetary columns are coerced to float64; monetary columns
// (and any field marked nonNegative) additionally reject negatives. Status
// columns must match the descriptor's enumerated legal values. Columns the
// descriptor does not know accept the raw value unchanged.
func Validate(desc *schema.Descriptor, tableName, column string, value any) (any, *MutationError) {
	field, ok := desc.Lookup(column)
	if !ok {
		return value, nil
	}

	switch field.Role {
	case schema.RoleNumeric, schema.RoleMonetary:
		f, ok := table.AsFloat(value)
		if !ok {
			return nil, &MutationError{
				Code:    ErrCodeValidationFailed,
				Message: fmt.Sprintf("%s must be numeric", column),
				Table:   tableName,
				Column:  column,
			}
		}
		if field.NonNegative && f < 0 {
			return nil, &MutationError{
				Code:    ErrCodeValidationFailed,
				Message: fmt.Sprintf("%s must be >= 0", column),
				Table:   tableName,
				Column:  column,
			}
		}
		return f, nil

	case schema.RoleStatus:
		s := table.AsString(value)
		for _, legal := range field.Enum {
			if s == legal {
				return s, nil
			}
		}
		return nil, &MutationError{
			Code: ErrCodeValidationFailed,
			Message: fmt.Sprintf("%s must be one of: %s",
				column, strings.Join(field.Enum, ", ")),
			Table:  tableName,
			Column: column,
		}

	default:
		return value, nil
	}
}
