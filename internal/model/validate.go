package model

import (
	"errors"
	"fmt"
)

// ValidationError represents a structural defect in a QueryModel.
//
// Validation errors are model problems, not dialect problems: the
// caller's remedy is to fix the model, never to switch policies.
type ValidationError struct {
	// Code identifies the defect category.
	Code ValidationErrorCode

	// Message is a human-readable description.
	Message string

	// Table and Alias identify the offending construct when one table
	// reference is at fault.
	Table string
	Alias string
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode string

const (
	// ErrCodeNoSelections indicates the model projects nothing.
	ErrCodeNoSelections ValidationErrorCode = "NO_SELECTIONS"

	// ErrCodeNoTables indicates the model references no tables.
	ErrCodeNoTables ValidationErrorCode = "NO_TABLES"

	// ErrCodeDuplicateAlias indicates two tables share an alias.
	ErrCodeDuplicateAlias ValidationErrorCode = "DUPLICATE_ALIAS"

	// ErrCodeUnknownJoinTable indicates a join endpoint that does not
	// resolve to any table in the model.
	ErrCodeUnknownJoinTable ValidationErrorCode = "UNKNOWN_JOIN_TABLE"

	// ErrCodeDuplicateJoinEdge indicates two edges over the same
	// unordered table pair.
	ErrCodeDuplicateJoinEdge ValidationErrorCode = "DUPLICATE_JOIN_EDGE"

	// ErrCodeEmptyPredicate indicates a join edge with no condition.
	ErrCodeEmptyPredicate ValidationErrorCode = "EMPTY_JOIN_PREDICATE"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError returns true if err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the structural invariants of a QueryModel:
//
//  1. At least one selection and one table.
//  2. Table aliases are unique (empty aliases are exempt; such tables
//     are identified by name, which must then be unique).
//  3. Every join endpoint resolves to a table present in the model.
//  4. At most one edge per unordered table pair.
//  5. Every join edge carries a predicate.
//
// Validate is read-only and returns the first defect found.
func Validate(m *QueryModel) error {
	if m == nil {
		return &ValidationError{Code: ErrCodeNoTables, Message: "nil model"}
	}
	if len(m.Selections) == 0 {
		return &ValidationError{Code: ErrCodeNoSelections, Message: "model selects no expressions"}
	}
	if len(m.Tables) == 0 {
		return &ValidationError{Code: ErrCodeNoTables, Message: "model references no tables"}
	}

	// Identity is the rendered "name alias" pair.
	seen := make(map[string]bool, len(m.Tables))
	for _, t := range m.Tables {
		ref := t.Ref()
		if seen[ref] {
			return &ValidationError{
				Code:    ErrCodeDuplicateAlias,
				Message: "duplicate table reference",
				Table:   t.Name,
				Alias:   t.Alias,
			}
		}
		seen[ref] = true
	}

	pairs := make(map[string]bool, len(m.Joins))
	for _, j := range m.Joins {
		for _, end := range []TableRef{j.Left, j.Right} {
			if !seen[end.Ref()] {
				return &ValidationError{
					Code:    ErrCodeUnknownJoinTable,
					Message: "join endpoint not present in model tables",
					Table:   end.Name,
					Alias:   end.Alias,
				}
			}
		}
		if j.Predicate == "" {
			return &ValidationError{
				Code:    ErrCodeEmptyPredicate,
				Message: fmt.Sprintf("join %s / %s has no predicate", j.Left.Ref(), j.Right.Ref()),
			}
		}
		key := pairKey(j.Left.Ref(), j.Right.Ref())
		if pairs[key] {
			return &ValidationError{
				Code:    ErrCodeDuplicateJoinEdge,
				Message: fmt.Sprintf("multiple join edges between %s and %s", j.Left.Ref(), j.Right.Ref()),
				Table:   j.Left.Name,
				Alias:   j.Left.Alias,
			}
		}
		pairs[key] = true
	}

	return nil
}

// pairKey builds an orientation-independent key for an unordered table
// pair. The null separator avoids boundary ambiguity between refs.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
