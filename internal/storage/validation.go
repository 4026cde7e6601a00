// Package storage provides the data persistence layer for the spicecat application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spicecat/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidExpense     = errors.New("invalid expense")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidReclassPlan = errors.New("invalid reclassification")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpenses validates a slice of expenses. An empty slice is allowed.
func validateExpenses(expenses []model.Expense) error {
	if expenses == nil {
		return fmt.Errorf("%w: expenses", ErrNilParameter)
	}

	seen := make(map[string]int, len(expenses))
	for i := range expenses {
		if err := validateExpense(&expenses[i]); err != nil {
			return fmt.Errorf("expense at index %d: %w", i, err)
		}
		if first, dup := seen[expenses[i].ID]; dup {
			return fmt.Errorf("expense at index %d: %w: id %q repeats index %d", i, ErrInvalidExpense, expenses[i].ID, first)
		}
		seen[expenses[i].ID] = i
	}
	return nil
}

// validateExpense validates a single expense.
func validateExpense(exp *model.Expense) error {
	if exp == nil {
		return fmt.Errorf("%w: expense is nil", ErrNilParameter)
	}
	if strings.TrimSpace(exp.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidExpense)
	}
	if strings.TrimSpace(exp.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidExpense)
	}
	return nil
}

// validateColor accepts #RGB or #RRGGBB hex colors.
func validateColor(color string) error {
	if len(color) != 4 && len(color) != 7 {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	if color[0] != '#' {
		return fmt.Errorf("%w: %q must start with #", ErrInvalidColor, color)
	}
	for _, r := range color[1:] {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return fmt.Errorf("%w: %q", ErrInvalidColor, color)
		}
	}
	return nil
}

// validateReclassifications checks a write-back batch before any row is touched.
func validateReclassifications(changes []model.Reclassification) error {
	for i, c := range changes {
		if strings.TrimSpace(c.ExpenseID) == "" {
			return fmt.Errorf("%w at index %d: missing expense ID", ErrInvalidReclassPlan, i)
		}
		if strings.TrimSpace(c.ToCategoryID) == "" {
			return fmt.Errorf("%w at index %d: missing target category ID", ErrInvalidReclassPlan, i)
		}
	}
	return nil
}
