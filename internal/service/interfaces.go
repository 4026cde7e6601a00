// Package service defines the interfaces shared between the command layer and storage.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spicecat/internal/model"
)

// ExpenseFilter narrows expense queries.
type ExpenseFilter struct {
	// CategoryName matches the current category case-insensitively. Empty means any.
	CategoryName string
	// Uncategorized restricts results to expenses without a category.
	Uncategorized bool
	Limit         int
}

// SaveResult reports the outcome of an expense import.
type SaveResult struct {
	// UnknownCategories lists category names that matched no registered category;
	// those expenses were stored uncategorized.
	UnknownCategories []string
	Saved             int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name, color string) (*model.Category, error)

	// Expense operations
	SaveExpenses(ctx context.Context, expenses []model.Expense) (SaveResult, error)
	GetExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	UpdateExpenseCategory(ctx context.Context, expenseID, categoryID string) error
	ApplyReclassifications(ctx context.Context, changes []model.Reclassification, onApplied func(model.Reclassification)) (int, error)

	// Blob operations back the learned-pattern store.
	GetBlob(ctx context.Context, key string) (string, bool, error)
	PutBlob(ctx context.Context, key, value string) error
	DeleteBlob(ctx context.Context, key string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
