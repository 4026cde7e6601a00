package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spicecat/internal/common"
	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/service"
)

// SaveExpenses inserts or updates expenses by ID. Category names are resolved
// case-insensitively; names that match no registered category are reported in
// the result and the expense is stored uncategorized.
func (s *SQLiteStorage) SaveExpenses(ctx context.Context, expenses []model.Expense) (service.SaveResult, error) {
	if err := validateContext(ctx); err != nil {
		return service.SaveResult{}, err
	}
	if err := validateExpenses(expenses); err != nil {
		return service.SaveResult{}, err
	}

	var result service.SaveResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result = service.SaveResult{}
		resolved := make(map[string]sql.NullString)
		unknown := make(map[string]bool)

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO expenses (id, description, notes, amount, expense_date, category_id, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				description = excluded.description,
				notes = excluded.notes,
				amount = excluded.amount,
				expense_date = excluded.expense_date,
				category_id = excluded.category_id,
				updated_at = excluded.updated_at`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		now := time.Now().UTC()
		for _, exp := range expenses {
			categoryID, err := resolveCategoryID(ctx, tx, exp.CategoryName, resolved)
			if err != nil {
				return err
			}
			if !categoryID.Valid && strings.TrimSpace(exp.CategoryName) != "" {
				name := strings.TrimSpace(exp.CategoryName)
				if !unknown[strings.ToLower(name)] {
					unknown[strings.ToLower(name)] = true
					result.UnknownCategories = append(result.UnknownCategories, name)
				}
			}

			_, err = stmt.ExecContext(ctx,
				exp.ID, exp.Description, exp.Notes, exp.Amount,
				nullableDate(exp.ExpenseDate), categoryID, now)
			if err != nil {
				return fmt.Errorf("failed to save expense %s: %w", exp.ID, err)
			}
			result.Saved++
		}
		return nil
	})
	if err != nil {
		return service.SaveResult{}, err
	}

	slog.Info("saved expenses", "count", result.Saved, "unknown_categories", len(result.UnknownCategories))
	return result, nil
}

func resolveCategoryID(ctx context.Context, q queryable, name string, resolved map[string]sql.NullString) (sql.NullString, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sql.NullString{}, nil
	}
	key := strings.ToLower(name)
	if id, ok := resolved[key]; ok {
		return id, nil
	}

	cat, err := getCategoryByName(ctx, q, name)
	switch {
	case errors.Is(err, common.ErrNotFound):
		resolved[key] = sql.NullString{}
	case err != nil:
		return sql.NullString{}, err
	default:
		resolved[key] = sql.NullString{String: cat.ID, Valid: true}
	}
	return resolved[key], nil
}

func nullableDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

const expenseColumns = `
	SELECT e.id, e.description, e.notes, e.amount, e.expense_date, COALESCE(c.name, '')
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id`

// GetExpenses returns expenses in the order they were first stored.
func (s *SQLiteStorage) GetExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)
	if name := strings.TrimSpace(filter.CategoryName); name != "" {
		conditions = append(conditions, "c.name = ? COLLATE NOCASE")
		args = append(args, name)
	}
	if filter.Uncategorized {
		conditions = append(conditions, "e.category_id IS NULL")
	}

	query := expenseColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.rowid"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("retrieved expenses", "count", len(expenses), "category", filter.CategoryName)
	return expenses, nil
}

// GetExpense returns one expense by ID or common.ErrNotFound.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, expenseColumns+" WHERE e.id = ?", id)
	exp, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %q: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (model.Expense, error) {
	var (
		exp  model.Expense
		date sql.NullTime
	)
	if err := row.Scan(&exp.ID, &exp.Description, &exp.Notes, &exp.Amount, &date, &exp.CategoryName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return exp, err
		}
		return exp, fmt.Errorf("failed to scan expense: %w", err)
	}
	if date.Valid {
		exp.ExpenseDate = date.Time
	}
	return exp, nil
}

// UpdateExpenseCategory moves a single expense to categoryID.
func (s *SQLiteStorage) UpdateExpenseCategory(ctx context.Context, expenseID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(expenseID, "expenseID"); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return updateExpenseCategory(ctx, tx, expenseID, categoryID)
	})
}

func updateExpenseCategory(ctx context.Context, q queryable, expenseID, categoryID string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE expenses SET category_id = ?, updated_at = ? WHERE id = ?`,
		categoryID, time.Now().UTC(), expenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expenseID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %q: %w", expenseID, common.ErrNotFound)
	}
	return nil
}

// ApplyReclassifications writes a batch of category changes in one transaction.
// Either every change lands or none do. onApplied, when non-nil, is called for
// each change after the transaction commits.
func (s *SQLiteStorage) ApplyReclassifications(ctx context.Context, changes []model.Reclassification, onApplied func(model.Reclassification)) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateReclassifications(changes); err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, change := range changes {
			if err := updateExpenseCategory(ctx, tx, change.ExpenseID, change.ToCategoryID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if onApplied != nil {
		for _, change := range changes {
			onApplied(change)
		}
	}

	slog.Info("applied reclassifications", "count", len(changes))
	return len(changes), nil
}
