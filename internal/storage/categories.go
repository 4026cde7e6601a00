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
	"github.com/google/uuid"
)

// GetCategories returns all registered categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, color, created_at
		FROM categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	s.cacheMutex.Lock()
	for _, cat := range categories {
		s.categoryCache[strings.ToLower(cat.Name)] = cat
	}
	s.cacheMutex.Unlock()

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a category by its name, compared case-insensitively.
// It returns common.ErrNotFound when no category matches.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(name))
	s.cacheMutex.RLock()
	cached, ok := s.categoryCache[key]
	s.cacheMutex.RUnlock()
	if ok {
		return &cached, nil
	}

	cat, err := getCategoryByName(ctx, s.db, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	s.cacheMutex.Lock()
	s.categoryCache[key] = *cat
	s.cacheMutex.Unlock()
	return cat, nil
}

func getCategoryByName(ctx context.Context, q queryable, name string) (*model.Category, error) {
	query := `
		SELECT id, name, color, created_at
		FROM categories
		WHERE name = ? COLLATE NOCASE`

	var cat model.Category
	err := q.QueryRowContext(ctx, query, name).Scan(&cat.ID, &cat.Name, &cat.Color, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// CreateCategory registers a new category. An empty color falls back to
// model.DefaultCategoryColor. Names are unique regardless of case.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name, color string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidCategory)
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = model.DefaultCategoryColor
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	cat := model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getCategoryByName(ctx, tx, name); err == nil {
			return fmt.Errorf("category %q: %w", name, common.ErrDuplicateEntry)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
			cat.ID, cat.Name, cat.Color, cat.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cacheMutex.Lock()
	s.categoryCache[strings.ToLower(cat.Name)] = cat
	s.cacheMutex.Unlock()

	slog.Info("created category", "name", cat.Name, "id", cat.ID)
	return &cat, nil
}
