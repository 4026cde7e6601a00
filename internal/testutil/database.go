// Package testutil provides test helpers for setting up seeded spicecat databases.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	Categories map[CategoryName]model.Category
}

// SetupTestDB creates a new in-memory test database seeded with the given categories.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.FixtureInstitution...)
//	utilities := db.MustGetCategory(testutil.CategoryUtilities)
func SetupTestDB(t *testing.T, names ...CategoryName) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	cats := make(map[CategoryName]model.Category, len(names))
	for _, name := range names {
		cat, err := store.CreateCategory(ctx, name.String(), "")
		if err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
		cats[name] = *cat
	}

	return &TestDB{
		Storage:    store,
		Categories: cats,
		t:          t,
	}
}

// MustGetCategory returns the seeded category with the given name or fails the test.
func (db *TestDB) MustGetCategory(name CategoryName) model.Category {
	db.t.Helper()
	cat, ok := db.Categories[name]
	if !ok {
		db.t.Fatalf("category %q not found in test data", name)
	}
	return cat
}

// MustSeedExpenses stores expenses or fails the test.
func (db *TestDB) MustSeedExpenses(expenses ...model.Expense) {
	db.t.Helper()
	if _, err := db.Storage.SaveExpenses(context.Background(), expenses); err != nil {
		db.t.Fatalf("failed to seed expenses: %v", err)
	}
}

// AllCategories returns the registered categories as stored.
func (db *TestDB) AllCategories() []model.Category {
	db.t.Helper()
	cats, err := db.Storage.GetCategories(context.Background())
	if err != nil {
		db.t.Fatalf("failed to list categories: %v", err)
	}
	return cats
}
