package suggest

import (
	"testing"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/Veraticus/spicecat/internal/model"
	"github.com/stretchr/testify/require"
)

// testCatalog is small enough that every expected score in this package can be
// worked out by hand. Library is deliberately never registered.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New([]catalog.CategoryPattern{
		{Name: "Utilities", Weight: 1.2, Keywords: []string{"electricity bill", "water bill"}},
		{Name: "Stationery", Weight: 1.0, Keywords: []string{"attendance register", "pens", "chalk"}},
		{Name: "Food", Weight: 1.0, Keywords: []string{"lunch", "restaurant meal"}},
		{Name: "Travel", Weight: 1.0, Keywords: []string{"taxi", "bus fare"}},
		{Name: "Library", Weight: 1.0, Keywords: []string{"library books"}},
	})
	require.NoError(t, err)
	return cat
}

func testCategories() []model.Category {
	return []model.Category{
		{ID: "u1", Name: "Utilities", Color: "#F1C40F"},
		{ID: "s1", Name: "Stationery", Color: "#3498DB"},
		{ID: "f1", Name: "Food", Color: "#E67E22"},
		{ID: "t1", Name: "Travel", Color: "#1ABC9C"},
		{ID: "m1", Name: "Miscellaneous", Color: "#95A5A6"},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e := NewEngine(testCatalog(t), opts...)
	e.SetCategories(testCategories())
	return e
}

func suggestionNames(suggestions []model.Suggestion) []string {
	names := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		names = append(names, s.CategoryName)
	}
	return names
}
