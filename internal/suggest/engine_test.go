package suggest

import (
	"sync"
	"testing"

	"github.com/Veraticus/spicecat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Suggest_SinglePhraseMatch(t *testing.T) {
	e := newTestEngine(t)

	got := e.Suggest("Paid electricity bill for March", "", 0)

	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].CategoryID)
	assert.Equal(t, "Utilities", got[0].CategoryName)
	assert.Equal(t, "#F1C40F", got[0].Color)
	assert.InDelta(t, 3.6, got[0].Score, 1e-9)
	assert.InDelta(t, 0.36, got[0].Confidence, 1e-9)
	assert.Equal(t, model.ConfidenceLow, got[0].Label)
}

func TestEngine_Suggest(t *testing.T) {
	tests := []struct {
		name        string
		description string
		notes       string
		limit       int
		wantNames   []string
		wantScores  []float64
	}{
		{
			name:        "empty input",
			description: "",
			notes:       "",
			wantNames:   []string{},
		},
		{
			name:        "single character",
			description: " a ",
			wantNames:   []string{},
		},
		{
			name:        "notes are scored with the description",
			description: "Monthly payment",
			notes:       "water bill",
			wantNames:   []string{"Utilities"},
			wantScores:  []float64{3.6},
		},
		{
			name:        "bonus applies per category independently",
			description: "pens and chalk for taxi ride",
			wantNames:   []string{"Stationery", "Travel"},
			wantScores:  []float64{7.2, 3.0},
		},
		{
			name:        "ties keep catalog order",
			description: "taxi lunch",
			wantNames:   []string{"Food", "Travel"},
			wantScores:  []float64{3.0, 3.0},
		},
		{
			name:        "limit truncates",
			description: "taxi lunch",
			limit:       1,
			wantNames:   []string{"Food"},
			wantScores:  []float64{3.0},
		},
		{
			name:        "unregistered catalog category is dropped",
			description: "library books issued",
			wantNames:   []string{},
		},
		{
			name:        "no keyword matches",
			description: "random stuff",
			wantNames:   []string{},
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Suggest(tt.description, tt.notes, tt.limit)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantNames, suggestionNames(got))
			for i, want := range tt.wantScores {
				assert.InDelta(t, want, got[i].Score, 1e-9)
			}
		})
	}
}

func TestEngine_Suggest_DefaultLimit(t *testing.T) {
	e := newTestEngine(t, WithSuggestionLimit(2))
	// Matches Utilities, Stationery, Food and Travel.
	text := "water bill pens lunch taxi"

	assert.Len(t, e.Suggest(text, "", 0), 2)
	assert.Len(t, e.Suggest(text, "", 4), 4)
	assert.Len(t, NewEngine(testCatalog(t)).Suggest(text, "", 0), 0, "nothing registered")
}

func TestEngine_Suggest_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	e.AddLearnedTerm("Food", "canteen")
	e.AddLearnedTerm("Travel", "canteen")

	first := e.Suggest("canteen taxi lunch pens", "", 5)
	for n := 0; n < 20; n++ {
		assert.Equal(t, first, e.Suggest("canteen taxi lunch pens", "", 5))
	}
}

func TestEngine_Suggest_ConfidenceBounds(t *testing.T) {
	e := newTestEngine(t)
	texts := []string{
		"electricity bill water bill",
		"electricity bill water bill pens chalk attendance register lunch restaurant meal taxi bus fare",
		"x",
		"pens",
	}

	for _, text := range texts {
		for _, s := range e.Suggest(text, "", 10) {
			assert.GreaterOrEqual(t, s.Confidence, 0.0)
			assert.LessOrEqual(t, s.Confidence, 1.0)
			assert.Equal(t, Label(s.Confidence), s.Label)
		}
	}
}

func TestEngine_SetCategories(t *testing.T) {
	e := NewEngine(testCatalog(t))

	t.Run("case-insensitive fallback", func(t *testing.T) {
		e.SetCategories([]model.Category{{ID: "u2", Name: "utilities", Color: "#000"}})

		got := e.Suggest("water bill", "", 0)
		require.Len(t, got, 1)
		assert.Equal(t, "u2", got[0].CategoryID)
		assert.Equal(t, "utilities", got[0].CategoryName)
	})

	t.Run("exact name preferred", func(t *testing.T) {
		e.SetCategories([]model.Category{
			{ID: "lower", Name: "utilities"},
			{ID: "exact", Name: "Utilities"},
		})

		got := e.Suggest("water bill", "", 0)
		require.Len(t, got, 1)
		assert.Equal(t, "exact", got[0].CategoryID)
	})

	t.Run("replacement drops stale entries", func(t *testing.T) {
		e.SetCategories(testCategories())
		require.Len(t, e.Suggest("water bill", "", 0), 1)

		e.SetCategories([]model.Category{{ID: "s1", Name: "Stationery"}})
		assert.Empty(t, e.Suggest("water bill", "", 0))
		_, ok := e.ResolveCategory("Utilities")
		assert.False(t, ok)
		assert.Len(t, e.Categories(), 1)
	})
}

func TestEngine_Explain(t *testing.T) {
	e := newTestEngine(t)

	got := e.Explain("library books and pens", "")

	// Equal scores, so catalog order decides.
	require.Len(t, got, 2)
	assert.Equal(t, "Stationery", got[0].Category)
	assert.True(t, got[0].Registered)
	assert.Equal(t, "s1", got[0].CategoryID)
	require.Len(t, got[0].Matches, 1)
	assert.Equal(t, MatchPhrase, got[0].Matches[0].Kind)
	assert.Equal(t, "Library", got[1].Category)
	assert.False(t, got[1].Registered)
	assert.Empty(t, got[1].CategoryID)
	assert.InDelta(t, 0.3, got[1].Confidence, 1e-9)

	assert.Nil(t, e.Explain("", ""))
}

func TestConfidenceAndLabel(t *testing.T) {
	tests := []struct {
		raw       float64
		wantConf  float64
		wantLabel model.ConfidenceLabel
	}{
		{raw: 0, wantConf: 0, wantLabel: model.ConfidenceLow},
		{raw: 3.6, wantConf: 0.36, wantLabel: model.ConfidenceLow},
		{raw: 4.99, wantConf: 0.499, wantLabel: model.ConfidenceLow},
		{raw: 5, wantConf: 0.5, wantLabel: model.ConfidenceMedium},
		{raw: 7.99, wantConf: 0.799, wantLabel: model.ConfidenceMedium},
		{raw: 8, wantConf: 0.8, wantLabel: model.ConfidenceHigh},
		{raw: 25, wantConf: 1, wantLabel: model.ConfidenceHigh},
		{raw: -1, wantConf: 0, wantLabel: model.ConfidenceLow},
	}

	for _, tt := range tests {
		conf := Confidence(tt.raw)
		assert.InDelta(t, tt.wantConf, conf, 1e-9, "raw %v", tt.raw)
		assert.Equal(t, tt.wantLabel, Label(conf), "raw %v", tt.raw)
	}
}

func TestEngine_AddLearnedTerm(t *testing.T) {
	e := newTestEngine(t)

	assert.Empty(t, e.Suggest("canteen coupons", "", 0))

	assert.True(t, e.AddLearnedTerm("Food", " Canteen! "))
	assert.False(t, e.AddLearnedTerm("Food", "canteen"), "duplicate")
	assert.False(t, e.AddLearnedTerm("Food", "!!"), "normalizes to nothing")
	assert.False(t, e.AddLearnedTerm(" ", "canteen"), "no category")

	got := e.Suggest("canteen coupons", "", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Food", got[0].CategoryName)
	assert.InDelta(t, 2.0, got[0].Score, 1e-9)
	assert.Equal(t, map[string][]string{"Food": {"canteen"}}, e.LearnedPatterns())
}

func TestEngine_ConcurrentSuggestAndLearn(t *testing.T) {
	e := newTestEngine(t)
	corpus := []model.Expense{
		{Description: "canteen lunch", CategoryName: "Food"},
		{Description: "canteen snacks", CategoryName: "Food"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				e.Learn(corpus)
				return
			}
			for n := 0; n < 50; n++ {
				_ = e.Suggest("canteen lunch taxi", "", 0)
			}
		}(i)
	}
	wg.Wait()

	assert.Contains(t, e.LearnedPatterns()["Food"], "canteen")
}

func TestEngine_MiscellaneousName(t *testing.T) {
	e := NewEngine(testCatalog(t), WithMiscellaneousName("Uncategorized"))

	assert.Equal(t, "Uncategorized", e.MiscellaneousName())
	assert.True(t, e.IsMiscellaneous("uncategorized "))
	assert.False(t, e.IsMiscellaneous("Miscellaneous"))

	d := NewEngine(testCatalog(t), WithMiscellaneousName("  "))
	assert.Equal(t, DefaultMiscellaneousName, d.MiscellaneousName())
}
