package suggest

import (
	"testing"

	"github.com/Veraticus/spicecat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reclassifyCorpus() []model.Expense {
	return []model.Expense{
		{ID: "m1", Description: "Paid electricity bill", Amount: 120, CategoryName: "Miscellaneous"},
		{ID: "c1", Description: "electricity bill", Amount: 110, CategoryName: "Utilities"},
		{ID: "m2", Description: "random stuff", Amount: 5, CategoryName: "miscellaneous"},
		{ID: "m3", Description: "pens and chalk", Notes: "exam week", Amount: 40, CategoryName: "MISCELLANEOUS"},
		{ID: "u1", Description: "taxi", Amount: 15},
	}
}

func TestReclassifier_SuggestReclassifications(t *testing.T) {
	r := NewReclassifier(newTestEngine(t))

	got := r.SuggestReclassifications(reclassifyCorpus())

	require.Len(t, got, 2)

	assert.Equal(t, "m1", got[0].Expense.ID)
	assert.InDelta(t, 120.0, got[0].Expense.Amount, 1e-9)
	require.NotNil(t, got[0].TopSuggestion)
	assert.Equal(t, "Utilities", got[0].TopSuggestion.CategoryName)
	assert.Equal(t, got[0].Suggestions[0], *got[0].TopSuggestion)

	assert.Equal(t, "m3", got[1].Expense.ID)
	assert.Equal(t, "exam week", got[1].Expense.Notes)
	require.NotNil(t, got[1].TopSuggestion)
	assert.Equal(t, "Stationery", got[1].TopSuggestion.CategoryName)
	assert.InDelta(t, 0.72, got[1].TopSuggestion.Confidence, 1e-9)
}

func TestReclassifier_OnlyMiscellaneous(t *testing.T) {
	r := NewReclassifier(newTestEngine(t))
	expenses := []model.Expense{
		{ID: "a", Description: "water bill", CategoryName: "Utilities"},
		{ID: "b", Description: "water bill", CategoryName: "Misc"},
		{ID: "c", Description: "water bill"},
	}

	assert.Empty(t, r.SuggestReclassifications(expenses))
	assert.NotNil(t, r.SuggestReclassifications(nil))
}

func TestReclassifier_WithLimit(t *testing.T) {
	r := NewReclassifier(newTestEngine(t)).WithLimit(1)
	expenses := []model.Expense{
		{ID: "m", Description: "water bill pens lunch", CategoryName: "Miscellaneous"},
	}

	got := r.SuggestReclassifications(expenses)

	require.Len(t, got, 1)
	assert.Len(t, got[0].Suggestions, 1)
}

func TestPartition(t *testing.T) {
	r := NewReclassifier(newTestEngine(t))
	candidates := r.SuggestReclassifications(reclassifyCorpus())

	auto, review := Partition(candidates)

	require.Len(t, auto, 1)
	assert.Equal(t, "m3", auto[0].Expense.ID)
	require.Len(t, review, 1)
	assert.Equal(t, "m1", review[0].Expense.ID)
}

func TestIsAutoAcceptable_SharesMediumThreshold(t *testing.T) {
	for _, conf := range []float64{0, 0.3, 0.49, 0.5, 0.79, 0.8, 1} {
		c := model.ReclassificationCandidate{
			TopSuggestion: &model.Suggestion{Confidence: conf, Label: Label(conf)},
		}
		assert.Equal(t, Label(conf) != model.ConfidenceLow, IsAutoAcceptable(c), "confidence %v", conf)
	}
	assert.False(t, IsAutoAcceptable(model.ReclassificationCandidate{}))
}

func TestReclassifier_Plan(t *testing.T) {
	r := NewReclassifier(newTestEngine(t))
	candidates := r.SuggestReclassifications(reclassifyCorpus())

	t.Run("auto only", func(t *testing.T) {
		changes := r.Plan(candidates, true, nil)

		require.Len(t, changes, 1)
		assert.Equal(t, model.Reclassification{
			ExpenseID:      "m3",
			FromCategory:   "Miscellaneous",
			ToCategoryID:   "s1",
			ToCategoryName: "Stationery",
			Confidence:     changes[0].Confidence,
			Auto:           true,
		}, changes[0])
	})

	t.Run("auto plus reviewer accepting everything", func(t *testing.T) {
		changes := r.Plan(candidates, true, AcceptTop)

		require.Len(t, changes, 2)
		assert.Equal(t, "m1", changes[0].ExpenseID)
		assert.False(t, changes[0].Auto)
		assert.Equal(t, "u1", changes[0].ToCategoryID)
		assert.True(t, changes[1].Auto)
	})

	t.Run("reviewer picks a different suggestion", func(t *testing.T) {
		pickTravel := func(model.ReclassificationCandidate) (model.Suggestion, bool) {
			return model.Suggestion{CategoryID: "t1", CategoryName: "Travel", Confidence: 0.1}, true
		}
		changes := r.Plan(candidates, false, pickTravel)

		require.Len(t, changes, 2)
		for _, c := range changes {
			assert.Equal(t, "t1", c.ToCategoryID)
			assert.False(t, c.Auto)
		}
	})

	t.Run("nothing decided", func(t *testing.T) {
		assert.Empty(t, r.Plan(candidates, false, nil))
	})
}
