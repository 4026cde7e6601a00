package suggest

import (
	"github.com/Veraticus/spicecat/internal/model"
)

// Reclassifier proposes new categories for expenses filed under the catch-all category.
type Reclassifier struct {
	engine *Engine
	limit  int
}

// NewReclassifier creates a reclassifier that uses the engine's default suggestion limit.
func NewReclassifier(engine *Engine) *Reclassifier {
	return &Reclassifier{engine: engine}
}

// WithLimit returns a copy of the reclassifier that keeps at most limit
// suggestions per candidate.
func (r *Reclassifier) WithLimit(limit int) *Reclassifier {
	cp := *r
	cp.limit = limit
	return &cp
}

// SuggestReclassifications returns a candidate for every catch-all expense that
// has at least one suggestion, in input order.
func (r *Reclassifier) SuggestReclassifications(expenses []model.Expense) []model.ReclassificationCandidate {
	candidates := make([]model.ReclassificationCandidate, 0)
	for _, exp := range expenses {
		if !r.engine.IsMiscellaneous(exp.CategoryName) {
			continue
		}
		suggestions := r.engine.Suggest(exp.Description, exp.Notes, r.limit)
		if len(suggestions) == 0 {
			continue
		}
		top := suggestions[0]
		candidates = append(candidates, model.ReclassificationCandidate{
			Expense:       exp.Summary(),
			Suggestions:   suggestions,
			TopSuggestion: &top,
		})
	}
	return candidates
}

// IsAutoAcceptable reports whether a candidate's top suggestion is confident
// enough to apply without review.
func IsAutoAcceptable(c model.ReclassificationCandidate) bool {
	return c.TopSuggestion != nil && c.TopSuggestion.Confidence >= AutoAcceptThreshold
}

// Partition splits candidates into those eligible for automatic application and
// those that need review, preserving order within each group.
func Partition(candidates []model.ReclassificationCandidate) (auto, review []model.ReclassificationCandidate) {
	for _, c := range candidates {
		if IsAutoAcceptable(c) {
			auto = append(auto, c)
		} else {
			review = append(review, c)
		}
	}
	return auto, review
}

// Decision chooses the suggestion to apply for a candidate, or reports false to
// leave the expense where it is.
type Decision func(model.ReclassificationCandidate) (model.Suggestion, bool)

// AcceptTop is a Decision that always takes the top suggestion.
func AcceptTop(c model.ReclassificationCandidate) (model.Suggestion, bool) {
	if c.TopSuggestion == nil {
		return model.Suggestion{}, false
	}
	return *c.TopSuggestion, true
}

// Plan turns candidates into concrete category changes. Auto-acceptable
// candidates take their top suggestion when autoApply is set; all others are
// passed to decide, which may be nil to skip them.
func (r *Reclassifier) Plan(candidates []model.ReclassificationCandidate, autoApply bool, decide Decision) []model.Reclassification {
	changes := make([]model.Reclassification, 0, len(candidates))
	for _, c := range candidates {
		var (
			chosen model.Suggestion
			ok     bool
			auto   bool
		)
		switch {
		case autoApply && IsAutoAcceptable(c):
			chosen, ok = AcceptTop(c)
			auto = true
		case decide != nil:
			chosen, ok = decide(c)
		}
		if !ok || chosen.CategoryID == "" {
			continue
		}
		changes = append(changes, model.Reclassification{
			ExpenseID:      c.Expense.ID,
			FromCategory:   r.engine.MiscellaneousName(),
			ToCategoryID:   chosen.CategoryID,
			ToCategoryName: chosen.CategoryName,
			Confidence:     chosen.Confidence,
			Auto:           auto,
		})
	}
	return changes
}
