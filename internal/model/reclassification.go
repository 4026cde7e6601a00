package model

// ReclassificationCandidate pairs an expense filed under the catch-all category with
// its ranked category suggestions.
type ReclassificationCandidate struct {
	TopSuggestion *Suggestion    `json:"top_suggestion"`
	Expense       ExpenseSummary `json:"expense"`
	Suggestions   []Suggestion   `json:"suggestions"`
}

// Reclassification is one accepted category change ready to be written back.
type Reclassification struct {
	ExpenseID      string  `json:"expense_id"`
	FromCategory   string  `json:"from_category"`
	ToCategoryID   string  `json:"to_category_id"`
	ToCategoryName string  `json:"to_category_name"`
	Confidence     float64 `json:"confidence"`
	Auto           bool    `json:"auto"`
}
