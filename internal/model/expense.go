package model

import (
	"strings"
	"time"
)

// Expense is the canonical expense shape consumed by the suggestion engine.
type Expense struct {
	ExpenseDate  time.Time
	ID           string
	Description  string
	Notes        string
	CategoryName string // Current category name, empty when uncategorized
	Amount       float64
}

// Text returns the description and notes joined by a single space and trimmed.
func (e Expense) Text() string {
	return strings.TrimSpace(e.Description + " " + e.Notes)
}

// Summary returns the subset of fields shown alongside a reclassification candidate.
func (e Expense) Summary() ExpenseSummary {
	return ExpenseSummary{
		ID:          e.ID,
		Description: e.Description,
		Notes:       e.Notes,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
	}
}

// ExpenseSummary identifies an expense in reclassification output.
type ExpenseSummary struct {
	ExpenseDate time.Time `json:"expense_date"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
	Amount      float64   `json:"amount"`
}

// CategoryRef is the nested category object some exports attach to an expense.
type CategoryRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ExpenseRecord is an expense as delivered by external collaborators. Depending on the
// producer the current category is either a flat category_name or a nested categories object.
type ExpenseRecord struct {
	Categories   *CategoryRef `json:"categories,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	ExpenseDate  string       `json:"expense_date"`
	CategoryName string       `json:"category_name,omitempty"`
	CategoryID   string       `json:"category_id,omitempty"`
	Amount       float64      `json:"amount"`
}

// ExpenseDateLayout is the date format used by expense_date fields.
const ExpenseDateLayout = "2006-01-02"

// ResolvedCategoryName returns the record's category name, preferring the flat
// category_name field and falling back to categories.name.
func (r ExpenseRecord) ResolvedCategoryName() string {
	if name := strings.TrimSpace(r.CategoryName); name != "" {
		return name
	}
	if r.Categories != nil {
		return strings.TrimSpace(r.Categories.Name)
	}
	return ""
}

// ToExpense maps the record into the canonical Expense shape. Dates that are not
// in YYYY-MM-DD form (or RFC 3339) are left zero.
func (r ExpenseRecord) ToExpense() Expense {
	exp := Expense{
		ID:           r.ID,
		Description:  r.Description,
		Amount:       r.Amount,
		CategoryName: r.ResolvedCategoryName(),
	}
	if r.Notes != nil {
		exp.Notes = *r.Notes
	}
	exp.ExpenseDate = parseExpenseDate(r.ExpenseDate)
	return exp
}

// ExpensesFromRecords adapts a batch of external records.
func ExpensesFromRecords(records []ExpenseRecord) []Expense {
	expenses := make([]Expense, 0, len(records))
	for _, r := range records {
		expenses = append(expenses, r.ToExpense())
	}
	return expenses
}

func parseExpenseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(ExpenseDateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
