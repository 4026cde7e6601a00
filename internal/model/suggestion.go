package model

// ConfidenceLabel is the display band of a suggestion's confidence.
type ConfidenceLabel string

// Confidence bands.
const (
	ConfidenceLow    ConfidenceLabel = "Low"
	ConfidenceMedium ConfidenceLabel = "Medium"
	ConfidenceHigh   ConfidenceLabel = "High"
)

// Suggestion is a ranked category suggestion for a piece of expense text.
type Suggestion struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Color        string          `json:"color"`
	Label        ConfidenceLabel `json:"confidence_label"`
	Confidence   float64         `json:"confidence"`
	Score        float64         `json:"-"`
}
