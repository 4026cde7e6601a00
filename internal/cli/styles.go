// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spicecat/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#E67E22")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	// ChipStyle is the base style for a suggestion chip; the background is the category color.
	ChipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	TagIcon     = "🏷️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the tag icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(TagIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// LabelStyle returns the style used for a confidence label.
func LabelStyle(label model.ConfidenceLabel) lipgloss.Style {
	switch label {
	case model.ConfidenceHigh:
		return SuccessStyle
	case model.ConfidenceMedium:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// RenderCategory renders a category name on its own color.
func RenderCategory(name, color string) string {
	if color == "" {
		color = model.DefaultCategoryColor
	}
	return ChipStyle.Background(lipgloss.Color(color)).Render(name)
}

// RenderChip renders one suggestion as a colored chip followed by its confidence.
func RenderChip(s model.Suggestion) string {
	chip := RenderCategory(s.CategoryName, s.Color)
	confidence := LabelStyle(s.Label).Render(fmt.Sprintf("%s %.0f%%", s.Label, s.Confidence*100))
	return chip + " " + confidence
}

// RenderChips renders suggestions on one line, best first.
func RenderChips(suggestions []model.Suggestion) string {
	if len(suggestions) == 0 {
		return SubtleStyle.Render("no suggestions")
	}
	chips := make([]string, len(suggestions))
	for i, s := range suggestions {
		chips[i] = RenderChip(s)
	}
	return strings.Join(chips, "  ")
}

// FormatExpense renders the fields shown when reviewing an expense.
func FormatExpense(exp model.ExpenseSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Description:"), exp.Description)
	if exp.Notes != "" {
		fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Notes:"), exp.Notes)
	}
	fmt.Fprintf(&b, "%s %.2f", BoldStyle.Render("Amount:"), exp.Amount)
	if !exp.ExpenseDate.IsZero() {
		fmt.Fprintf(&b, "\n%s %s", BoldStyle.Render("Date:"), exp.ExpenseDate.Format(model.ExpenseDateLayout))
	}
	return b.String()
}
