// Package textnorm canonicalizes free text before keyword matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases text, replaces every rune that is not a letter, digit or
// whitespace with a space, collapses whitespace runs and trims the result.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// cases.Caser is stateful and not safe for concurrent use, so build one per call.
	lowered := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// Punctuation and whitespace both collapse into a single separator.
		pendingSpace = true
	}

	return b.String()
}

// Tokenize normalizes text and splits it into words.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}
