package suggest

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/textnorm"
)

// Learning thresholds.
const (
	// MinExamples is the smallest number of expenses a category needs before
	// anything is learned from it.
	MinExamples = 2
	// SupportRatio is the share of a category's expenses a word must appear in.
	SupportRatio = 0.3
	// MinTermLength is the shortest learnable word, in runes.
	MinTermLength = 3
)

// ExtractTerms finds the characteristic words of each category in a corpus of
// already categorized expenses. Expenses filed under miscName (compared
// case-insensitively) or with no category are ignored. A word qualifies when it
// is at least MinTermLength runes long and occurs in at least
// ceil(SupportRatio * n) of the category's n expenses. Terms are returned sorted.
func ExtractTerms(expenses []model.Expense, miscName string) map[string][]string {
	groups := make(map[string][]string)
	for _, exp := range expenses {
		name := strings.TrimSpace(exp.CategoryName)
		if name == "" || isMiscellaneous(name, miscName) {
			continue
		}
		groups[name] = append(groups[name], textnorm.Normalize(exp.Description+" "+exp.Notes))
	}

	out := make(map[string][]string)
	for name, texts := range groups {
		if len(texts) < MinExamples {
			continue
		}
		if terms := frequentTerms(texts); len(terms) > 0 {
			out[name] = terms
		}
	}
	return out
}

// frequentTerms counts each word once per text so a word repeated inside a
// single expense cannot carry a category on its own.
func frequentTerms(texts []string) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, w := range strings.Fields(text) {
			if utf8.RuneCountInString(w) < MinTermLength || seen[w] {
				continue
			}
			seen[w] = true
			counts[w]++
		}
	}

	threshold := int(math.Ceil(SupportRatio * float64(len(texts))))
	terms := make([]string, 0, len(counts))
	for w, n := range counts {
		if n >= threshold {
			terms = append(terms, w)
		}
	}
	sort.Strings(terms)
	return terms
}

func isMiscellaneous(name, miscName string) bool {
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(miscName))
}
