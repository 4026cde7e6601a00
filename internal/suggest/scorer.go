package suggest

import (
	"strings"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/Veraticus/spicecat/internal/textnorm"
)

// Points multipliers applied to a category's weight.
const (
	phrasePoints  = 3.0 // catalog keyword found verbatim in the text
	wordsPoints   = 2.0 // every word of a multi-word keyword found in any order
	learnedPoints = 2.0 // learned term found in the text

	// multiCueBonus is added to the multiplier once per contributing pattern
	// when more than one pattern matched.
	multiCueBonus = 0.1
)

// MatchKind describes which rule produced a match.
type MatchKind string

// Match kinds.
const (
	MatchPhrase  MatchKind = "phrase"
	MatchWords   MatchKind = "words"
	MatchLearned MatchKind = "learned"
)

// Match is one keyword or learned term that contributed to a category score.
type Match struct {
	Term   string
	Kind   MatchKind
	Points float64
}

type compiledKeyword struct {
	raw   string
	norm  string
	words []string
}

// compiledPattern is a catalog entry with its keywords normalized once up front.
type compiledPattern struct {
	name     string
	keywords []compiledKeyword
	norms    map[string]bool
	weight   float64
}

func compile(p catalog.CategoryPattern) compiledPattern {
	cp := compiledPattern{
		name:     p.Name,
		weight:   p.Weight,
		keywords: make([]compiledKeyword, 0, len(p.Keywords)),
		norms:    make(map[string]bool, len(p.Keywords)),
	}
	for _, kw := range p.Keywords {
		norm := textnorm.Normalize(kw)
		if norm == "" || cp.norms[norm] {
			continue
		}
		cp.norms[norm] = true
		cp.keywords = append(cp.keywords, compiledKeyword{
			raw:   kw,
			norm:  norm,
			words: strings.Fields(norm),
		})
	}
	return cp
}

// score evaluates already-normalized text against a compiled pattern and the
// category's learned terms. learned must be iterated in a stable order for the
// returned matches to be deterministic; the score itself does not depend on order.
func score(text string, words []string, p compiledPattern, learned []string) (float64, []Match) {
	var (
		total   float64
		matches []Match
	)

	for _, kw := range p.keywords {
		switch {
		case strings.Contains(text, kw.norm):
			pts := phrasePoints * p.weight
			total += pts
			matches = append(matches, Match{Term: kw.raw, Kind: MatchPhrase, Points: pts})
		case len(kw.words) > 1 && allWordsPresent(kw.words, words):
			pts := wordsPoints * p.weight
			total += pts
			matches = append(matches, Match{Term: kw.raw, Kind: MatchWords, Points: pts})
		}
	}

	for _, term := range learned {
		if p.norms[term] {
			continue // already scored as a catalog keyword
		}
		if strings.Contains(text, term) {
			pts := learnedPoints * p.weight
			total += pts
			matches = append(matches, Match{Term: term, Kind: MatchLearned, Points: pts})
		}
	}

	if len(matches) > 1 {
		multiplier := 1 + multiCueBonus*float64(len(matches))
		total *= multiplier
		for i := range matches {
			matches[i].Points *= multiplier
		}
	}

	return total, matches
}

// allWordsPresent reports whether every keyword word contains, or is contained
// by, at least one input word.
func allWordsPresent(keywordWords, inputWords []string) bool {
	for _, kw := range keywordWords {
		found := false
		for _, w := range inputWords {
			if strings.Contains(w, kw) || strings.Contains(kw, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Score computes the raw score of text for a single category pattern plus learned
// terms, outside of any engine. It is mainly useful for tooling and tests.
func Score(text string, pattern catalog.CategoryPattern, learned []string) float64 {
	norm := textnorm.Normalize(text)
	normLearned := make([]string, 0, len(learned))
	for _, term := range learned {
		if t := textnorm.Normalize(term); t != "" {
			normLearned = append(normLearned, t)
		}
	}
	s, _ := score(norm, strings.Fields(norm), compile(pattern), normLearned)
	return s
}
