// Package suggest scores free-text expense descriptions against the keyword
// catalog, learns extra keywords from categorized expenses and proposes
// reclassifications for expenses filed under the catch-all category.
package suggest

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/textnorm"
)

// Calibration constants. Learned-pattern exports from other installations are
// only comparable when these match.
const (
	// ConfidenceScale maps a raw score onto [0,1]: confidence = min(score/ConfidenceScale, 1).
	ConfidenceScale = 10.0
	// HighConfidenceThreshold is the lower bound of the High band.
	HighConfidenceThreshold = 0.8
	// AutoAcceptThreshold is both the lower bound of the Medium band and the
	// confidence at which a reclassification may be applied without review.
	AutoAcceptThreshold = 0.5
)

// Engine defaults.
const (
	DefaultMiscellaneousName = "Miscellaneous"
	DefaultSuggestionLimit   = 3

	// minTextLength is the shortest combined description+notes worth scoring, in runes.
	minTextLength = 2
)

// Engine owns the category registry and the learned-pattern store. It is safe
// for concurrent use: suggestions share a read lock, mutations take the write lock.
type Engine struct {
	logger      *slog.Logger
	store       BlobStore
	byName      map[string]model.Category
	byLowerName map[string]model.Category
	learned     map[string]map[string]struct{}
	miscName    string
	blobKey     string
	patterns    []compiledPattern
	categories  []model.Category
	limit       int
	mu          sync.RWMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for warnings about persisted state.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMiscellaneousName overrides the name of the catch-all category.
func WithMiscellaneousName(name string) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" {
			e.miscName = name
		}
	}
}

// WithSuggestionLimit sets the number of suggestions returned when callers pass a
// non-positive limit.
func WithSuggestionLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// WithBlobStore attaches the persistence adapter used by Load, Save and Close.
func WithBlobStore(store BlobStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithBlobKey overrides the key learned patterns are stored under.
func WithBlobKey(key string) Option {
	return func(e *Engine) {
		if key = strings.TrimSpace(key); key != "" {
			e.blobKey = key
		}
	}
}

// NewEngine creates an engine over the given catalog with an empty category
// registry and no learned patterns.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		logger:      slog.Default(),
		miscName:    DefaultMiscellaneousName,
		blobKey:     DefaultBlobKey,
		limit:       DefaultSuggestionLimit,
		byName:      make(map[string]model.Category),
		byLowerName: make(map[string]model.Category),
		learned:     make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if cat != nil {
		for _, p := range cat.Patterns() {
			e.patterns = append(e.patterns, compile(p))
		}
	}

	return e
}

// MiscellaneousName returns the catch-all category name.
func (e *Engine) MiscellaneousName() string {
	return e.miscName
}

// IsMiscellaneous reports whether name is the catch-all category, ignoring case.
func (e *Engine) IsMiscellaneous(name string) bool {
	return isMiscellaneous(name, e.miscName)
}

// SetCategories replaces the category registry and rebuilds both name lookups.
// When two categories differ only by case the first one wins the lowercase lookup.
func (e *Engine) SetCategories(categories []model.Category) {
	byName := make(map[string]model.Category, len(categories))
	byLower := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
		lower := strings.ToLower(c.Name)
		if _, exists := byLower[lower]; !exists {
			byLower[lower] = c
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.categories = append([]model.Category(nil), categories...)
	e.byName = byName
	e.byLowerName = byLower
}

// Categories returns a copy of the registry.
func (e *Engine) Categories() []model.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Category(nil), e.categories...)
}

// ResolveCategory finds a registered category by exact name, falling back to a
// case-insensitive match.
func (e *Engine) ResolveCategory(name string) (model.Category, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resolveLocked(name)
}

func (e *Engine) resolveLocked(name string) (model.Category, bool) {
	if c, ok := e.byName[name]; ok {
		return c, true
	}
	c, ok := e.byLowerName[strings.ToLower(name)]
	return c, ok
}

type scored struct {
	pattern  *compiledPattern
	matches  []Match
	category model.Category
	score    float64
	known    bool
}

// evaluate scores text against every catalog category, in catalog order.
// Callers must hold at least the read lock.
func (e *Engine) evaluate(text string) []scored {
	norm := textnorm.Normalize(text)
	words := strings.Fields(norm)

	var results []scored
	for i := range e.patterns {
		p := &e.patterns[i]
		s, matches := score(norm, words, *p, e.learnedTermsLocked(p.name))
		if s <= 0 {
			continue
		}
		cat, known := e.resolveLocked(p.name)
		results = append(results, scored{
			pattern:  p,
			category: cat,
			known:    known,
			score:    s,
			matches:  matches,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	return results
}

// Suggest ranks registered categories for the given description and notes.
// Text shorter than two characters yields no suggestions. A non-positive limit
// falls back to the engine default.
func (e *Engine) Suggest(description, notes string, limit int) []model.Suggestion {
	text := strings.TrimSpace(description + " " + notes)
	if utf8.RuneCountInString(text) < minTextLength {
		return []model.Suggestion{}
	}
	if limit <= 0 {
		limit = e.limit
	}

	e.mu.RLock()
	results := e.evaluate(text)
	e.mu.RUnlock()

	suggestions := make([]model.Suggestion, 0, limit)
	for _, r := range results {
		if !r.known {
			continue
		}
		if len(suggestions) == limit {
			break
		}
		suggestions = append(suggestions, newSuggestion(r.category, r.score))
	}
	return suggestions
}

func newSuggestion(cat model.Category, raw float64) model.Suggestion {
	confidence := Confidence(raw)
	return model.Suggestion{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Color:        cat.Color,
		Confidence:   confidence,
		Label:        Label(confidence),
		Score:        raw,
	}
}

// Confidence converts a raw score into a display confidence in [0,1].
func Confidence(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) {
		return 0
	}
	return math.Min(raw/ConfidenceScale, 1)
}

// Label returns the confidence band for a confidence value.
func Label(confidence float64) model.ConfidenceLabel {
	switch {
	case confidence >= HighConfidenceThreshold:
		return model.ConfidenceHigh
	case confidence >= AutoAcceptThreshold:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// Explanation is the full scoring breakdown for one catalog category.
type Explanation struct {
	Category   string
	CategoryID string
	Matches    []Match
	Score      float64
	Confidence float64
	Registered bool
}

// Explain returns every catalog category that scores above zero for the text,
// including categories missing from the registry, ranked like Suggest.
func (e *Engine) Explain(description, notes string) []Explanation {
	text := strings.TrimSpace(description + " " + notes)
	if utf8.RuneCountInString(text) < minTextLength {
		return nil
	}

	e.mu.RLock()
	results := e.evaluate(text)
	e.mu.RUnlock()

	out := make([]Explanation, 0, len(results))
	for _, r := range results {
		out = append(out, Explanation{
			Category:   r.pattern.name,
			CategoryID: r.category.ID,
			Registered: r.known,
			Score:      r.score,
			Confidence: Confidence(r.score),
			Matches:    r.matches,
		})
	}
	return out
}

// LearnResult reports what a Learn call changed.
type LearnResult struct {
	// Added holds the newly learned terms per category, sorted.
	Added map[string][]string
	// Examined is the number of expenses considered after exclusions.
	Examined int
}

// TotalAdded returns the number of newly learned terms across all categories.
func (r LearnResult) TotalAdded() int {
	n := 0
	for _, terms := range r.Added {
		n += len(terms)
	}
	return n
}

// Learn extends the learned-pattern store from categorized expenses. Terms are
// only ever added; previously learned terms are kept even when the new corpus no
// longer supports them.
func (e *Engine) Learn(expenses []model.Expense) LearnResult {
	extracted := ExtractTerms(expenses, e.miscName)

	result := LearnResult{Added: make(map[string][]string)}
	for _, exp := range expenses {
		if name := strings.TrimSpace(exp.CategoryName); name != "" && !e.IsMiscellaneous(name) {
			result.Examined++
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for name, terms := range extracted {
		for _, term := range terms {
			if e.addTermLocked(name, term) {
				result.Added[name] = append(result.Added[name], term)
			}
		}
	}

	if total := result.TotalAdded(); total > 0 {
		e.logger.Info("learned category terms", "categories", len(result.Added), "terms", total)
	}
	return result
}

// AddLearnedTerm adds a single term to a category's learned set. It returns false
// when the term normalizes to nothing or is already known.
func (e *Engine) AddLearnedTerm(category, term string) bool {
	category = strings.TrimSpace(category)
	term = textnorm.Normalize(term)
	if category == "" || term == "" {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addTermLocked(category, term)
}

func (e *Engine) addTermLocked(category, term string) bool {
	set, ok := e.learned[category]
	if !ok {
		set = make(map[string]struct{})
		e.learned[category] = set
	}
	if _, exists := set[term]; exists {
		return false
	}
	set[term] = struct{}{}
	return true
}

// learnedTermsLocked returns a category's learned terms in sorted order.
func (e *Engine) learnedTermsLocked(category string) []string {
	set := e.learned[category]
	if len(set) == 0 {
		return nil
	}
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// LearnedPatterns returns a sorted copy of the learned-pattern store.
func (e *Engine) LearnedPatterns() map[string][]string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string][]string, len(e.learned))
	for name := range e.learned {
		if terms := e.learnedTermsLocked(name); len(terms) > 0 {
			out[name] = terms
		}
	}
	return out
}

// ResetLearnedPatterns discards every learned term.
func (e *Engine) ResetLearnedPatterns() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.learned = make(map[string]map[string]struct{})
}
