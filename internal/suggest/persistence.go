package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/Veraticus/spicecat/internal/model"
	"github.com/Veraticus/spicecat/internal/textnorm"
)

// DefaultBlobKey is the key learned patterns are persisted under.
const DefaultBlobKey = "learned_patterns"

var (
	// ErrMalformedPatterns is returned by strict imports of unreadable learned-pattern JSON.
	ErrMalformedPatterns = errors.New("malformed learned patterns")
	// ErrNoBlobStore is returned when persistence is requested from an engine without a store.
	ErrNoBlobStore = errors.New("no blob store configured")
)

// BlobStore is the string-by-key storage learned patterns are persisted to.
type BlobStore interface {
	// GetBlob returns the value for key and whether it exists.
	GetBlob(ctx context.Context, key string) (string, bool, error)
	// PutBlob stores value under key, replacing any previous value.
	PutBlob(ctx context.Context, key, value string) error
}

// ExportLearnedPatterns serializes the learned-pattern store as
// {"<category>": ["term", ...]} with sorted keys and terms.
func (e *Engine) ExportLearnedPatterns() string {
	// A map of string slices cannot fail to marshal.
	data, _ := json.Marshal(e.LearnedPatterns())
	return string(data)
}

// ImportLearnedPatterns replaces the learned-pattern store with the serialized
// state. Unreadable input is logged and ignored, leaving the current state in
// place; the return value reports whether the import was applied.
func (e *Engine) ImportLearnedPatterns(data string) bool {
	if err := e.ImportLearnedPatternsStrict(data); err != nil {
		e.logger.Warn("ignoring learned patterns", "error", err)
		return false
	}
	return true
}

// ImportLearnedPatternsStrict behaves like ImportLearnedPatterns but returns an
// error wrapping ErrMalformedPatterns instead of logging.
func (e *Engine) ImportLearnedPatternsStrict(data string) error {
	learned, err := decodeLearned(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.learned = learned
	return nil
}

func decodeLearned(data string) (map[string]map[string]struct{}, error) {
	var raw map[string][]string
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPatterns, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedPatterns)
	}

	learned := make(map[string]map[string]struct{}, len(raw))
	for name, terms := range raw {
		set := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if norm := textnorm.Normalize(t); norm != "" {
				set[norm] = struct{}{}
			}
		}
		if len(set) > 0 {
			learned[name] = set
		}
	}
	return learned, nil
}

// Load replaces the learned state with the blob held by the engine's store. A
// missing blob leaves the state empty; a corrupt blob is logged and ignored.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return ErrNoBlobStore
	}
	data, ok, err := e.store.GetBlob(ctx, e.blobKey)
	if err != nil {
		return fmt.Errorf("failed to read learned patterns: %w", err)
	}
	if !ok {
		e.logger.Debug("no persisted learned patterns", "key", e.blobKey)
		return nil
	}
	if e.ImportLearnedPatterns(data) {
		e.logger.Debug("loaded learned patterns", "key", e.blobKey, "categories", len(e.LearnedPatterns()))
	}
	return nil
}

// Save writes the current learned state to the engine's store.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return ErrNoBlobStore
	}
	if err := e.store.PutBlob(ctx, e.blobKey, e.ExportLearnedPatterns()); err != nil {
		return fmt.Errorf("failed to save learned patterns: %w", err)
	}
	return nil
}

// Close performs the final export of learned state.
func (e *Engine) Close(ctx context.Context) error {
	return e.Save(ctx)
}

// Open constructs an engine bound to store, registers categories and loads any
// persisted learned patterns.
func Open(ctx context.Context, cat *catalog.Catalog, store BlobStore, categories []model.Category, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrNoBlobStore
	}
	e := NewEngine(cat, append(opts, WithBlobStore(store))...)
	e.SetCategories(categories)
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// MemoryStore is an in-process BlobStore.
type MemoryStore struct {
	store map[string]string
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]string)}
}

// GetBlob implements BlobStore.
func (m *MemoryStore) GetBlob(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[key]
	return v, ok, nil
}

// PutBlob implements BlobStore.
func (m *MemoryStore) PutBlob(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}
