// Package catalog holds the curated keyword patterns that seed category suggestions.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/spicecat/internal/textnorm"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only catalog file version this build understands.
const SchemaVersion = 1

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// CategoryPattern is the fixed rule set for one category name.
type CategoryPattern struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
}

// Catalog is an ordered, read-only list of category patterns. Order is significant:
// it breaks ties between equally scored suggestions.
type Catalog struct {
	patterns []CategoryPattern
	index    map[string]int
	version  int
}

type catalogFile struct {
	Categories []CategoryPattern `yaml:"categories"`
	Version    int               `yaml:"version"`
}

// New builds a catalog from patterns after validating them. Duplicate keywords
// within a category are dropped, keeping the first occurrence.
func New(patterns []CategoryPattern) (*Catalog, error) {
	return build(SchemaVersion, patterns)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return build(file.Version, file.Categories)
}

// Load reads and parses a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

func build(version int, patterns []CategoryPattern) (*Catalog, error) {
	if err := validate(version, patterns); err != nil {
		return nil, err
	}

	c := &Catalog{
		version:  version,
		patterns: make([]CategoryPattern, 0, len(patterns)),
		index:    make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		p.Name = strings.TrimSpace(p.Name)
		p.Keywords = dedupeKeywords(p.Keywords)
		c.index[p.Name] = len(c.patterns)
		c.patterns = append(c.patterns, p)
	}
	return c, nil
}

// validate reports every problem at once rather than stopping at the first.
func validate(version int, patterns []CategoryPattern) error {
	var problems []string

	if version != SchemaVersion {
		problems = append(problems, fmt.Sprintf("unsupported version %d (want %d)", version, SchemaVersion))
	}
	if len(patterns) == 0 {
		problems = append(problems, "no categories defined")
	}

	seen := make(map[string]bool, len(patterns))
	for i, p := range patterns {
		name := strings.TrimSpace(p.Name)
		label := name
		if name == "" {
			label = fmt.Sprintf("#%d", i+1)
			problems = append(problems, fmt.Sprintf("category %s has an empty name", label))
		} else if seen[name] {
			problems = append(problems, fmt.Sprintf("category %q is defined more than once", name))
		}
		seen[name] = true

		if p.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("category %s has non-positive weight %.2f", label, p.Weight))
		}
		if len(p.Keywords) == 0 {
			problems = append(problems, fmt.Sprintf("category %s has no keywords", label))
		}
		for _, kw := range p.Keywords {
			if textnorm.Normalize(kw) == "" {
				problems = append(problems, fmt.Sprintf("category %s has keyword %q with no letters or digits", label, kw))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidCatalog, strings.Join(problems, "\n- "))
	}
	return nil
}

func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		key := textnorm.Normalize(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(kw))
	}
	return out
}

// Patterns returns a copy of the patterns in catalog order.
func (c *Catalog) Patterns() []CategoryPattern {
	out := make([]CategoryPattern, len(c.patterns))
	for i, p := range c.patterns {
		p.Keywords = append([]string(nil), p.Keywords...)
		out[i] = p
	}
	return out
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the pattern for an exact category name.
func (c *Catalog) Lookup(name string) (CategoryPattern, bool) {
	i, ok := c.index[name]
	if !ok {
		return CategoryPattern{}, false
	}
	p := c.patterns[i]
	p.Keywords = append([]string(nil), p.Keywords...)
	return p, true
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// Version returns the schema version the catalog was loaded with.
func (c *Catalog) Version() int {
	return c.version
}

// Marshal renders the catalog back to its YAML file form.
func (c *Catalog) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(catalogFile{Version: c.version, Categories: c.Patterns()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}
