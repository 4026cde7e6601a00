package catalog

import (
	_ "embed" // default catalog
	"fmt"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	cat, err := Parse(defaultCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded default catalog: %w", err)
	}
	return cat, nil
}

// DefaultYAML returns the raw embedded catalog document, e.g. as a starting point
// for an institution-specific copy.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultCatalogYAML...)
}
