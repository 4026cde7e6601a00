// Package model defines the core data structures for the spicecat application.
package model

import "time"

// Category is an institution-defined spending category as supplied by the category registry.
// Matching is keyed by Name; ID is only resolved when a suggestion is emitted.
type Category struct {
	CreatedAt time.Time `json:"created_at,omitempty"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
}

// DefaultCategoryColor is used when a category is created without an explicit color.
const DefaultCategoryColor = "#95A5A6"
