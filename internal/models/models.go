// Package models defines the domain types for Pantry.
package models

import (
	"fmt"

	"github.com/mkraev/pantry/internal/apperr"
)

// Category is one of the five fixed pantry sections.
type Category string

// The fixed category set. Inventory is partitioned by these keys only.
const (
	CategoryFruitsVegetables Category = "fruits_vegetables"
	CategoryGrains           Category = "grains"
	CategoryNonVeg           Category = "non_veg"
	CategoryDairy            Category = "dairy"
	CategoryOthers           Category = "others"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFruitsVegetables,
		CategoryGrains,
		CategoryNonVeg,
		CategoryDairy,
		CategoryOthers,
	}
}

// ParseCategory validates a raw category key.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("category %q: %w", s, apperr.ErrNotFound)
}

// Credential is the single stored login record.
type Credential struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Recipe is one catalog entry. Ingredients are lowercased and trimmed at
// load time; ID is the 1-based position in the catalog file.
type Recipe struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// PantryItem is one inventory entry. Tag is stamped once when the item is
// added and never recomputed on later reads.
type PantryItem struct {
	Name            string `json:"name"`
	ManufactureDate string `json:"manufacture_date"`
	ExpiryDate      string `json:"expiry_date"`
	Tag             string `json:"tag"`
}
