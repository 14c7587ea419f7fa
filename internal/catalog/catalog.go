// Package catalog loads the static recipe catalog and implements
// ingredient-based recipe matching.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mkraev/pantry/internal/models"
)

// Catalog is the read-only recipe collection loaded at startup.
type Catalog struct {
	recipes []models.Recipe
}

// fileRecipe is the on-disk shape produced by the converter.
type fileRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// Load reads the catalog JSON file. Ingredient tokens are lowercased and
// trimmed here so matching can rely on exact comparison. Any failure is a
// startup-fatal condition for the caller; the process cannot run without
// its recipe data.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and normalizes raw catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	var raw []fileRecipe
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(raw))
	for i, r := range raw {
		recipes = append(recipes, models.Recipe{
			ID:           i + 1,
			Title:        r.Title,
			Ingredients:  normalize(r.Ingredients),
			Instructions: r.Instructions,
		})
	}
	return &Catalog{recipes: recipes}, nil
}

// normalize lowercases and trims tokens, dropping any that end up empty.
func normalize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(strings.ToLower(tok))
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// Recipes returns the full recipe list in catalog order.
func (c *Catalog) Recipes() []models.Recipe { return c.recipes }

// Match returns every recipe whose ingredient list contains itemName as an
// exact (lowercased) token, in catalog order. Substring matches do not
// count: "egg" never matches a recipe that only lists "eggplant". An empty
// result is a normal outcome, not an error.
func (c *Catalog) Match(itemName string) []models.Recipe {
	want := strings.ToLower(itemName)
	var out []models.Recipe
	for _, r := range c.recipes {
		for _, tok := range r.Ingredients {
			if tok == want {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
