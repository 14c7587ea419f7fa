package index

import "github.com/mkraev/pantry/internal/models"

// RecipeIndex defines the interface for catalog index operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type RecipeIndex interface {
	ReplaceAll(recipes []models.Recipe) error
	ListRecipes(limit, offset int) ([]RecipeRow, int, error)
	GetRecipe(id int) (*models.Recipe, error)
	MatchIngredient(token string) ([]RecipeRow, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies RecipeIndex at compile time.
var _ RecipeIndex = (*DB)(nil)
