package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/models"
)

// RecipeRow is a lightweight listing entry: enough to render a browse or
// suggestion list without dragging the instructions text along.
type RecipeRow struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ReplaceAll rebuilds the index from the given catalog in one transaction.
// Catalog order is preserved through the position column.
func (db *DB) ReplaceAll(recipes []models.Recipe) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM ingredients`); err != nil {
		return fmt.Errorf("index: clear ingredients: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM recipes`); err != nil {
		return fmt.Errorf("index: clear recipes: %w", err)
	}

	recipeStmt, err := tx.Prepare(`INSERT INTO recipes (id, title, instructions, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare recipe insert: %w", err)
	}
	defer recipeStmt.Close()

	tokenStmt, err := tx.Prepare(`INSERT INTO ingredients (recipe_id, position, token) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare ingredient insert: %w", err)
	}
	defer tokenStmt.Close()

	for pos, r := range recipes {
		if _, err := recipeStmt.Exec(r.ID, r.Title, r.Instructions, pos); err != nil {
			return fmt.Errorf("index: insert recipe %d: %w", r.ID, err)
		}
		for i, tok := range r.Ingredients {
			if _, err := tokenStmt.Exec(r.ID, i, tok); err != nil {
				return fmt.Errorf("index: insert ingredient %d/%d: %w", r.ID, i, err)
			}
		}
	}

	return tx.Commit()
}

// ListRecipes returns one page of recipes in catalog order plus the total
// count. A non-positive limit defaults to 50.
func (db *DB) ListRecipes(limit, offset int) ([]RecipeRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count recipes: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, title
		FROM recipes
		ORDER BY position
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list recipes: %w", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetRecipe returns one recipe with its full ingredient list and
// instructions, or apperr.ErrNotFound.
func (db *DB) GetRecipe(id int) (*models.Recipe, error) {
	r := models.Recipe{ID: id}
	err := db.conn.QueryRow(`SELECT title, instructions FROM recipes WHERE id = ?`, id).
		Scan(&r.Title, &r.Instructions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recipe %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("index: get recipe: %w", err)
	}

	rows, err := db.conn.Query(`SELECT token FROM ingredients WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("index: get ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		r.Ingredients = append(r.Ingredients, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// MatchIngredient returns every recipe containing the exact lowercased
// token as one ingredient, in catalog order. This is the SQL twin of the
// in-memory matcher: token equality only, no substring or ranking.
func (db *DB) MatchIngredient(token string) ([]RecipeRow, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	rows, err := db.conn.Query(`
		SELECT DISTINCT r.id, r.title
		FROM recipes r
		JOIN ingredients i ON i.recipe_id = r.id
		WHERE i.token = ?
		ORDER BY r.position
	`, token)
	if err != nil {
		return nil, fmt.Errorf("index: match ingredient: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Count returns the number of indexed recipes.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

func scanRows(rows *sql.Rows) ([]RecipeRow, error) {
	var out []RecipeRow
	for rows.Next() {
		var r RecipeRow
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
