package index

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "pantry-index-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecipes() []models.Recipe {
	return []models.Recipe{
		{ID: 1, Title: "Omelette", Ingredients: []string{"egg", "butter", "salt"}, Instructions: "Whisk and fry."},
		{ID: 2, Title: "Ratatouille", Ingredients: []string{"eggplant", "tomato"}, Instructions: "Stew."},
		{ID: 3, Title: "Fried Rice", Ingredients: []string{"rice", "egg"}, Instructions: "Fry."},
	}
}

func TestReplaceAllAndList(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceAll(testRecipes()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	rows, total, err := db.ListRecipes(10, 0)
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("total = %d, rows = %d", total, len(rows))
	}
	if rows[0].Title != "Omelette" || rows[2].Title != "Fried Rice" {
		t.Errorf("catalog order not preserved: %v", rows)
	}
}

func TestListPagination(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceAll(testRecipes())

	rows, total, err := db.ListRecipes(2, 2)
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d", total)
	}
	if len(rows) != 1 || rows[0].ID != 3 {
		t.Errorf("page = %v", rows)
	}
}

func TestReplaceAllIsIdempotentRebuild(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceAll(testRecipes())
	// A second sync must not duplicate rows.
	if err := db.ReplaceAll(testRecipes()[:2]); err != nil {
		t.Fatalf("second ReplaceAll: %v", err)
	}
	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestGetRecipe(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceAll(testRecipes())

	r, err := db.GetRecipe(1)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if r.Title != "Omelette" || r.Instructions != "Whisk and fry." {
		t.Errorf("recipe = %+v", r)
	}
	want := []string{"egg", "butter", "salt"}
	for i, tok := range want {
		if r.Ingredients[i] != tok {
			t.Errorf("ingredient[%d] = %q, want %q", i, r.Ingredients[i], tok)
		}
	}
}

func TestGetRecipeNotFound(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceAll(testRecipes())
	if _, err := db.GetRecipe(99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMatchIngredient(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceAll(testRecipes())

	rows, err := db.MatchIngredient("egg")
	if err != nil {
		t.Fatalf("MatchIngredient: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 1 || rows[1].ID != 3 {
		t.Errorf("Match(egg) = %v, want recipes 1 and 3 in order", rows)
	}

	// Exact token only: the eggplant recipe must not appear, and a
	// substring of a token matches nothing.
	if rows, _ := db.MatchIngredient("eggp"); len(rows) != 0 {
		t.Errorf("Match(eggp) = %v, want empty", rows)
	}
	// Item names arrive in arbitrary case.
	if rows, _ := db.MatchIngredient("EGG"); len(rows) != 2 {
		t.Errorf("Match(EGG) = %v, want 2 rows", rows)
	}
}

func TestMatchAgreesWithPureMatcher(t *testing.T) {
	db := testDB(t)
	cat, err := catalog.Parse([]byte(`[
		{"title": "A", "ingredients": ["Egg", "flour"], "instructions": "x"},
		{"title": "B", "ingredients": ["eggplant"], "instructions": "y"},
		{"title": "C", "ingredients": ["egg", "milk"], "instructions": "z"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, cat, slog.Default()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	pure := cat.Match("egg")
	sqlRows, err := db.MatchIngredient("egg")
	if err != nil {
		t.Fatal(err)
	}
	if len(pure) != len(sqlRows) {
		t.Fatalf("pure = %d rows, sql = %d rows", len(pure), len(sqlRows))
	}
	for i := range pure {
		if pure[i].ID != sqlRows[i].ID {
			t.Errorf("row %d: pure ID %d, sql ID %d", i, pure[i].ID, sqlRows[i].ID)
		}
	}
}
