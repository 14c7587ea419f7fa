// Package testutil provides shared test helpers for setting up catalogs and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/index"
)

// SampleCatalogJSON is a small recipe catalog used across package tests.
// The Omelette/Ratatouille pair covers the exact-token matching cases:
// "egg" must match the former and never the latter's "eggplant".
const SampleCatalogJSON = `[
  {"title": "Omelette", "ingredients": ["egg", "butter", "salt"], "instructions": "Beat and fry."},
  {"title": "Ratatouille", "ingredients": ["eggplant", "tomato", "zucchini"], "instructions": "Stew the vegetables."},
  {"title": "Fried Rice", "ingredients": ["rice", "egg", "soy sauce"], "instructions": "Fry rice, add egg."}
]`

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "pantry-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCatalog parses SampleCatalogJSON.
func TestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(SampleCatalogJSON))
	if err != nil {
		t.Fatal(err)
	}
	return cat
}
