package index

import (
	"log/slog"

	"github.com/mkraev/pantry/internal/catalog"
)

// Sync rebuilds the index from the given catalog. Called once at startup
// and again by the watcher after a successful catalog reload.
func Sync(db *DB, cat *catalog.Catalog, logger *slog.Logger) error {
	if err := db.ReplaceAll(cat.Recipes()); err != nil {
		return err
	}
	logger.Debug("sync: index rebuilt", slog.Int("recipes", cat.Len()))
	return nil
}
