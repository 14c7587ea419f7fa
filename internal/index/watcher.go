package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mkraev/pantry/internal/catalog"
)

// EventCallback is called after a watcher-driven catalog reload.
type EventCallback func()

// Watch monitors the catalog file and, on change, reloads it, swaps the
// holder, and resyncs the index, until ctx is cancelled. Events are
// debounced because editors and the converter typically produce several
// filesystem events per save.
//
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename (the converter's write strategy) keeps being
// observed after the inode changes. A reload that fails to parse is logged
// and dropped; the process keeps serving the last good catalog.
func Watch(ctx context.Context, db *DB, holder *catalog.Holder, path string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("catalog", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			reload(db, holder, abs, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

func reload(db *DB, holder *catalog.Holder, path string, logger *slog.Logger, cb EventCallback) {
	cat, err := catalog.Load(path)
	if err != nil {
		logger.Warn("watcher: reload failed, keeping previous catalog",
			slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	if err := Sync(db, cat, logger); err != nil {
		logger.Warn("watcher: resync failed", slog.String("error", err.Error()))
		return
	}
	holder.Swap(cat)
	logger.Info("watcher: catalog reloaded", slog.Int("recipes", cat.Len()))
	if cb != nil {
		cb()
	}
}
