package catalog

import "sync"

// Holder hands out the current catalog and lets the file watcher swap in a
// freshly loaded one. Reads vastly outnumber swaps.
type Holder struct {
	mu  sync.RWMutex
	cat *Catalog
}

// NewHolder creates a Holder around an initial catalog.
func NewHolder(cat *Catalog) *Holder {
	return &Holder{cat: cat}
}

// Snapshot returns the current catalog. The returned value is immutable.
func (h *Holder) Snapshot() *Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat
}

// Swap replaces the current catalog.
func (h *Holder) Swap(cat *Catalog) {
	h.mu.Lock()
	h.cat = cat
	h.mu.Unlock()
}
