// Package inventory holds the in-memory, per-category pantry registry.
// Contents live for the process lifetime only and are never persisted.
package inventory

import (
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/expiry"
	"github.com/mkraev/pantry/internal/models"
)

// Registry maps each category to its ordered item list. Usage is single-user
// but the HTTP surface is concurrent, so mutations are mutex-guarded.
type Registry struct {
	mu    sync.Mutex
	items map[models.Category][]models.PantryItem
	now   func() time.Time
}

// New creates an empty registry using the wall clock.
func New() *Registry {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty registry with an injectable clock, used by
// tests to pin classification results.
func NewWithClock(now func() time.Time) *Registry {
	items := make(map[models.Category][]models.PantryItem, len(models.Categories()))
	for _, c := range models.Categories() {
		items[c] = nil
	}
	return &Registry{items: items, now: now}
}

type addRequest struct {
	Name            string
	ManufactureDate string
	ExpiryDate      string
}

func (r addRequest) validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.ManufactureDate, validation.Required),
		validation.Field(&r.ExpiryDate, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrMissingField, err)
	}
	return nil
}

// Add validates the fields, parses the expiry date, rejects duplicates on
// (name, expiry date) within the category, and appends the item with its
// freshness tag stamped from the current clock. The tag is never
// recomputed after this point.
func (r *Registry) Add(cat models.Category, name, mfgDate, expDate string) (models.PantryItem, error) {
	req := addRequest{Name: name, ManufactureDate: mfgDate, ExpiryDate: expDate}
	if err := req.validate(); err != nil {
		return models.PantryItem{}, err
	}

	exp, err := expiry.ParseDate(expDate)
	if err != nil {
		return models.PantryItem{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items[cat] {
		if it.Name == name && it.ExpiryDate == expDate {
			return models.PantryItem{}, fmt.Errorf("%q expiring %s: %w", name, expDate, apperr.ErrDuplicateItem)
		}
	}

	item := models.PantryItem{
		Name:            name,
		ManufactureDate: mfgDate,
		ExpiryDate:      expDate,
		Tag:             expiry.Classify(exp, r.now()),
	}
	r.items[cat] = append(r.items[cat], item)
	return item, nil
}

// Remove deletes the first item structurally equal to the argument and
// reports whether a removal occurred. Removing an absent item is a no-op.
func (r *Registry) Remove(cat models.Category, item models.PantryItem) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.items[cat]
	for i, it := range list {
		if it == item {
			r.items[cat] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a snapshot of the category's items in insertion order.
func (r *Registry) Items(cat models.Category) []models.PantryItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.PantryItem, len(r.items[cat]))
	copy(out, r.items[cat])
	return out
}
