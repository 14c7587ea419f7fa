// Package pantryservice coordinates the credential store, the inventory
// registry, the recipe catalog, and the navigation session. Every operation
// checks its navigation precondition first; a failed check leaves the
// session where it was so the caller can correct and retry.
package pantryservice

import (
	"context"
	"fmt"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/credstore"
	"github.com/mkraev/pantry/internal/index"
	"github.com/mkraev/pantry/internal/inventory"
	"github.com/mkraev/pantry/internal/models"
	"github.com/mkraev/pantry/internal/session"
	"github.com/mkraev/pantry/internal/sse"
)

// Notifier receives inventory change notifications. kind is one of the
// sse event kinds.
type Notifier func(kind string, category models.Category, name string)

// Service is the application service behind the API and MCP surfaces.
type Service struct {
	creds    credstore.Store
	registry *inventory.Registry
	holder   *catalog.Holder
	idx      index.RecipeIndex
	sess     *session.Session
	notify   Notifier
}

// New creates a Service. notify may be nil.
func New(creds credstore.Store, registry *inventory.Registry, holder *catalog.Holder, idx index.RecipeIndex, sess *session.Session, notify Notifier) *Service {
	if notify == nil {
		notify = func(string, models.Category, string) {}
	}
	return &Service{
		creds:    creds,
		registry: registry,
		holder:   holder,
		idx:      idx,
		sess:     sess,
		notify:   notify,
	}
}

// Session returns the current navigation snapshot.
func (s *Service) Session(_ context.Context) session.Snapshot {
	return s.sess.Snapshot()
}

// ValidToken reports whether the bearer token matches the one issued at
// login.
func (s *Service) ValidToken(token string) bool {
	return s.sess.ValidToken(token)
}

// CreateCredential handles the first-run registration screen.
func (s *Service) CreateCredential(_ context.Context, name, password string) error {
	if err := s.sess.Require(session.StateCreatePassword); err != nil {
		return err
	}
	if err := s.creds.Create(name, password); err != nil {
		return err
	}
	return s.sess.Transition(session.StateLogin)
}

// Login verifies the credential and, on success, issues the session token
// and moves to category select. A mismatch fails with ErrUnauthorized and
// keeps the login state.
func (s *Service) Login(_ context.Context, name, password string) (string, error) {
	if err := s.sess.Require(session.StateLogin); err != nil {
		return "", err
	}
	ok, err := s.creds.Verify(name, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	return s.sess.Authenticate()
}

// ResetPassword handles the reset screen. It is reachable from login; a
// failed reset (unknown name) stays on the reset screen, a successful one
// returns to login.
func (s *Service) ResetPassword(_ context.Context, name, newPassword string) error {
	if err := s.sess.Require(session.StateLogin, session.StateResetPassword); err != nil {
		return err
	}
	if s.sess.State() == session.StateLogin {
		if err := s.sess.Transition(session.StateResetPassword); err != nil {
			return err
		}
	}
	if err := s.creds.Reset(name, newPassword); err != nil {
		return err
	}
	return s.sess.Transition(session.StateLogin)
}

// Categories lists the fixed category keys. Available once authenticated.
func (s *Service) Categories(_ context.Context) ([]models.Category, error) {
	if err := s.requireAuthenticated(); err != nil {
		return nil, err
	}
	return models.Categories(), nil
}

// OpenCategory enters a category's detail screen.
func (s *Service) OpenCategory(_ context.Context, cat models.Category) error {
	return s.sess.EnterCategory(cat)
}

// ListItems returns the open category's items in insertion order.
func (s *Service) ListItems(_ context.Context, cat models.Category) ([]models.PantryItem, error) {
	if err := s.requireOpenCategory(cat); err != nil {
		return nil, err
	}
	return s.registry.Items(cat), nil
}

// AddItem adds an item to the open category.
func (s *Service) AddItem(_ context.Context, cat models.Category, name, mfgDate, expDate string) (models.PantryItem, error) {
	if err := s.requireOpenCategory(cat); err != nil {
		return models.PantryItem{}, err
	}
	item, err := s.registry.Add(cat, name, mfgDate, expDate)
	if err != nil {
		return models.PantryItem{}, err
	}
	s.notify(sse.EventItemAdded, cat, item.Name)
	return item, nil
}

// RemoveItem removes a structurally equal item from the open category and
// reports whether anything was removed.
func (s *Service) RemoveItem(_ context.Context, cat models.Category, item models.PantryItem) (bool, error) {
	if err := s.requireOpenCategory(cat); err != nil {
		return false, err
	}
	removed := s.registry.Remove(cat, item)
	if removed {
		s.notify(sse.EventItemRemoved, cat, item.Name)
	}
	return removed, nil
}

// Suggest records the selected item, moves to the recipe list, and returns
// the recipes whose ingredient list contains the item name as an exact
// token. An empty result is a normal outcome.
func (s *Service) Suggest(_ context.Context, itemName string) ([]models.Recipe, error) {
	if itemName == "" {
		return nil, fmt.Errorf("item name: %w", apperr.ErrMissingField)
	}
	if err := s.sess.SelectItem(itemName); err != nil {
		return nil, err
	}
	return s.holder.Snapshot().Match(itemName), nil
}

// OpenRecipe moves to the recipe detail screen and returns the full recipe.
func (s *Service) OpenRecipe(_ context.Context, id int) (*models.Recipe, error) {
	if err := s.sess.Require(session.StateRecipeList); err != nil {
		return nil, err
	}
	recipe, err := s.idx.GetRecipe(id)
	if err != nil {
		return nil, err
	}
	if err := s.sess.Transition(session.StateRecipeDetail); err != nil {
		return nil, err
	}
	return recipe, nil
}

// ListRecipes returns a page of the catalog for browsing.
func (s *Service) ListRecipes(_ context.Context, limit, offset int) ([]index.RecipeRow, int, error) {
	if err := s.requireAuthenticated(); err != nil {
		return nil, 0, err
	}
	return s.idx.ListRecipes(limit, offset)
}

// Back navigates one screen back and returns the resulting state.
func (s *Service) Back(_ context.Context) (session.State, error) {
	return s.sess.Back()
}

// requireAuthenticated rejects operations before the login gate is passed.
func (s *Service) requireAuthenticated() error {
	switch s.sess.State() {
	case session.StateCreatePassword, session.StateLogin, session.StateResetPassword:
		return fmt.Errorf("not logged in: %w", apperr.ErrUnauthorized)
	}
	return nil
}

// requireOpenCategory rejects item operations unless the given category's
// detail screen is the one being viewed.
func (s *Service) requireOpenCategory(cat models.Category) error {
	if err := s.sess.Require(session.StateCategoryDetail); err != nil {
		return err
	}
	if s.sess.Category() != cat {
		return fmt.Errorf("category %s is not open: %w", cat, apperr.ErrInvalidTransition)
	}
	return nil
}
