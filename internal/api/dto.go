package api

import (
	"github.com/mkraev/pantry/internal/index"
	"github.com/mkraev/pantry/internal/models"
	"github.com/mkraev/pantry/internal/session"
)

// CredentialRequest is the body for registration, login, and reset.
// Password carries the new password on reset.
type CredentialRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse carries the session token issued on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// AddItemRequest is the body for adding a pantry item. Dates are
// dd/mm/yyyy strings; no other format is accepted.
type AddItemRequest struct {
	Name            string `json:"name"`
	ManufactureDate string `json:"manufacture_date"`
	ExpiryDate      string `json:"expiry_date"`
}

// RemoveItemRequest identifies the item to remove by full structural value.
type RemoveItemRequest struct {
	Name            string `json:"name"`
	ManufactureDate string `json:"manufacture_date"`
	ExpiryDate      string `json:"expiry_date"`
	Tag             string `json:"tag"`
}

// RemoveItemResponse reports whether a removal occurred; removing an
// absent item is a no-op, not an error.
type RemoveItemResponse struct {
	Removed bool `json:"removed"`
}

// ItemListResponse wraps a category's items in insertion order.
type ItemListResponse struct {
	Category models.Category     `json:"category"`
	Items    []models.PantryItem `json:"items"`
}

// SuggestRequest names the pantry item to find recipes for.
type SuggestRequest struct {
	Item string `json:"item"`
}

// SuggestResponse lists matching recipes in catalog order.
type SuggestResponse struct {
	Item    string          `json:"item"`
	Recipes []models.Recipe `json:"recipes"`
}

// RecipeListResponse wraps a paginated catalog browse.
type RecipeListResponse struct {
	Recipes []index.RecipeRow `json:"recipes"`
	Total   int               `json:"total"`
}

// SessionResponse is the navigation snapshot driving the thin client.
type SessionResponse = session.Snapshot

// BackResponse reports the state reached by navigating back.
type BackResponse struct {
	State session.State `json:"state"`
}
