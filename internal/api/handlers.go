package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/index"
	"github.com/mkraev/pantry/internal/models"
	"github.com/mkraev/pantry/internal/pantryservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *pantryservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *pantryservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeErr maps domain errors to HTTP statuses. Validation and state
// errors are client-recoverable; anything unclassified is a 500.
func writeErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrMissingField), errors.Is(err, apperr.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrDuplicateItem), errors.Is(err, apperr.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

func categoryParam(w http.ResponseWriter, r *http.Request) (models.Category, bool) {
	cat, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
		return "", false
	}
	return cat, true
}

// CreateCredential handles POST /auth/password (first-run registration).
func (h *Handler) CreateCredential(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.CreateCredential(r.Context(), req.Name, req.Password); err != nil {
		writeErr(w, "create credential", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		writeErr(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// ResetPassword handles POST /auth/reset.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req.Name, req.Password); err != nil {
		writeErr(w, "reset password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session(r.Context()))
}

// Categories handles GET /categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeErr(w, "categories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// OpenCategory handles POST /categories/{category}/open.
func (h *Handler) OpenCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.OpenCategory(r.Context(), cat); err != nil {
		writeErr(w, "open category", err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Session(r.Context()))
}

// ListItems handles GET /categories/{category}/items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}
	items, err := h.svc.ListItems(r.Context(), cat)
	if err != nil {
		writeErr(w, "list items", err)
		return
	}
	if items == nil {
		items = []models.PantryItem{}
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Category: cat, Items: items})
}

// AddItem handles POST /categories/{category}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.svc.AddItem(r.Context(), cat, req.Name, req.ManufactureDate, req.ExpiryDate)
	if err != nil {
		writeErr(w, "add item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// RemoveItem handles DELETE /categories/{category}/items.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}
	var req RemoveItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	removed, err := h.svc.RemoveItem(r.Context(), cat, models.PantryItem{
		Name:            req.Name,
		ManufactureDate: req.ManufactureDate,
		ExpiryDate:      req.ExpiryDate,
		Tag:             req.Tag,
	})
	if err != nil {
		writeErr(w, "remove item", err)
		return
	}
	writeJSON(w, http.StatusOK, RemoveItemResponse{Removed: removed})
}

// Suggest handles POST /suggest.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	recipes, err := h.svc.Suggest(r.Context(), req.Item)
	if err != nil {
		writeErr(w, "suggest", err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Item: req.Item, Recipes: recipes})
}

// ListRecipes handles GET /recipes.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	rows, total, err := h.svc.ListRecipes(r.Context(), limit, offset)
	if err != nil {
		writeErr(w, "list recipes", err)
		return
	}
	if rows == nil {
		rows = []index.RecipeRow{}
	}
	writeJSON(w, http.StatusOK, RecipeListResponse{Recipes: rows, Total: total})
}

// GetRecipe handles GET /recipes/{id}.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("recipe id must be an integer"))
		return
	}
	recipe, err := h.svc.OpenRecipe(r.Context(), id)
	if err != nil {
		writeErr(w, "get recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Back handles POST /back.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Back(r.Context())
	if err != nil {
		writeErr(w, "back", err)
		return
	}
	writeJSON(w, http.StatusOK, BackResponse{State: state})
}
