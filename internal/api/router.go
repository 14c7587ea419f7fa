package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkraev/pantry/internal/pantryservice"
)

// NewRouter creates a chi router with all API routes mounted. The auth
// endpoints and the session snapshot are open; everything else requires
// the bearer token issued at login. sseHandler, if non-nil, is mounted at
// GET /events inside the auth group.
func NewRouter(svc *pantryservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Login gate and navigation snapshot.
	r.Post("/auth/password", h.CreateCredential)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/reset", h.ResetPassword)
	r.Get("/session", h.Session)

	// Everything below is only reachable after login.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(svc))

		r.Get("/categories", h.Categories)
		r.Post("/categories/{category}/open", h.OpenCategory)
		r.Get("/categories/{category}/items", h.ListItems)
		r.Post("/categories/{category}/items", h.AddItem)
		r.Delete("/categories/{category}/items", h.RemoveItem)

		r.Post("/suggest", h.Suggest)
		r.Get("/recipes", h.ListRecipes)
		r.Get("/recipes/{id}", h.GetRecipe)
		r.Post("/back", h.Back)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
