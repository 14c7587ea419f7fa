// Package api implements the Pantry REST API using chi.
package api

import (
	"net/http"
	"strings"
)

// TokenValidator checks a presented bearer token. The session issues one
// token at login; there is no logout, so the token stays valid until
// process exit.
type TokenValidator interface {
	ValidToken(token string) bool
}

// AuthMiddleware returns middleware requiring a valid
// "Authorization: Bearer <token>" header. The token comes from a
// successful login, so every protected route is behind the login gate.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || !tokens.ValidToken(strings.TrimPrefix(auth, "Bearer ")) {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
