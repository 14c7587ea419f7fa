// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrMissingField indicates a required input field was left empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidDate indicates a date that is not valid dd/mm/yyyy.
	ErrInvalidDate = errors.New("invalid date format")
	// ErrDuplicateItem indicates an item with the same name and expiry
	// date already present in the category.
	ErrDuplicateItem = errors.New("duplicate item")
	// ErrNotFound indicates a missing record (credential, recipe, category).
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates failed or missing authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransition indicates an operation that is not reachable
	// from the current navigation state.
	ErrInvalidTransition = errors.New("invalid navigation transition")
)
