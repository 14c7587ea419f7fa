// Package credstore persists the single login credential.
//
// Storage is plaintext by explicit scope; the Store interface exists so a
// hashing implementation can replace File without touching callers.
package credstore

// Store is the interface for credential operations.
type Store interface {
	// Exists reports whether a credential has been created. The UI uses
	// this to choose between registration and login on startup.
	Exists() bool
	// Create writes the credential, replacing any prior content.
	// Empty name or password fails with apperr.ErrMissingField.
	Create(name, password string) error
	// Verify reports whether name and password exactly match the stored
	// record. An absent store verifies false without error.
	Verify(name, password string) (bool, error)
	// Reset overwrites the password, preserving the name. An absent store
	// or a name mismatch fails with apperr.ErrNotFound.
	Reset(name, newPassword string) error
}
