package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/models"
)

// File implements Store backed by a single JSON file. The file's existence
// is the sole signal that a credential has been created.
type File struct {
	path string
}

// NewFile creates a Store persisting to path. The file itself may not exist
// yet; its parent directory is created on first write.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("credstore: resolve path: %w", err)
	}
	return &File{path: abs}, nil
}

// Exists reports whether the credential file is present.
func (f *File) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

// Create validates and writes the credential, atomically replacing any
// previous content.
func (f *File) Create(name, password string) error {
	if name == "" || password == "" {
		return fmt.Errorf("credstore: name and password: %w", apperr.ErrMissingField)
	}
	return f.write(models.Credential{Name: name, Password: password})
}

// Verify compares name and password against the stored record,
// case-sensitively. An absent store verifies false.
func (f *File) Verify(name, password string) (bool, error) {
	cred, err := f.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return cred.Name == name && cred.Password == password, nil
}

// Reset overwrites the password field only, keeping the stored name.
func (f *File) Reset(name, newPassword string) error {
	cred, err := f.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("credstore: no credential on file: %w", apperr.ErrNotFound)
		}
		return err
	}
	if cred.Name != name {
		return fmt.Errorf("credstore: name %q: %w", name, apperr.ErrNotFound)
	}
	cred.Password = newPassword
	return f.write(cred)
}

func (f *File) read() (models.Credential, error) {
	var cred models.Credential
	data, err := os.ReadFile(f.path)
	if err != nil {
		return cred, err
	}
	if err := json.Unmarshal(data, &cred); err != nil {
		return cred, fmt.Errorf("credstore: decode %s: %w", f.path, err)
	}
	return cred, nil
}

// write persists the record atomically: tmp file, fsync, rename.
func (f *File) write(cred models.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("credstore: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("credstore: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".pantry-cred-*")
	if err != nil {
		return fmt.Errorf("credstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("credstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("credstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("credstore: rename: %w", err)
	}
	success = true
	return nil
}
