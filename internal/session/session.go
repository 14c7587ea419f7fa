// Package session implements the single-user navigation state machine and
// the bearer token issued on login.
//
// The reachable states mirror the original screen flow: password creation
// on first run, login with an optional reset detour, then category select,
// category detail, and the recipe list/detail pair. There is no logout;
// the session lives until process exit.
package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/mkraev/pantry/internal/apperr"
	"github.com/mkraev/pantry/internal/models"
)

// State is one navigation state.
type State string

// Navigation states.
const (
	StateCreatePassword State = "create_password"
	StateLogin          State = "login"
	StateResetPassword  State = "reset_password"
	StateCategorySelect State = "category_select"
	StateCategoryDetail State = "category_detail"
	StateRecipeList     State = "recipe_list"
	StateRecipeDetail   State = "recipe_detail"
)

// transitions lists the allowed edges. Includes the back edges observed in
// the original flow (detail screens return to the category detail, which
// returns to category select).
var transitions = map[State][]State{
	StateCreatePassword: {StateLogin},
	StateLogin:          {StateResetPassword, StateCategorySelect},
	StateResetPassword:  {StateLogin},
	StateCategorySelect: {StateCategoryDetail},
	StateCategoryDetail: {StateRecipeList, StateCategorySelect},
	StateRecipeList:     {StateRecipeDetail, StateCategoryDetail},
	StateRecipeDetail:   {StateCategoryDetail},
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	State        State           `json:"state"`
	Category     models.Category `json:"category,omitempty"`
	SelectedItem string          `json:"selected_item,omitempty"`
}

// Session holds the current navigation state, the category being viewed,
// and the item most recently chosen for recipe suggestion. All state is
// explicit here rather than spread over process-wide variables.
type Session struct {
	mu       sync.Mutex
	state    State
	category models.Category
	selected string
	token    string
}

// New creates a session. The initial state is login when a credential
// already exists, otherwise password creation.
func New(hasCredential bool) *Session {
	s := &Session{state: StateCreatePassword}
	if hasCredential {
		s.state = StateLogin
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current state, category, and selected item.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Category: s.category, SelectedItem: s.selected}
}

// Transition moves to the target state if the edge exists. On failure the
// session is unchanged, so the caller can correct and retry.
func (s *Session) Transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(to)
}

func (s *Session) transitionLocked(to State) error {
	for _, allowed := range transitions[s.state] {
		if allowed == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%s -> %s: %w", s.state, to, apperr.ErrInvalidTransition)
}

// Require fails with ErrInvalidTransition unless the current state is one
// of the given states.
func (s *Session) Require(states ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range states {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("operation not available in state %s: %w", s.state, apperr.ErrInvalidTransition)
}

// Authenticate moves login -> category select and issues the bearer token
// protecting the rest of the API.
func (s *Session) Authenticate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StateCategorySelect); err != nil {
		return "", err
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: token: %w", err)
	}
	s.token = hex.EncodeToString(buf)
	return s.token, nil
}

// ValidToken reports whether t matches the issued token.
func (s *Session) ValidToken(t string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || t == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.token), []byte(t)) == 1
}

// EnterCategory moves category select -> category detail and records the
// category being viewed.
func (s *Session) EnterCategory(cat models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StateCategoryDetail); err != nil {
		return err
	}
	s.category = cat
	return nil
}

// Category returns the category currently being viewed.
func (s *Session) Category() models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SelectItem moves category detail -> recipe list and records the item the
// suggestion was requested for.
func (s *Session) SelectItem(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StateRecipeList); err != nil {
		return err
	}
	s.selected = name
	return nil
}

// SelectedItem returns the item most recently chosen for suggestion.
func (s *Session) SelectedItem() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Back returns to the previous screen: recipe detail and recipe list fall
// back to the category detail, category detail to category select.
func (s *Session) Back() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var to State
	switch s.state {
	case StateRecipeDetail, StateRecipeList:
		to = StateCategoryDetail
	case StateCategoryDetail:
		to = StateCategorySelect
	default:
		return s.state, fmt.Errorf("no back edge from %s: %w", s.state, apperr.ErrInvalidTransition)
	}
	if err := s.transitionLocked(to); err != nil {
		return s.state, err
	}
	return s.state, nil
}
