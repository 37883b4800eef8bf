// Package store2 is the read-only boundary to the Store2 attendance session.
// This module never authenticates Store2 users; it only reads who is signed in.
package store2

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/elite-acai/pdv-auth/internal/access"
	"github.com/elite-acai/pdv-auth/internal/permissions"
)

// SessionUser is the signed-in Store2 attendance user.
type SessionUser struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Username    string          `json:"username"`
	Role        string          `json:"role,omitempty"`
	Permissions map[string]bool `json:"permissions"`
}

// Grants returns the user's permission map restricted to the vocabulary.
func (u *SessionUser) Grants() permissions.Set {
	out := permissions.Set{}
	if u == nil {
		return out
	}
	for name, granted := range u.Permissions {
		key := permissions.Key(name)
		if key.Valid() {
			out[key] = granted
		}
	}
	return out
}

// Profile exposes the attributes used for administrative detection.
func (u *SessionUser) Profile() access.Profile {
	if u == nil {
		return access.Profile{}
	}
	return access.Profile{Name: u.Name, Username: u.Username, Role: u.Role}
}

// UnmarshalJSON decodes a session user. Permission values that are not JSON
// booleans are dropped one by one instead of failing the whole payload.
func (u *SessionUser) UnmarshalJSON(data []byte) error {
	type plain SessionUser
	var aux struct {
		plain
		Permissions map[string]any `json:"permissions"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = SessionUser(aux.plain)
	u.Permissions = make(map[string]bool, len(aux.Permissions))
	for name, value := range aux.Permissions {
		if granted, ok := value.(bool); ok {
			u.Permissions[name] = granted
		}
	}
	return nil
}

// DecodeSessionUser parses a Store2 session payload.
func DecodeSessionUser(raw []byte) (*SessionUser, error) {
	var user SessionUser
	if errUnmarshal := json.Unmarshal(raw, &user); errUnmarshal != nil {
		return nil, fmt.Errorf("store2: decode session user: %w", errUnmarshal)
	}
	if user.ID == "" && user.Username == "" {
		return nil, fmt.Errorf("store2: session user has no id or username")
	}
	return &user, nil
}

// Session holds the ambient Store2 user. It satisfies access.Fallback.
type Session struct {
	mu   sync.RWMutex
	user *SessionUser
}

// NewSession returns a session, optionally pre-populated with user.
func NewSession(user *SessionUser) *Session {
	return &Session{user: user}
}

// Set replaces the signed-in user.
func (s *Session) Set(user *SessionUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.Set(nil)
}

// User returns the signed-in user or nil.
func (s *Session) User() *SessionUser {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Current returns the signed-in user as an access identity, or nil when signed out.
func (s *Session) Current() access.Identity {
	user := s.User()
	if user == nil {
		return nil
	}
	return user
}
