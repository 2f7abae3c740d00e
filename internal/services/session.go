package services

import (
	"sync"

	"github.com/desertthunder/spotmp3/internal/models"
)

// Session is an authenticated user handle. It enables liked songs and private playlists of Account.
type Session struct {
	Account models.Account
	Catalog Catalog
}

// SessionStore holds the optional process-wide session.
//
// A new login replaces the current session; there is no logout.
type SessionStore struct {
	mu      sync.RWMutex
	current *Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set replaces the current session.
func (s *SessionStore) Set(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
}

// Current returns the session, if one has been established.
func (s *SessionStore) Current() (*Session, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Owns reports whether the current session belongs to accountID.
func (s *SessionStore) Owns(accountID string) (*Session, bool) {
	session, ok := s.Current()
	if !ok || accountID == "" || session.Account.ID != accountID {
		return nil, false
	}
	return session, true
}
