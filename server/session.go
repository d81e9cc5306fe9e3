package server

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions maps opaque bearer tokens to user IDs. Tokens live in memory
// and are lost on restart.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewSessions() *Sessions {
	return &Sessions{tokens: make(map[string]string)}
}

// Create issues a new token for userID.
func (s *Sessions) Create(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

func (s *Sessions) Lookup(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	return id, ok
}

func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// RevokeUser drops every token held by userID.
func (s *Sessions) RevokeUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, id := range s.tokens {
		if id == userID {
			delete(s.tokens, t)
		}
	}
}
