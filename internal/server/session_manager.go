package server

import (
	"context"
	"sync"

	"quizdeck-server/internal/quiz"
)

// AdminSession binds one issued token to the user it authenticates.
type AdminSession struct {
	Token  string `json:"token"`
	UserID int    `json:"userId"`
}

// SessionStore is the admin session backend. The memory store is the
// default; a Redis store can be selected by config so tokens survive a
// process restart without the snapshot file.
type SessionStore interface {
	Put(ctx context.Context, session AdminSession) error
	Lookup(ctx context.Context, token string) (AdminSession, error)
	Remove(ctx context.Context, token string) error
	All(ctx context.Context) ([]AdminSession, error)
}

// MemorySessionStore keeps sessions in a process-local map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]AdminSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]AdminSession)}
}

func (s *MemorySessionStore) Put(_ context.Context, session AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *MemorySessionStore) Lookup(_ context.Context, token string) (AdminSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[token]
	if !exists {
		return AdminSession{}, quiz.Unauthorizedf("token is invalid")
	}
	return session, nil
}

func (s *MemorySessionStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemorySessionStore) All(_ context.Context) ([]AdminSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]AdminSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}
