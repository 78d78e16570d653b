package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrMissingKey is returned when a session is created without a key field.
	ErrMissingKey = errors.New("session key is required")
)

// Service manages sessions.
type Service struct {
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a new session service.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session identifying objects by key.
func (s *Service) Create(key string) (*Session, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	sess := newSession(key, s.logger)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	s.logger.Info("Session created", zap.String("session", sess.ID()), zap.String("key", key))
	return sess, nil
}

// Get returns the session with the given id.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// List describes all sessions ordered by creation time.
func (s *Service) List() []Info {
	s.mu.RLock()
	infos := make([]Info, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sess.Info())
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Delete releases every record of the session and removes it.
func (s *Service) Delete(id string) (Info, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := sess.Close(); err != nil {
		return Info{}, fmt.Errorf("failed to release session %s: %w", id, err)
	}

	info := sess.Info()
	s.logger.Info("Session deleted", zap.String("session", id), zap.Int("released", info.Released))
	return info, nil
}
