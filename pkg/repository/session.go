package repository

import (
	"sync"
	"time"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRepository keeps sessions in memory; a session idle for longer than ttl is gone.
// A zero ttl keeps sessions forever.
func NewSessionRepository(ttl time.Duration) *sessionRepository {
	return &sessionRepository{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessionRepository) Save(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = s.now()
	s.sessions[session.ID] = session
}

func (s *sessionRepository) GetByID(id string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return domain.Session{}, false
	}

	return session, true
}

// Update applies fn to the stored session under the write lock and saves the result
// unless fn fails. It returns domain.ErrNotFound for unknown or expired sessions.
func (s *sessionRepository) Update(id string, fn func(*domain.Session) error) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return domain.Session{}, domain.ErrNotFound
	}

	if err := fn(&session); err != nil {
		return session, err
	}

	session.UpdatedAt = s.now()
	s.sessions[id] = session

	return session, nil
}

func (s *sessionRepository) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// DeleteExpired drops idle sessions and returns how many were removed.
// Sessions with an analysis in flight are kept.
func (s *sessionRepository) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.State != domain.StateAnalyzing && s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *sessionRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

func (s *sessionRepository) expired(session domain.Session) bool {
	return s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl
}
