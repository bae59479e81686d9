package sessions

import (
	"campus-route-service/internal/adapters/render"
	"campus-route-service/internal/services"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one browser tab's route with the map model it draws into.
type Session struct {
	ID           string
	Orchestrator *services.Orchestrator
	Renderer     *render.GeoJSONRenderer

	mu       sync.Mutex
	lastUsed time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Factory builds the orchestrator and renderer for a fresh session.
type Factory func() (*services.Orchestrator, *render.GeoJSONRenderer, error)

// Store keeps live sessions in memory. Sessions do not survive a restart.
type Store struct {
	newSession Factory
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(factory Factory) *Store {
	return &Store{
		newSession: factory,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

func (s *Store) Create() (*Session, error) {
	orch, renderer, err := s.newSession()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	sess := &Session{
		ID:           uuid.NewString(),
		Orchestrator: orch,
		Renderer:     renderer,
		lastUsed:     s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Debug().Str("session", sess.ID).Msg("session created")
	return sess, nil
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastUsed().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Int("live", len(s.sessions)).Msg("swept idle sessions")
	}
	return removed
}
