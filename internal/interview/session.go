package interview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentscout/screener/pkg/models"
	"github.com/talentscout/screener/pkg/repository"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one active interview. Turns hold the session lock so a session
// processes one message to completion before accepting the next. LastActive
// is guarded by mu; the sweeper reads it under the same lock.
type Session struct {
	ID         string
	Machine    *Machine
	CreatedAt  time.Time
	LastActive time.Time

	mu sync.Mutex
}

// Process runs one turn through the session's machine.
func (s *Session) Process(ctx context.Context, input string) TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActive = time.Now()
	return s.Machine.ProcessMessage(ctx, input)
}

// Snapshot is a read-only view of a session, used to resume a conversation
// in a fresh client.
type Snapshot struct {
	Stage     string                  `json:"stage"`
	Candidate models.CandidateRecord  `json:"candidate"`
	History   []models.Turn           `json:"history"`
	Sentiment models.SentimentSummary `json:"sentiment"`
}

// Snapshot captures the session state between turns.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Stage:     s.Machine.Stage().String(),
		Candidate: s.Machine.Candidate(),
		History:   s.Machine.History(),
		Sentiment: s.Machine.LatestSentiment(),
	}
}

// Manager owns every active session, keyed by a generated id, with an
// explicit create/resume/expire lifecycle.
type Manager struct {
	gen    Generator
	store  repository.CandidateStore
	cfg    Config
	idle   time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(gen Generator, store repository.CandidateStore, cfg Config, idle time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		gen:      gen,
		store:    store,
		cfg:      cfg,
		idle:     idle,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and returns it along with the greeting text.
func (m *Manager) Create() (*Session, string) {
	machine := NewMachine(m.gen, m.store, m.cfg, m.logger)
	greeting := machine.Start()

	s := &Session{
		ID:         uuid.NewString(),
		Machine:    machine,
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", slog.String("session_id", s.ID))
	return s, greeting
}

// Get resumes an existing session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Expire removes a session. The durable candidate record is untouched.
func (m *Manager) Expire(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session expired", slog.String("session_id", id))
	return nil
}

// SweepIdle expires sessions whose last activity predates the idle timeout
// and returns how many were removed.
func (m *Manager) SweepIdle() int {
	cutoff := time.Now().Add(-m.idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		// LastActive is written under the session lock; take it here too
		s.mu.Lock()
		idle := s.LastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("idle sessions swept", slog.Int("count", removed))
	}
	return removed
}

// Len reports the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
