// Package session tracks active conversations across transports and
// publishes their lifecycle to the event bus.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ganai-labs/voiceagents/internal/eventbus"
)

// Session is one live conversation with an agent.
type Session struct {
	ID        string
	Agent     string
	StartTime time.Time

	mu     sync.RWMutex
	state  eventbus.SessionState
	closer func()
}

// State returns the session state.
func (s *Session) State() eventbus.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) setState(state eventbus.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Manager registers sessions and announces their lifecycle.
type Manager struct {
	bus *eventbus.Bus

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager publishing to bus (which may be nil).
func NewManager(bus *eventbus.Bus) *Manager {
	return &Manager{
		bus:      bus,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session for the named agent. closer is invoked when
// the session is closed; it may be nil.
func (m *Manager) Create(agentName string, closer func()) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Agent:     agentName,
		StartTime: time.Now(),
		state:     eventbus.SessionStateCreated,
		closer:    closer,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("[Session] Created %s for agent %s", s.ID, agentName)
	m.publishLifecycle(s, eventbus.SessionStateCreated, "")
	return s
}

// Start marks the session as running.
func (m *Manager) Start(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.setState(eventbus.SessionStateRunning)
	m.publishLifecycle(s, eventbus.SessionStateRunning, "")
	return nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session: %s not found", id)
	}
	return s, nil
}

// List returns all registered sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// Close stops a session, runs its closer, and removes it.
func (m *Manager) Close(id, reason string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session: %s not found", id)
	}

	s.setState(eventbus.SessionStateStopped)
	if s.closer != nil {
		s.closer()
	}
	log.Printf("[Session] Closed %s (%s)", s.ID, reason)
	m.publishLifecycle(s, eventbus.SessionStateStopped, reason)
	return nil
}

// CloseAll stops every session, typically at daemon shutdown.
func (m *Manager) CloseAll(reason string) {
	for _, s := range m.List() {
		if err := m.Close(s.ID, reason); err != nil {
			log.Printf("[Session] Closing %s: %v", s.ID, err)
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) publishLifecycle(s *Session, state eventbus.SessionState, reason string) {
	m.bus.Publish(context.Background(), eventbus.Envelope{
		Topic:  eventbus.TopicSessionsLifecycle,
		Source: eventbus.SourceSessionManager,
		Payload: eventbus.SessionLifecycleEvent{
			SessionID: s.ID,
			Agent:     s.Agent,
			State:     state,
			Reason:    reason,
		},
	})
}
