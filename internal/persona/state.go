package persona

import (
	"github.com/ganai-labs/voiceagents/internal/conversation"
)

// SessionState is the per-session mutable state of the hand-off machine: the
// persona registry, one conversation log per persona, and the current /
// previous active keys. It is created when a session begins, discarded when
// the session ends, and never shared between sessions.
//
// Invariant: at most one persona is active at a time. Before the first
// activation both current and previous are empty.
type SessionState struct {
	registry *Registry
	logs     map[string]conversation.Log
	current  string
	previous string
}

// NewSessionState builds session state over a populated registry.
func NewSessionState(registry *Registry) *SessionState {
	return &SessionState{
		registry: registry,
		logs:     make(map[string]conversation.Log),
	}
}

// Registry exposes the persona registry.
func (s *SessionState) Registry() *Registry {
	return s.registry
}

// Activate designates the starting persona. The persona's system instruction
// is appended to its log so the first generation sees it, exactly as a
// hand-off entry would.
func (s *SessionState) Activate(key string) error {
	p, ok := s.registry.Get(key)
	if !ok {
		return UnknownPersonaError{Key: key}
	}

	log := s.logs[key]
	if err := log.Append(conversation.NewMessage(conversation.RoleSystem, p.Instructions)); err != nil {
		return err
	}
	s.logs[key] = log
	s.current = key
	return nil
}

// Current returns the active persona, or ok=false before the first activation.
func (s *SessionState) Current() (Persona, bool) {
	if s.current == "" {
		return Persona{}, false
	}
	return s.registry.Get(s.current)
}

// Previous returns the previously active persona, or ok=false if no hand-off
// has happened yet.
func (s *SessionState) Previous() (Persona, bool) {
	if s.previous == "" {
		return Persona{}, false
	}
	return s.registry.Get(s.previous)
}

// CurrentKey returns the active persona key ("" before first activation).
func (s *SessionState) CurrentKey() string { return s.current }

// PreviousKey returns the previously active persona key.
func (s *SessionState) PreviousKey() string { return s.previous }

// Log returns a copy of the named persona's conversation log.
func (s *SessionState) Log(key string) conversation.Log {
	return s.logs[key].Clone()
}

// ActiveLog returns a copy of the active persona's log.
func (s *SessionState) ActiveLog() conversation.Log {
	return s.logs[s.current].Clone()
}

// AppendToActive validates and appends an item to the active persona's log.
func (s *SessionState) AppendToActive(item conversation.Item) error {
	if s.current == "" {
		return UnknownPersonaError{Key: ""}
	}
	log := s.logs[s.current]
	if err := log.Append(item); err != nil {
		return err
	}
	s.logs[s.current] = log
	return nil
}
