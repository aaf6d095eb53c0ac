// Package persona implements the multi-persona hand-off mechanism: a small
// state machine that switches which conversational persona drives a shared
// session while carrying over a bounded slice of history.
package persona

import (
	"errors"
	"fmt"
)

// Persona is a named conversational role. Behaviour is data, not subclassing:
// tools and transfer targets are plain lists resolved by the agent runtime, so
// the hand-off controller is written once against this one type.
type Persona struct {
	// Key uniquely identifies the persona within a session
	// (e.g. "coordinator", "learn", "quiz").
	Key string
	// Instructions is the static system prompt re-asserted on every entry.
	Instructions string
	// Tools lists the domain tool names this persona may invoke.
	Tools []string
	// Transfers lists the persona keys this persona may hand off to. The
	// transition graph of the session is defined entirely by these lists.
	Transfers []string
}

// UnknownPersonaError reports an activation or transfer target that was never
// registered. The operation fails and session state is left untouched.
type UnknownPersonaError struct {
	Key string
}

func (e UnknownPersonaError) Error() string {
	return fmt.Sprintf("persona: unknown persona %q", e.Key)
}

// DuplicateRegistrationError reports two personas registered under one key.
// This is a configuration error and fatal at session setup.
type DuplicateRegistrationError struct {
	Key string
}

func (e DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("persona: persona %q already registered", e.Key)
}

// IsUnknownPersona returns true when err is (or wraps) an UnknownPersonaError.
func IsUnknownPersona(err error) bool {
	var target UnknownPersonaError
	return errors.As(err, &target)
}
