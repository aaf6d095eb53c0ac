package agent

import (
	"fmt"

	"github.com/ganai-labs/voiceagents/internal/persona"
)

// Definition describes one voice agent: its personas, domain tools and
// presentation hints. A definition is built once and shared across sessions;
// per-session state lives in the Runner.
type Definition struct {
	// Name is the agent's registry key (e.g. "barista", "tutor").
	Name string
	// Description is a one-line summary shown in CLI listings.
	Description string
	// Personas lists the conversational roles. Single-persona agents have
	// exactly one entry.
	Personas []persona.Persona
	// Initial is the persona activated at session start. Empty defaults to
	// the first persona.
	Initial string
	// Greeting, when set, is spoken verbatim at session start instead of
	// asking the model for an opening line.
	Greeting string
	// Voice is a synthesis voice hint for the TTS collaborator.
	Voice string
	// Tools holds the agent's domain tool handlers.
	Tools *ToolRegistry
}

// Validate checks a definition for configuration errors. Duplicate persona
// keys, unknown transfer targets and a missing initial persona are all fatal
// at setup time.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("agent: definition missing name")
	}
	if len(d.Personas) == 0 {
		return fmt.Errorf("agent %s: no personas defined", d.Name)
	}

	keys := make(map[string]bool, len(d.Personas))
	for _, p := range d.Personas {
		if p.Key == "" {
			return fmt.Errorf("agent %s: persona with empty key", d.Name)
		}
		if keys[p.Key] {
			return persona.DuplicateRegistrationError{Key: p.Key}
		}
		keys[p.Key] = true
	}
	for _, p := range d.Personas {
		for _, target := range p.Transfers {
			if !keys[target] {
				return fmt.Errorf("agent %s: persona %s transfers to unknown persona %s",
					d.Name, p.Key, target)
			}
		}
	}
	if d.Initial != "" && !keys[d.Initial] {
		return fmt.Errorf("agent %s: initial persona %s not defined", d.Name, d.Initial)
	}
	return nil
}

// InitialPersona returns the starting persona key.
func (d *Definition) InitialPersona() string {
	if d.Initial != "" {
		return d.Initial
	}
	return d.Personas[0].Key
}
