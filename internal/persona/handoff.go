package persona

import (
	"github.com/ganai-labs/voiceagents/internal/conversation"
)

// Controller executes hand-offs between personas of one session. It is
// synchronous and in-memory; at most one transfer can be in flight per
// session because turns are processed strictly one at a time.
type Controller struct {
	state    *SessionState
	truncate conversation.TruncateOptions
}

// Transition is the plain result of a hand-off: the state change itself, not
// a live persona object. The caller signals the generation collaborator to
// produce the incoming persona's first response.
type Transition struct {
	From    string
	To      string
	Carried int
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithTruncateOptions overrides how much history a transfer carries over.
func WithTruncateOptions(opts conversation.TruncateOptions) ControllerOption {
	return func(c *Controller) {
		c.truncate = opts
	}
}

// NewController builds a hand-off controller over the given session state.
func NewController(state *SessionState, opts ...ControllerOption) *Controller {
	c := &Controller{state: state}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TransferTo moves control to the named persona.
//
// The target starts from its own existing log (non-empty when re-entered),
// gains the truncated tail of the outgoing persona's log with duplicate
// identifiers suppressed, and finally gets a fresh system-instruction entry
// so the generation collaborator always weights the incoming persona's
// instructions as most recent. The outgoing persona's own log is untouched.
//
// An unknown target or a malformed carried item fails the whole transfer and
// leaves session state exactly as it was.
func (c *Controller) TransferTo(targetKey string) (Transition, error) {
	target, ok := c.state.registry.Get(targetKey)
	if !ok {
		return Transition{}, UnknownPersonaError{Key: targetKey}
	}

	fromKey := c.state.current
	outgoing := c.state.logs[fromKey]
	if err := outgoing.Validate(); err != nil {
		return Transition{}, err
	}

	carried := conversation.Truncate(outgoing, c.truncate)

	// Build the target's effective log before touching state, so a failure
	// cannot leave a half-applied transfer.
	merged := c.state.logs[targetKey].Clone()
	carriedCount := 0
	for _, item := range carried {
		if merged.Contains(item.ID) {
			continue
		}
		if err := merged.Append(item); err != nil {
			return Transition{}, err
		}
		carriedCount++
	}
	if err := merged.Append(conversation.NewMessage(conversation.RoleSystem, target.Instructions)); err != nil {
		return Transition{}, err
	}

	c.state.previous = fromKey
	c.state.current = targetKey
	c.state.logs[targetKey] = merged

	return Transition{From: fromKey, To: targetKey, Carried: carriedCount}, nil
}
