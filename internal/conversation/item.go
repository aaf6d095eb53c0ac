package conversation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies what a conversation item represents.
type Kind string

const (
	// KindMessage is a plain dialogue turn with a role and content.
	KindMessage Kind = "message"
	// KindFunctionCall records the model requesting a tool invocation.
	KindFunctionCall Kind = "function_call"
	// KindFunctionCallOutput records the result returned to the model.
	KindFunctionCallOutput Kind = "function_call_output"
)

// Role identifies the author of a message item.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Item is a single turn in a conversation log. Identifiers are generated
// with uuid so items from independent personas can never collide.
type Item struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	// Name is the tool name for function_call items.
	Name string `json:"name,omitempty"`
	// CallID links a function_call_output back to its function_call.
	CallID string `json:"call_id,omitempty"`
}

// InvalidItemError reports a malformed conversation item. Items arrive from
// the generation collaborator, so a malformed one is a contract violation and
// the surrounding operation fails rather than dropping data silently.
type InvalidItemError struct {
	ID     string
	Reason string
}

func (e InvalidItemError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("conversation: invalid item: %s", e.Reason)
	}
	return fmt.Sprintf("conversation: invalid item %s: %s", e.ID, e.Reason)
}

// IsInvalidItem returns true when err is (or wraps) an InvalidItemError.
func IsInvalidItem(err error) bool {
	var target InvalidItemError
	return errors.As(err, &target)
}

// Validate checks the structural contract for an item.
func (i Item) Validate() error {
	if i.ID == "" {
		return InvalidItemError{Reason: "missing identifier"}
	}
	switch i.Kind {
	case KindMessage:
		if i.Role == "" {
			return InvalidItemError{ID: i.ID, Reason: "message item missing role"}
		}
	case KindFunctionCall:
		if i.Name == "" {
			return InvalidItemError{ID: i.ID, Reason: "function_call item missing tool name"}
		}
	case KindFunctionCallOutput:
		if i.CallID == "" {
			return InvalidItemError{ID: i.ID, Reason: "function_call_output item missing call id"}
		}
	default:
		return InvalidItemError{ID: i.ID, Reason: fmt.Sprintf("unknown kind %q", i.Kind)}
	}
	return nil
}

// IsCall reports whether the item is part of a tool invocation
// (either the call or its output).
func (i Item) IsCall() bool {
	return i.Kind == KindFunctionCall || i.Kind == KindFunctionCallOutput
}

// NewMessage builds a message item with a fresh identifier.
func NewMessage(role Role, content string) Item {
	return Item{
		ID:      uuid.NewString(),
		Kind:    KindMessage,
		Role:    role,
		Content: content,
	}
}

// NewFunctionCall builds a function_call item. Arguments are stored as the
// item content in their wire (JSON) form.
func NewFunctionCall(callID, name, arguments string) Item {
	return Item{
		ID:      uuid.NewString(),
		Kind:    KindFunctionCall,
		Name:    name,
		CallID:  callID,
		Content: arguments,
	}
}

// NewFunctionCallOutput builds a function_call_output item for the given call.
func NewFunctionCallOutput(callID, name, output string) Item {
	return Item{
		ID:      uuid.NewString(),
		Kind:    KindFunctionCallOutput,
		Name:    name,
		CallID:  callID,
		Content: output,
	}
}
