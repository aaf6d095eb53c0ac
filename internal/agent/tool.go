package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ganai-labs/voiceagents/internal/adapters"
)

// ErrToolNotFound is returned when Execute is called with an unregistered tool name.
var ErrToolNotFound = errors.New("agent: tool not found")

// ToolHandler executes a tool call on behalf of the language model.
type ToolHandler interface {
	// Execute runs the tool with the given arguments and returns a result
	// string that is relayed back to the model.
	Execute(ctx context.Context, args json.RawMessage) (string, error)

	// Definition returns the tool's metadata.
	Definition() adapters.ToolDefinition
}

// toolFunc adapts a plain function to ToolHandler.
type toolFunc struct {
	def adapters.ToolDefinition
	fn  func(ctx context.Context, args json.RawMessage) (string, error)
}

func (t toolFunc) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	return t.fn(ctx, args)
}

func (t toolFunc) Definition() adapters.ToolDefinition { return t.def }

// NewTool wraps a function as a ToolHandler.
func NewTool(def adapters.ToolDefinition, fn func(ctx context.Context, args json.RawMessage) (string, error)) ToolHandler {
	return toolFunc{def: def, fn: fn}
}

// ToolRegistry holds the domain tools of one agent definition, keyed by name.
type ToolRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ToolHandler
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{handlers: make(map[string]ToolHandler)}
}

// Register adds a tool handler, keyed by Definition().Name. A handler with
// the same name replaces the previous one. Nil handlers and empty names are
// silently ignored.
func (r *ToolRegistry) Register(handler ToolHandler) {
	if handler == nil {
		return
	}
	name := handler.Definition().Name
	if name == "" {
		return
	}
	r.mu.Lock()
	_, replaced := r.handlers[name]
	r.handlers[name] = handler
	r.mu.Unlock()
	if replaced {
		log.Printf("[ToolRegistry] Replaced handler for tool %q", name)
	}
}

// Definitions returns metadata for the named tools, skipping unknown names.
// A nil names slice returns nothing: personas opt in to tools explicitly.
func (r *ToolRegistry) Definitions(names []string) []adapters.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]adapters.ToolDefinition, 0, len(names))
	for _, name := range names {
		if handler, ok := r.handlers[name]; ok {
			defs = append(defs, handler.Definition())
		}
	}
	return defs
}

// Execute looks up a handler by name and invokes it.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return handler.Execute(ctx, args)
}

// Names returns all registered tool names.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
