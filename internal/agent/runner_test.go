package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/conversation"
	"github.com/ganai-labs/voiceagents/internal/eventbus"
	"github.com/ganai-labs/voiceagents/internal/persona"
)

// scriptedModel replays canned completions and records every request so tests
// can assert on the logs and tool definitions the runner sent.
type scriptedModel struct {
	results  []*adapters.CompletionResult
	err      error
	requests []adapters.CompletionRequest
}

func (m *scriptedModel) Complete(ctx context.Context, req adapters.CompletionRequest) (*adapters.CompletionResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return &adapters.CompletionResult{Text: "out of script"}, nil
	}
	res := m.results[0]
	m.results = m.results[1:]
	return res, nil
}

func echoTool(name string) ToolHandler {
	return NewTool(adapters.ToolDefinition{
		Name:           name,
		Description:    "test tool",
		ParametersJSON: `{"type":"object","properties":{}}`,
	}, func(ctx context.Context, args json.RawMessage) (string, error) {
		return "ok:" + name, nil
	})
}

func testDefinition(t *testing.T) *Definition {
	t.Helper()
	tools := NewToolRegistry()
	tools.Register(echoTool("lookup_order"))
	return &Definition{
		Name:        "tutor",
		Description: "tutoring demo",
		Personas: []persona.Persona{
			{Key: "coordinator", Instructions: "You route students.", Transfers: []string{"learn", "quiz"}},
			{Key: "learn", Instructions: "You explain concepts.", Tools: []string{"lookup_order"}, Transfers: []string{"coordinator"}},
			{Key: "quiz", Instructions: "You ask questions.", Transfers: []string{"coordinator"}},
		},
		Initial: "coordinator",
		Tools:   tools,
	}
}

func TestRunnerPlainReply(t *testing.T) {
	lm := &scriptedModel{results: []*adapters.CompletionResult{{Text: "Hello there"}}}
	r, err := NewRunner(testDefinition(t), lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	reply, err := r.HandleUtterance(context.Background(), "hi")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if reply != "Hello there" {
		t.Fatalf("reply = %q, want %q", reply, "Hello there")
	}

	log := r.State().ActiveLog()
	// system instruction, user utterance, assistant reply
	if len(log) != 3 {
		t.Fatalf("log has %d items, want 3: %+v", len(log), log)
	}
	if log[1].Role != conversation.RoleUser || log[1].Content != "hi" {
		t.Fatalf("second item is not the user turn: %+v", log[1])
	}
	if log[2].Role != conversation.RoleAssistant {
		t.Fatalf("last item is not the assistant reply: %+v", log[2])
	}
}

func TestRunnerExecutesToolThenReplies(t *testing.T) {
	lm := &scriptedModel{results: []*adapters.CompletionResult{
		{ToolCalls: []adapters.ToolCall{{CallID: "call-1", Name: "lookup_order", ArgumentsJSON: "{}"}}},
		{Text: "Your order is ready"},
	}}
	def := testDefinition(t)
	def.Initial = "learn"
	r, err := NewRunner(def, lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	reply, err := r.HandleUtterance(context.Background(), "where is my order?")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if reply != "Your order is ready" {
		t.Fatalf("reply = %q", reply)
	}

	log := r.State().ActiveLog()
	var call, output *conversation.Item
	for i := range log {
		switch log[i].Kind {
		case conversation.KindFunctionCall:
			call = &log[i]
		case conversation.KindFunctionCallOutput:
			output = &log[i]
		}
	}
	if call == nil || output == nil {
		t.Fatalf("log is missing the call/output pair: %+v", log)
	}
	if call.CallID != "call-1" || output.CallID != "call-1" {
		t.Fatalf("call ids do not line up: %q vs %q", call.CallID, output.CallID)
	}
	if output.Content != "ok:lookup_order" {
		t.Fatalf("output content = %q", output.Content)
	}

	// The second completion must have seen the tool output.
	if len(lm.requests) != 2 {
		t.Fatalf("model saw %d requests, want 2", len(lm.requests))
	}
	if !lm.requests[1].Items.Contains(output.ID) {
		t.Fatalf("second request did not include the tool output")
	}
}

func TestRunnerExposesOnlyPersonaTools(t *testing.T) {
	lm := &scriptedModel{results: []*adapters.CompletionResult{{Text: "ok"}}}
	r, err := NewRunner(testDefinition(t), lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	if _, err := r.HandleUtterance(context.Background(), "hi"); err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}

	// Coordinator has no domain tools, only the two transfer tools.
	names := make([]string, 0)
	for _, d := range lm.requests[0].Tools {
		names = append(names, d.Name)
	}
	if len(names) != 2 {
		t.Fatalf("tool names = %v, want exactly the transfer tools", names)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, TransferToolPrefix) {
			t.Fatalf("unexpected tool %q exposed to coordinator", name)
		}
	}
}

func TestRunnerHandoffSwitchesPersona(t *testing.T) {
	lm := &scriptedModel{results: []*adapters.CompletionResult{
		{ToolCalls: []adapters.ToolCall{{CallID: "call-1", Name: "transfer_to_learn", ArgumentsJSON: "{}"}}},
		{Text: "Hi, I'm the learning guide. What topic today?"},
	}}
	bus := eventbus.New()
	defer bus.Shutdown()
	sub := bus.Subscribe(eventbus.TopicPersonaTransfer)
	defer sub.Close()

	r, err := NewRunner(testDefinition(t), lm, WithBus(bus))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	reply, err := r.HandleUtterance(context.Background(), "I want to learn fractions")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if !strings.Contains(reply, "learning guide") {
		t.Fatalf("reply = %q, want the incoming persona's line", reply)
	}
	if got := r.State().CurrentKey(); got != "learn" {
		t.Fatalf("active persona = %q, want learn", got)
	}
	if got := r.State().PreviousKey(); got != "coordinator" {
		t.Fatalf("previous persona = %q, want coordinator", got)
	}

	// The post-transfer completion ran with the incoming persona's tools and
	// its instructions as the trailing system item.
	last := lm.requests[1]
	sawDomainTool := false
	for _, d := range last.Tools {
		if d.Name == "lookup_order" {
			sawDomainTool = true
		}
	}
	if !sawDomainTool {
		t.Fatalf("post-transfer request missing the incoming persona's tools: %+v", last.Tools)
	}
	trailing := last.Items[len(last.Items)-1]
	if trailing.Role != conversation.RoleSystem || trailing.Content != "You explain concepts." {
		t.Fatalf("trailing item is not the fresh instructions: %+v", trailing)
	}

	select {
	case env := <-sub.C():
		ev, ok := env.Payload.(eventbus.PersonaTransferEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", env.Payload)
		}
		if ev.From != "coordinator" || ev.To != "learn" {
			t.Fatalf("transfer event = %+v", ev)
		}
	default:
		t.Fatalf("no transfer event published")
	}
}

func TestRunnerHandoffCarriesUserTurn(t *testing.T) {
	lm := &scriptedModel{results: []*adapters.CompletionResult{
		{ToolCalls: []adapters.ToolCall{{CallID: "call-1", Name: "transfer_to_quiz", ArgumentsJSON: "{}"}}},
		{Text: "First question: what is 2+2?"},
	}}
	r, err := NewRunner(testDefinition(t), lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	if _, err := r.HandleUtterance(context.Background(), "quiz me on arithmetic"); err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}

	carried := false
	for _, item := range lm.requests[1].Items {
		if item.Role == conversation.RoleUser && item.Content == "quiz me on arithmetic" {
			carried = true
		}
	}
	if !carried {
		t.Fatalf("user turn was not carried into the incoming persona's context")
	}
}

func TestRunnerRejectsUnlistedHandoffTarget(t *testing.T) {
	// quiz may only hand back to the coordinator.
	lm := &scriptedModel{results: []*adapters.CompletionResult{
		{ToolCalls: []adapters.ToolCall{{CallID: "call-1", Name: "transfer_to_learn", ArgumentsJSON: "{}"}}},
	}}
	def := testDefinition(t)
	def.Initial = "quiz"
	r, err := NewRunner(def, lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	before := len(r.State().ActiveLog())
	_, err = r.HandleUtterance(context.Background(), "switch me")
	if !persona.IsUnknownPersona(err) {
		t.Fatalf("err = %v, want UnknownPersonaError", err)
	}
	if got := r.State().CurrentKey(); got != "quiz" {
		t.Fatalf("active persona changed to %q after failed hand-off", got)
	}
	// Only the user turn was added; no call items for the rejected hand-off.
	if got := len(r.State().ActiveLog()); got != before+1 {
		t.Fatalf("log grew to %d items, want %d", got, before+1)
	}
}

func TestRunnerRelaysToolErrorToModel(t *testing.T) {
	tools := NewToolRegistry()
	tools.Register(NewTool(adapters.ToolDefinition{Name: "flaky", Description: "always fails"},
		func(ctx context.Context, args json.RawMessage) (string, error) {
			return "", errors.New("backend unavailable")
		}))
	def := &Definition{
		Name:     "demo",
		Personas: []persona.Persona{{Key: "main", Instructions: "Help.", Tools: []string{"flaky"}}},
		Tools:    tools,
	}
	lm := &scriptedModel{results: []*adapters.CompletionResult{
		{ToolCalls: []adapters.ToolCall{{CallID: "c1", Name: "flaky", ArgumentsJSON: "{}"}}},
		{Text: "Sorry, I could not reach the backend."},
	}}
	r, err := NewRunner(def, lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	reply, err := r.HandleUtterance(context.Background(), "try it")
	if err != nil {
		t.Fatalf("HandleUtterance failed: %v", err)
	}
	if reply == "" {
		t.Fatalf("expected a recovery reply")
	}

	sawError := false
	for _, item := range lm.requests[1].Items {
		if item.Kind == conversation.KindFunctionCallOutput && strings.Contains(item.Content, "backend unavailable") {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("tool error was not relayed to the model")
	}
}

func TestRunnerStaticGreeting(t *testing.T) {
	def := testDefinition(t)
	def.Greeting = "Welcome to the tutoring line!"
	lm := &scriptedModel{}
	r, err := NewRunner(def, lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	greeting, err := r.Greeting(context.Background())
	if err != nil {
		t.Fatalf("Greeting failed: %v", err)
	}
	if greeting != def.Greeting {
		t.Fatalf("greeting = %q", greeting)
	}
	if len(lm.requests) != 0 {
		t.Fatalf("static greeting should not call the model")
	}
	log := r.State().ActiveLog()
	if log[len(log)-1].Role != conversation.RoleAssistant {
		t.Fatalf("greeting was not recorded in the log: %+v", log)
	}
}

func TestRunnerEmptyUtteranceIsIgnored(t *testing.T) {
	lm := &scriptedModel{}
	r, err := NewRunner(testDefinition(t), lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	reply, err := r.HandleUtterance(context.Background(), "   ")
	if err != nil || reply != "" {
		t.Fatalf("blank utterance: reply=%q err=%v", reply, err)
	}
	if len(lm.requests) != 0 {
		t.Fatalf("blank utterance reached the model")
	}
}

func TestRunnerModelErrorPropagates(t *testing.T) {
	lm := &scriptedModel{err: errors.New("rate limited")}
	r, err := NewRunner(testDefinition(t), lm)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	if _, err := r.HandleUtterance(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error from model failure")
	}
}

func TestNewRunnerRejectsBadDefinitions(t *testing.T) {
	lm := &scriptedModel{}

	def := testDefinition(t)
	def.Personas[0].Transfers = []string{"ghost"}
	if _, err := NewRunner(def, lm); err == nil {
		t.Fatalf("expected error for unknown transfer target")
	}

	def = testDefinition(t)
	def.Personas = append(def.Personas, persona.Persona{Key: "learn"})
	if _, err := NewRunner(def, lm); err == nil {
		t.Fatalf("expected error for duplicate persona key")
	}

	def = testDefinition(t)
	if _, err := NewRunner(def, nil); err == nil {
		t.Fatalf("expected error for nil language model")
	}
}
