package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/conversation"
	"github.com/ganai-labs/voiceagents/internal/eventbus"
	"github.com/ganai-labs/voiceagents/internal/persona"
)

// TransferToolPrefix names the hand-off operations exposed to the language
// model: one "transfer_to_<key>" tool per reachable persona.
const TransferToolPrefix = "transfer_to_"

// defaultMaxRounds bounds generate/execute cycles within a single turn.
const defaultMaxRounds = 6

// Runner drives one session of an agent: it owns the session's persona state
// and hand-off controller, relays turns to the language model, and executes
// the tool calls the model requests. Turns are processed strictly one at a
// time; the Runner is not safe for concurrent use and does not need to be.
type Runner struct {
	def       *Definition
	lm        adapters.LanguageModel
	bus       *eventbus.Bus
	state     *persona.SessionState
	ctrl      *persona.Controller
	sessionID string

	model       string
	temperature float64
	maxRounds   int
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithBus wires the runner to the shared event bus.
func WithBus(bus *eventbus.Bus) RunnerOption {
	return func(r *Runner) { r.bus = bus }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) RunnerOption {
	return func(r *Runner) {
		if id != "" {
			r.sessionID = id
		}
	}
}

// WithModel overrides the language model name for this session.
func WithModel(model string) RunnerOption {
	return func(r *Runner) { r.model = model }
}

// WithTemperature sets the sampling temperature for this session.
func WithTemperature(temperature float64) RunnerOption {
	return func(r *Runner) { r.temperature = temperature }
}

// WithTruncateOptions overrides how much history hand-offs carry over.
func WithTruncateOptions(opts conversation.TruncateOptions) RunnerOption {
	return func(r *Runner) {
		r.ctrl = persona.NewController(r.state, persona.WithTruncateOptions(opts))
	}
}

// NewRunner builds per-session state for the definition and activates its
// initial persona.
func NewRunner(def *Definition, lm adapters.LanguageModel, opts ...RunnerOption) (*Runner, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if lm == nil {
		return nil, fmt.Errorf("agent %s: no language model", def.Name)
	}

	registry := persona.NewRegistry()
	for _, p := range def.Personas {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	state := persona.NewSessionState(registry)

	r := &Runner{
		def:       def,
		lm:        lm,
		state:     state,
		ctrl:      persona.NewController(state),
		sessionID: uuid.NewString(),
		maxRounds: defaultMaxRounds,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := state.Activate(def.InitialPersona()); err != nil {
		return nil, err
	}
	return r, nil
}

// SessionID returns the session identifier.
func (r *Runner) SessionID() string { return r.sessionID }

// Definition returns the agent definition this runner executes.
func (r *Runner) Definition() *Definition { return r.def }

// State exposes the session's persona state.
func (r *Runner) State() *persona.SessionState { return r.state }

// Greeting produces the agent's opening line. A static greeting from the
// definition is used verbatim; otherwise the model generates one from the
// initial persona's instructions.
func (r *Runner) Greeting(ctx context.Context) (string, error) {
	if r.def.Greeting != "" {
		if err := r.state.AppendToActive(conversation.NewMessage(conversation.RoleAssistant, r.def.Greeting)); err != nil {
			return "", err
		}
		r.publishReply(ctx, r.def.Greeting)
		return r.def.Greeting, nil
	}
	return r.generate(ctx)
}

// HandleUtterance processes one user turn to completion: the turn runs until
// the model produces a final assistant reply, executing tool calls and at
// most one persona hand-off along the way.
func (r *Runner) HandleUtterance(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	eventbusPublish(ctx, r.bus, eventbus.TopicUtterance, eventbus.SourceRunner,
		eventbus.UtteranceEvent{SessionID: r.sessionID, Text: text})

	if err := r.state.AppendToActive(conversation.NewMessage(conversation.RoleUser, text)); err != nil {
		return "", err
	}
	return r.generate(ctx)
}

func (r *Runner) generate(ctx context.Context) (string, error) {
	transferred := false

	for round := 0; round < r.maxRounds; round++ {
		active, ok := r.state.Current()
		if !ok {
			return "", persona.UnknownPersonaError{Key: ""}
		}

		res, err := r.lm.Complete(ctx, adapters.CompletionRequest{
			Model:       r.model,
			Items:       r.state.ActiveLog(),
			Tools:       r.toolDefsFor(active),
			Temperature: r.temperature,
		})
		if err != nil {
			r.publishError(ctx, "generation", err)
			return "", fmt.Errorf("agent %s: %w", r.def.Name, err)
		}

		if len(res.ToolCalls) == 0 {
			if res.Text == "" {
				return "", fmt.Errorf("agent %s: model produced neither text nor tool calls", r.def.Name)
			}
			if err := r.state.AppendToActive(conversation.NewMessage(conversation.RoleAssistant, res.Text)); err != nil {
				return "", err
			}
			r.publishReply(ctx, res.Text)
			return res.Text, nil
		}

		for _, call := range res.ToolCalls {
			handedOff, err := r.executeCall(ctx, active, call, transferred)
			if err != nil {
				return "", err
			}
			if handedOff {
				// The incoming persona answers next; leave the rest of
				// this batch unexecuted.
				transferred = true
				break
			}
		}
	}
	return "", fmt.Errorf("agent %s: turn did not settle after %d rounds", r.def.Name, r.maxRounds)
}

// executeCall runs a single tool call against the session. It returns true
// when the call performed a persona hand-off.
func (r *Runner) executeCall(ctx context.Context, active persona.Persona, call adapters.ToolCall, transferred bool) (bool, error) {
	callID := call.CallID
	if callID == "" {
		callID = uuid.NewString()
	}

	if target, isTransfer := strings.CutPrefix(call.Name, TransferToolPrefix); isTransfer {
		return true, r.executeTransfer(ctx, active, callID, call.Name, target, transferred)
	}

	if err := r.state.AppendToActive(conversation.NewFunctionCall(callID, call.Name, call.ArgumentsJSON)); err != nil {
		return false, err
	}

	output, err := r.def.Tools.Execute(ctx, call.Name, json.RawMessage(call.ArgumentsJSON))
	isError := err != nil
	if isError {
		// The message is relayed to the model so it can recover in
		// conversation instead of the whole turn failing.
		output = fmt.Sprintf("error: %v", err)
		log.Printf("[Runner] session=%s tool %s failed: %v", r.sessionID, call.Name, err)
	}

	if err := r.state.AppendToActive(conversation.NewFunctionCallOutput(callID, call.Name, output)); err != nil {
		return false, err
	}

	eventbusPublish(ctx, r.bus, eventbus.TopicToolInvoked, eventbus.SourceRunner,
		eventbus.ToolInvokedEvent{SessionID: r.sessionID, Tool: call.Name, CallID: callID, IsError: isError})
	return false, nil
}

func (r *Runner) executeTransfer(ctx context.Context, active persona.Persona, callID, toolName, target string, transferred bool) error {
	if transferred {
		// One hand-off per turn: a second transfer in the same turn is a
		// generation contract violation.
		return fmt.Errorf("agent %s: persona %s requested a second hand-off in one turn", r.def.Name, active.Key)
	}

	allowed := false
	for _, t := range active.Transfers {
		if t == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return persona.UnknownPersonaError{Key: target}
	}

	// Record the invocation on the outgoing persona's log before switching,
	// so its own record stays complete.
	if err := r.state.AppendToActive(conversation.NewFunctionCall(callID, toolName, "{}")); err != nil {
		return err
	}
	if err := r.state.AppendToActive(conversation.NewFunctionCallOutput(callID, toolName,
		fmt.Sprintf("Transferring to %s.", target))); err != nil {
		return err
	}

	tr, err := r.ctrl.TransferTo(target)
	if err != nil {
		return err
	}
	log.Printf("[Runner] session=%s hand-off %s -> %s (%d items carried)",
		r.sessionID, tr.From, tr.To, tr.Carried)

	eventbusPublish(ctx, r.bus, eventbus.TopicPersonaTransfer, eventbus.SourceRunner,
		eventbus.PersonaTransferEvent{SessionID: r.sessionID, From: tr.From, To: tr.To, Carried: tr.Carried})
	return nil
}

func (r *Runner) toolDefsFor(p persona.Persona) []adapters.ToolDefinition {
	defs := r.def.Tools.Definitions(p.Tools)
	for _, target := range p.Transfers {
		defs = append(defs, adapters.ToolDefinition{
			Name:           TransferToolPrefix + target,
			Description:    fmt.Sprintf("Hand the conversation off to the %s persona.", target),
			ParametersJSON: `{"type":"object","properties":{}}`,
		})
	}
	return defs
}

func (r *Runner) publishReply(ctx context.Context, text string) {
	eventbusPublish(ctx, r.bus, eventbus.TopicConversationReply, eventbus.SourceRunner,
		eventbus.ReplyEvent{SessionID: r.sessionID, Persona: r.state.CurrentKey(), Text: text})
	eventbusPublish(ctx, r.bus, eventbus.TopicConversationSpeak, eventbus.SourceRunner,
		eventbus.SpeakEvent{SessionID: r.sessionID, Text: text, Voice: r.def.Voice})
}

func (r *Runner) publishError(ctx context.Context, stage string, err error) {
	eventbusPublish(ctx, r.bus, eventbus.TopicPipelineError, eventbus.SourceRunner,
		eventbus.PipelineErrorEvent{SessionID: r.sessionID, Stage: stage, Message: err.Error()})
}

func eventbusPublish(ctx context.Context, bus *eventbus.Bus, topic eventbus.Topic, source eventbus.Source, payload any) {
	bus.Publish(ctx, eventbus.Envelope{Topic: topic, Source: source, Payload: payload})
}
