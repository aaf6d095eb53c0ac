// Package adapters defines the external collaborator seams of the voice
// pipeline. Speech recognition, language generation and speech synthesis are
// opaque services; the agent runtime only ever sees text turns and tool
// calls.
package adapters

import (
	"context"
	"errors"

	"github.com/ganai-labs/voiceagents/internal/conversation"
)

// Logical slot identifiers for pipeline collaborators.
const (
	SlotSTT = "stt"
	SlotTTS = "tts"
	SlotAI  = "ai"
)

// ErrNotConfigured is returned by collaborators that have no backing service.
var ErrNotConfigured = errors.New("adapters: collaborator not configured")

// ToolDefinition describes a tool offered to the language model.
type ToolDefinition struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ParametersJSON string `json:"parameters_json"`
}

// ToolCall is the model's request to invoke a named tool.
type ToolCall struct {
	CallID        string `json:"call_id"`
	Name          string `json:"name"`
	ArgumentsJSON string `json:"arguments_json"`
}

// CompletionRequest carries one generation turn: instructions, the ordered
// conversation log and the tools the active persona exposes.
type CompletionRequest struct {
	Model        string
	Instructions string
	Items        conversation.Log
	Tools        []ToolDefinition
	Temperature  float64
}

// CompletionResult is the model's next step: assistant text, tool calls, or
// both (text accompanying calls is rare but allowed).
type CompletionResult struct {
	Text      string
	ToolCalls []ToolCall
}

// LanguageModel produces the next assistant turn for a conversation.
type LanguageModel interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// SpeechToText converts inbound audio to text.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// TextToSpeech converts assistant text to audio.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
