package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/ganai-labs/voiceagents/internal/conversation"
)

// DefaultChatModel is used when no model override is configured.
const DefaultChatModel = "gpt-4o-mini"

// OpenAIModel drives chat completions with function tools as the
// language-generation collaborator.
type OpenAIModel struct {
	client openai.Client
	model  string
}

// OpenAIOption customises the adapter.
type OpenAIOption func(*OpenAIModel)

// WithModel overrides the default chat model.
func WithModel(model string) OpenAIOption {
	return func(m *OpenAIModel) {
		if model != "" {
			m.model = model
		}
	}
}

// NewOpenAIModel creates an adapter authenticated with the given API key.
func NewOpenAIModel(apiKey string, opts ...OpenAIOption) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	m := &OpenAIModel{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Complete maps the conversation log onto the chat completions API and
// returns the model's next step.
func (m *OpenAIModel) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	messages, err := buildMessages(req)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = m.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		tools, err := buildTools(req.Tools)
		if err != nil {
			return nil, err
		}
		params.Tools = tools
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("adapters: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("adapters: chat completion returned no choices")
	}

	msg := resp.Choices[0].Message
	result := &CompletionResult{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			CallID:        tc.ID,
			Name:          tc.Function.Name,
			ArgumentsJSON: tc.Function.Arguments,
		})
	}
	return result, nil
}

func buildMessages(req CompletionRequest) ([]openai.ChatCompletionMessageParamUnion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Items)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	for _, item := range req.Items {
		switch item.Kind {
		case conversation.KindMessage:
			switch item.Role {
			case conversation.RoleSystem:
				messages = append(messages, openai.SystemMessage(item.Content))
			case conversation.RoleUser:
				messages = append(messages, openai.UserMessage(item.Content))
			case conversation.RoleAssistant:
				messages = append(messages, openai.AssistantMessage(item.Content))
			default:
				return nil, conversation.InvalidItemError{ID: item.ID, Reason: fmt.Sprintf("unknown role %q", item.Role)}
			}
		case conversation.KindFunctionCall:
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					ToolCalls: []openai.ChatCompletionMessageToolCallUnionParam{{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID: item.CallID,
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      item.Name,
								Arguments: item.Content,
							},
						},
					}},
				},
			})
		case conversation.KindFunctionCallOutput:
			messages = append(messages, openai.ToolMessage(item.Content, item.CallID))
		default:
			return nil, conversation.InvalidItemError{ID: item.ID, Reason: fmt.Sprintf("unknown kind %q", item.Kind)}
		}
	}
	return messages, nil
}

func buildTools(defs []ToolDefinition) ([]openai.ChatCompletionToolUnionParam, error) {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(defs))
	for _, def := range defs {
		params := shared.FunctionParameters{}
		if def.ParametersJSON != "" {
			if err := json.Unmarshal([]byte(def.ParametersJSON), &params); err != nil {
				return nil, fmt.Errorf("adapters: tool %s parameters: %w", def.Name, err)
			}
		}
		tools = append(tools, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: shared.FunctionDefinitionParam{
					Name:        def.Name,
					Description: openai.String(def.Description),
					Parameters:  params,
				},
			},
		})
	}
	return tools, nil
}
