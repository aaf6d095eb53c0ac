package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/persona"
	"github.com/ganai-labs/voiceagents/internal/wellness"
)

const wellnessInstructionsFmt = `You are a gentle daily wellness companion doing a short check-in call.

RECENT CHECK-INS:
%s

YOUR FLOW:
1. Greet the user and, if there are previous check-ins, briefly acknowledge how they were doing last time.
2. Ask how they are feeling today (mood). Optionally ask for a 1-10 mood scale.
3. Ask about their energy level.
4. Ask for one to three small objectives for today.
5. Reflect back what you heard in one or two sentences.
6. Save the check-in with 'record_checkin', including your one-line summary.

RULES:
- ONE question at a time, short and warm.
- Never give medical advice; suggest professional help if they mention serious distress.
- Keep the whole call under a few minutes.`

func buildWellness(cfg Config) (*agent.Definition, func(), error) {
	manager, err := wellness.NewManager(cfg.WellnessLogPath)
	if err != nil {
		return nil, nil, err
	}
	recent, err := manager.SummaryOfRecent(3)
	if err != nil {
		return nil, nil, err
	}

	tools := agent.NewToolRegistry()
	tools.Register(agent.NewTool(adapters.ToolDefinition{
		Name:        "record_checkin",
		Description: "Save today's check-in. Call once near the end of the conversation.",
		ParametersJSON: `{"type":"object","properties":{
			"mood_text":{"type":"string","description":"How the user said they feel"},
			"mood_scale":{"type":"integer","description":"Optional 1-10 mood rating"},
			"energy":{"type":"string","description":"Energy level in the user's words"},
			"objectives":{"type":"array","items":{"type":"string"},"description":"Today's goals"},
			"agent_summary":{"type":"string","description":"Your one-line summary of the check-in"}},
			"required":["mood_text"]}`,
	}, func(_ context.Context, args json.RawMessage) (string, error) {
		var entry wellness.CheckInEntry
		if err := json.Unmarshal(args, &entry); err != nil {
			return "", fmt.Errorf("agents: record_checkin arguments: %w", err)
		}
		if err := manager.AppendCheckIn(entry); err != nil {
			return "", err
		}
		return "Check-in saved. Wish them a good day and close the call.", nil
	}))
	tools.Register(noArgTool("last_checkin", "Look up the most recent saved check-in.",
		func(context.Context) (string, error) {
			entry, ok, err := manager.LastEntry()
			if err != nil {
				return "", err
			}
			if !ok {
				return "No previous check-ins on record.", nil
			}
			data, err := json.Marshal(entry)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}))

	def := &agent.Definition{
		Name:        "wellness",
		Description: "Daily wellness check-in companion",
		Personas: []persona.Persona{{
			Key:          "companion",
			Instructions: fmt.Sprintf(wellnessInstructionsFmt, recent),
			Tools:        []string{"record_checkin", "last_checkin"},
		}},
		Greeting: "Hey, good to hear from you. How are you feeling today?",
		Voice:    "sage",
		Tools:    tools,
	}
	return def, nil, nil
}
