package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/leads"
	"github.com/ganai-labs/voiceagents/internal/persona"
)

const sdrInstructionsFmt = `You are Tanushree, an SDR for Gan-AI (pronounced "Gan-A-I").
Your goal is to qualify leads by having a natural conversation.

YOUR KNOWLEDGE BASE:
%s

YOUR TASKS:
1. Greet the user warmly and ask what they are building/working on.
2. Answer questions about Gan-AI using the FAQ (e.g., "Do you have a free tier?", "Who is this for?").
3. Collect the following 7 LEADS FIELDS naturally (do not interrogate):
   - Name
   - Company
   - Email
   - Role
   - Use Case
   - Team Size (How many people will use it?)
   - Timeline (When do they want to start?)

RULES:
- ONE QUESTION AT A TIME. Never double-barrel questions.
- VALIDATION: Use the 'update_lead_details' tool immediately when you get new info.
- END OF CALL: When the user says "That's all" or "I'm done":
  1. DO NOT just say goodbye.
  2. You MUST verbally summarize what you understood (e.g., "Great, so you are [Name] from [Company] looking to...").
  3. Call the 'finalize_call' tool to save the data.`

func buildSDR(cfg Config) (*agent.Definition, func(), error) {
	manager := leads.NewManager(cfg.LeadsDBPath)

	tools := agent.NewToolRegistry()
	tools.Register(agent.NewTool(adapters.ToolDefinition{
		Name:        "update_lead_details",
		Description: "Call this IMMEDIATELY when the user provides info. All fields are optional.",
		ParametersJSON: `{"type":"object","properties":{
			"name":{"type":"string"},
			"company":{"type":"string"},
			"email":{"type":"string"},
			"role":{"type":"string"},
			"use_case":{"type":"string"},
			"team_size":{"type":"string"},
			"timeline":{"type":"string"}}}`,
	}, func(_ context.Context, args json.RawMessage) (string, error) {
		var decoded map[string]string
		if err := json.Unmarshal(args, &decoded); err != nil {
			return "", fmt.Errorf("agents: update_lead_details arguments: %w", err)
		}
		return manager.Update(decoded), nil
	}))
	tools.Register(noArgTool("finalize_call", "Call this ONLY when the user is done, to save the lead data.",
		func(context.Context) (string, error) {
			summary, err := manager.Finalize()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Data saved successfully. Summary: %s. You may now sign off.", summary), nil
		}))

	def := &agent.Definition{
		Name:        "sdr",
		Description: "Lead qualification for Gan.ai",
		Personas: []persona.Persona{{
			Key:          "sdr",
			Instructions: fmt.Sprintf(sdrInstructionsFmt, leads.CompanyContext),
			Tools:        []string{"update_lead_details", "finalize_call"},
		}},
		Greeting: "Hi, this is Tanushree from Gan.ai! What are you working on these days?",
		Voice:    "shimmer",
		Tools:    tools,
	}
	return def, nil, nil
}
