package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/fraudstore"
	"github.com/ganai-labs/voiceagents/internal/persona"
)

const fraudInstructions = `You are a Fraud Security Specialist at Apex Bank.
Your goal is to verify a suspicious transaction with the customer securely.

YOUR KNOWLEDGE BASE:
- You have access to a database of fraud cases.
- You do NOT know who the user is initially. You must ask.

THE FLOW:
1. **Identify**: Ask the user for their First Name.
2. **Fetch**: Use 'get_case_details' to retrieve their file.
   - If no file is found, apologize and end the call.
3. **Verify**: The file contains a 'security_question' and 'security_answer'.
   - Ask the user the security question.
   - Compare their spoken answer to the 'security_answer' in the file.
   - If they match (fuzzy match is okay), proceed. If they fail twice, end the call.
4. **Review**: Read the transaction details (Merchant, Amount, Location) clearly.
5. **Decide**: Ask if they authorized this transaction.
   - If YES: Use 'update_case_outcome' to mark as 'confirmed_safe'.
   - If NO: Use 'update_case_outcome' to mark as 'confirmed_fraud' and assure them the card is blocked.
6. **Close**: Thank them and end the call.

TONE: Professional, Calm, Secure, Efficient.`

func buildFraud(cfg Config) (*agent.Definition, func(), error) {
	store, err := fraudstore.Open(fraudstore.Options{DBPath: cfg.FraudDBPath})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("[Agents] Closing fraud store: %v", err)
		}
	}

	tools := agent.NewToolRegistry()
	tools.Register(stringArgTool("get_case_details", "Look up the customer's fraud file by their first name.",
		"username", "The customer's first name",
		func(ctx context.Context, username string) (string, error) {
			c, err := store.GetCaseByUsername(ctx, username)
			if fraudstore.IsNotFound(err) {
				return "No active fraud case found for this user.", nil
			}
			if err != nil {
				return "", err
			}
			data, err := json.Marshal(map[string]any{
				"case_id":           c.ID,
				"username":          c.Username,
				"card_ending":       c.CardEnding,
				"merchant":          c.Merchant,
				"amount":            c.Amount,
				"timestamp":         c.Timestamp,
				"location":          c.Location,
				"security_question": c.SecurityQuestion,
				"security_answer":   c.SecurityAnswer,
				"status":            c.Status,
			})
			if err != nil {
				return "", err
			}
			return string(data), nil
		}))
	tools.Register(agent.NewTool(adapters.ToolDefinition{
		Name:        "update_case_outcome",
		Description: "Finalize the call by updating the case status in the database.",
		ParametersJSON: `{"type":"object","properties":{
			"case_id":{"type":"integer","description":"The case id from the file"},
			"status":{"type":"string","description":"confirmed_safe or confirmed_fraud"},
			"notes":{"type":"string","description":"Short note on the outcome"}},
			"required":["case_id","status"]}`,
	}, func(ctx context.Context, args json.RawMessage) (string, error) {
		var decoded struct {
			CaseID int64  `json:"case_id"`
			Status string `json:"status"`
			Notes  string `json:"notes"`
		}
		if err := json.Unmarshal(args, &decoded); err != nil {
			return "", fmt.Errorf("agents: update_case_outcome arguments: %w", err)
		}
		if err := store.UpdateCaseStatus(ctx, decoded.CaseID, decoded.Status, decoded.Notes); err != nil {
			return "", err
		}
		return fmt.Sprintf("Case %d updated to %s.", decoded.CaseID, decoded.Status), nil
	}))

	def := &agent.Definition{
		Name:        "fraud",
		Description: "Bank fraud verification specialist",
		Personas: []persona.Persona{{
			Key:          "specialist",
			Instructions: fraudInstructions,
			Tools:        []string{"get_case_details", "update_case_outcome"},
		}},
		Greeting: "Hello, this is the Apex Bank fraud prevention line. May I have your first name, please?",
		Voice:    "echo",
		Tools:    tools,
	}
	return def, cleanup, nil
}
