package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/grocery"
	"github.com/ganai-labs/voiceagents/internal/persona"
)

const groceryInstructionsFmt = `You are a friendly Indian grocery store assistant.

YOUR CATALOG:
%s

YOUR JOB:
1. Help users buy groceries.
2. Infer ingredients for Indian dishes (e.g., "Dal Chawal" -> Rice + Toor Dal).
3. Manage the cart and checkout.

RULES:
- If the user asks for a dish, look at the item 'tags' in the catalog to find matches.
- Add inferred items automatically using 'add_items_to_cart'.
- Speak naturally, using Indian English nuances if appropriate.
- Always confirm items added.
- When the user says "that's it" or "checkout", use the 'checkout' tool.`

func buildGrocery(cfg Config) (*agent.Definition, func(), error) {
	manager, err := grocery.NewManager(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	tools := agent.NewToolRegistry()
	tools.Register(agent.NewTool(adapters.ToolDefinition{
		Name:        "add_items_to_cart",
		Description: "Add items to the cart by their exact catalog names, with quantities.",
		ParametersJSON: `{"type":"object","properties":{
			"items":{"type":"array","items":{"type":"string"},"description":"Exact names from the catalog"},
			"quantities":{"type":"array","items":{"type":"integer"},"description":"Quantity per item"}},
			"required":["items"]}`,
	}, func(_ context.Context, args json.RawMessage) (string, error) {
		var decoded struct {
			Items      []string `json:"items"`
			Quantities []int    `json:"quantities"`
		}
		if err := json.Unmarshal(args, &decoded); err != nil {
			return "", fmt.Errorf("agents: add_items_to_cart arguments: %w", err)
		}
		return manager.AddItems(decoded.Items, decoded.Quantities).Message, nil
	}))
	tools.Register(stringArgTool("remove_from_cart", "Remove a specific item from the cart.",
		"item_name", "The item to remove",
		func(_ context.Context, v string) (string, error) { return manager.RemoveItem(v).Message, nil }))
	tools.Register(noArgTool("view_cart", "Check what is in the cart and the total price.",
		func(context.Context) (string, error) { return manager.Summary(), nil }))
	tools.Register(noArgTool("checkout", "Finalize the order and save the receipt. Use when the user is done.",
		func(context.Context) (string, error) { return manager.Checkout().Message, nil }))

	def := &agent.Definition{
		Name:        "grocery",
		Description: "Indian grocery shopping assistant",
		Personas: []persona.Persona{{
			Key:          "grocer",
			Instructions: fmt.Sprintf(groceryInstructionsFmt, manager.CatalogString()),
			Tools:        []string{"add_items_to_cart", "remove_from_cart", "view_cart", "checkout"},
		}},
		Greeting: "Namaste! What groceries can I get for you today?",
		Voice:    "verse",
		Tools:    tools,
	}
	return def, nil, nil
}
