package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ganai-labs/voiceagents/internal/adapters"
	"github.com/ganai-labs/voiceagents/internal/agent"
	"github.com/ganai-labs/voiceagents/internal/orders"
	"github.com/ganai-labs/voiceagents/internal/persona"
)

const baristaInstructions = `You are a friendly and efficient barista at a premium coffee shop. Your role is to take voice orders from customers.

Your conversation style:
- Be warm and welcoming
- Ask for information ONE AT A TIME, never multiple questions in one response
- Listen carefully to what the customer says
- Use the tools provided to capture their order details

Order taking process:
1. Greet the customer warmly
2. Ask for their drink choice (if not provided)
3. Ask for the cup size (if not provided)
4. Ask for their milk preference (if not provided)
5. Ask if they want any extras/toppings (if not specified)
6. Ask for their name (if not provided)
7. Once you have all details, confirm the order and complete it

Important:
- Never assume preferences - always ask
- Use simple, conversational language
- No complex formatting, emojis, or symbols
- If they say they're done or that's all, proceed to confirm
- When all fields are filled, read back the order and use the complete_order tool`

func stringArgTool(name, description, param, paramDesc string, fn func(ctx context.Context, value string) (string, error)) agent.ToolHandler {
	params := fmt.Sprintf(`{"type":"object","properties":{%q:{"type":"string","description":%q}},"required":[%q]}`,
		param, paramDesc, param)
	return agent.NewTool(adapters.ToolDefinition{
		Name:           name,
		Description:    description,
		ParametersJSON: params,
	}, func(ctx context.Context, args json.RawMessage) (string, error) {
		var decoded map[string]string
		if err := json.Unmarshal(args, &decoded); err != nil {
			return "", fmt.Errorf("agents: %s arguments: %w", name, err)
		}
		return fn(ctx, decoded[param])
	})
}

func noArgTool(name, description string, fn func(ctx context.Context) (string, error)) agent.ToolHandler {
	return agent.NewTool(adapters.ToolDefinition{
		Name:           name,
		Description:    description,
		ParametersJSON: `{"type":"object","properties":{}}`,
	}, func(ctx context.Context, _ json.RawMessage) (string, error) {
		return fn(ctx)
	})
}

func buildBarista(cfg Config) (*agent.Definition, func(), error) {
	manager := orders.NewManager(cfg.DataDir)

	tools := agent.NewToolRegistry()
	tools.Register(stringArgTool("set_drink_type", "Set the drink the customer ordered.",
		"drink", "The drink type requested by the customer",
		func(_ context.Context, v string) (string, error) { return manager.SetDrinkType(v).Message, nil }))
	tools.Register(stringArgTool("set_size", "Set the cup size (Small, Medium, Large).",
		"size", "The cup size",
		func(_ context.Context, v string) (string, error) { return manager.SetSize(v).Message, nil }))
	tools.Register(stringArgTool("set_milk_option", "Set the milk preference.",
		"milk", "The milk option",
		func(_ context.Context, v string) (string, error) { return manager.SetMilkOption(v).Message, nil }))
	tools.Register(stringArgTool("add_extra", "Add a topping or modification to the order.",
		"extra", "The extra to add",
		func(_ context.Context, v string) (string, error) { return manager.AddExtra(v).Message, nil }))
	tools.Register(stringArgTool("remove_extra", "Remove a previously added extra.",
		"extra", "The extra to remove",
		func(_ context.Context, v string) (string, error) { return manager.RemoveExtra(v).Message, nil }))
	tools.Register(stringArgTool("set_customer_name", "Record the customer's name for the order.",
		"name", "The customer's name",
		func(_ context.Context, v string) (string, error) { return manager.SetCustomerName(v).Message, nil }))
	tools.Register(noArgTool("get_current_order", "Review what has been captured so far and what is still missing.",
		func(context.Context) (string, error) { return orderStatus(manager), nil }))
	tools.Register(noArgTool("complete_order", "Finish and save the order. Use ONLY when all fields are filled.",
		func(context.Context) (string, error) { return completeOrder(manager), nil }))

	def := &agent.Definition{
		Name:        "barista",
		Description: "Coffee shop voice ordering",
		Personas: []persona.Persona{{
			Key:          "barista",
			Instructions: baristaInstructions,
			Tools: []string{
				"set_drink_type", "set_size", "set_milk_option",
				"add_extra", "remove_extra", "set_customer_name",
				"get_current_order", "complete_order",
			},
		}},
		Greeting: "Welcome in! What can I get started for you today?",
		Voice:    "alloy",
		Tools:    tools,
	}
	return def, nil, nil
}

func orderStatus(m *orders.Manager) string {
	order := m.Current()
	orNot := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	extras := "None"
	if len(order.Extras) > 0 {
		extras = strings.Join(order.Extras, ", ")
	}
	status := "Current order:\n"
	status += fmt.Sprintf("Drink: %s\n", orNot(order.DrinkType, "Not selected"))
	status += fmt.Sprintf("Size: %s\n", orNot(order.Size, "Not selected"))
	status += fmt.Sprintf("Milk: %s\n", orNot(order.Milk, "Not selected"))
	status += fmt.Sprintf("Extras: %s\n", extras)
	status += fmt.Sprintf("Name: %s\n", orNot(order.Name, "Not provided"))
	if missing := m.MissingFields(); len(missing) > 0 {
		status += fmt.Sprintf("\nStill need: %s", strings.Join(missing, ", "))
	}
	return status
}

func completeOrder(m *orders.Manager) string {
	if !m.IsComplete() {
		return fmt.Sprintf("Cannot complete the order yet. Still need: %s",
			strings.Join(m.MissingFields(), ", "))
	}
	if _, err := m.Save(); err != nil {
		return fmt.Sprintf("Error processing order: %v", err)
	}
	order := m.Current()
	confirmation := fmt.Sprintf("Perfect! Order confirmed for %s. One %s %s with %s. ",
		order.Name, order.Size, order.DrinkType, order.Milk)
	if len(order.Extras) > 0 {
		confirmation += fmt.Sprintf("With %s. ", strings.Join(order.Extras, ", "))
	}
	confirmation += "Your order will be ready in about 5 minutes! Thank you!"
	m.Reset()
	return confirmation
}
