// Package orders tracks a coffee order through a conversation: field by field
// validation, completeness checks and JSON persistence of finished orders.
package orders

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidDrinks lists the menu. Matching is case-insensitive and accepts
// substrings ("latte" matches "Latte").
var ValidDrinks = []string{
	"Espresso",
	"Americano",
	"Latte",
	"Cappuccino",
	"Macchiato",
	"Flat White",
	"Mocha",
	"Caramel Latte",
	"Vanilla Latte",
	"Hazelnut Latte",
}

// ValidSizes lists the cup sizes. Size matching is exact (case-insensitive).
var ValidSizes = []string{"Small", "Medium", "Large"}

// ValidMilk lists the milk options.
var ValidMilk = []string{
	"Whole Milk",
	"Oat Milk",
	"Almond Milk",
	"Skim Milk",
	"No Milk",
	"Soy Milk",
}

// ValidExtras lists the toppings.
var ValidExtras = []string{
	"Extra Shot",
	"Whipped Cream",
	"Caramel Drizzle",
	"Chocolate Powder",
	"Cinnamon",
	"Vanilla Syrup",
	"Hazelnut Syrup",
	"Foam",
}

// State is the order under construction. Fields are empty until the customer
// provides them; Extras may stay empty in a complete order.
type State struct {
	DrinkType string   `json:"drinkType"`
	Size      string   `json:"size"`
	Milk      string   `json:"milk"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name"`
}

// Result is relayed back to the language model so it can confirm or recover
// in conversation.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

// Manager holds one session's order and writes completed orders to dir.
type Manager struct {
	state State
	dir   string
}

// NewManager creates a manager persisting completed orders under dir.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = "orders"
	}
	return &Manager{state: State{Extras: []string{}}, dir: dir}
}

// matchOption finds the first option containing input, case-insensitively.
func matchOption(input string, options []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return "", false
	}
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), needle) {
			return opt, true
		}
	}
	return "", false
}

// SetDrinkType validates and records the drink.
func (m *Manager) SetDrinkType(drink string) Result {
	matched, ok := matchOption(drink, ValidDrinks)
	if !ok {
		log.Printf("[Orders] Invalid drink requested: %s", drink)
		return Result{Message: fmt.Sprintf("Sorry, we don't have %q. Available drinks: %s...",
			drink, strings.Join(ValidDrinks[:5], ", "))}
	}
	m.state.DrinkType = matched
	return Result{OK: true, Message: fmt.Sprintf("Great! I'll make you a %s.", matched)}
}

// SetSize validates and records the cup size. Unlike drinks, sizes must match
// exactly so "medium-ish" does not pass.
func (m *Manager) SetSize(size string) Result {
	var matched string
	for _, valid := range ValidSizes {
		if strings.EqualFold(strings.TrimSpace(size), valid) {
			matched = valid
			break
		}
	}
	if matched == "" {
		log.Printf("[Orders] Invalid size requested: %s", size)
		return Result{Message: fmt.Sprintf("Invalid size. Please choose: %s", strings.Join(ValidSizes, ", "))}
	}
	m.state.Size = matched
	return Result{OK: true, Message: fmt.Sprintf("Perfect! A %s it is.", matched)}
}

// SetMilkOption validates and records the milk choice.
func (m *Manager) SetMilkOption(milk string) Result {
	matched, ok := matchOption(milk, ValidMilk)
	if !ok {
		log.Printf("[Orders] Invalid milk option: %s", milk)
		return Result{Message: fmt.Sprintf("We offer: %s", strings.Join(ValidMilk, ", "))}
	}
	m.state.Milk = matched
	return Result{OK: true, Message: fmt.Sprintf("Excellent! %s coming up.", matched)}
}

// AddExtra appends a topping, rejecting duplicates.
func (m *Manager) AddExtra(extra string) Result {
	matched, ok := matchOption(extra, ValidExtras)
	if !ok {
		log.Printf("[Orders] Invalid extra requested: %s", extra)
		return Result{Message: fmt.Sprintf("Available extras: %s...", strings.Join(ValidExtras[:4], ", "))}
	}
	for _, have := range m.state.Extras {
		if have == matched {
			return Result{Message: fmt.Sprintf("%s is already in your order.", matched)}
		}
	}
	m.state.Extras = append(m.state.Extras, matched)
	return Result{OK: true, Message: fmt.Sprintf("Added %s to your order.", matched)}
}

// RemoveExtra drops a previously added topping.
func (m *Manager) RemoveExtra(extra string) Result {
	matched, ok := matchOption(extra, ValidExtras)
	if ok {
		for i, have := range m.state.Extras {
			if have == matched {
				m.state.Extras = append(m.state.Extras[:i], m.state.Extras[i+1:]...)
				return Result{OK: true, Message: fmt.Sprintf("Removed %s from your order.", matched)}
			}
		}
	}
	return Result{Message: "That extra is not in your order."}
}

// SetCustomerName records the name the order is made out to.
func (m *Manager) SetCustomerName(name string) Result {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return Result{Message: "Please provide a valid name."}
	}
	m.state.Name = cleaned
	return Result{OK: true, Message: fmt.Sprintf("Got it, %s! Your order will be ready soon.", cleaned)}
}

// Current returns a copy of the order so far.
func (m *Manager) Current() State {
	s := m.state
	s.Extras = append([]string(nil), m.state.Extras...)
	return s
}

// IsComplete reports whether every required field is filled. Extras are
// optional.
func (m *Manager) IsComplete() bool {
	return m.state.DrinkType != "" && m.state.Size != "" && m.state.Milk != "" && m.state.Name != ""
}

// MissingFields names the fields the customer still has to provide, in
// menu order.
func (m *Manager) MissingFields() []string {
	var missing []string
	if m.state.DrinkType == "" {
		missing = append(missing, "drink type")
	}
	if m.state.Size == "" {
		missing = append(missing, "size")
	}
	if m.state.Milk == "" {
		missing = append(missing, "milk option")
	}
	if m.state.Name == "" {
		missing = append(missing, "name")
	}
	return missing
}

type savedOrder struct {
	OrderID   string            `json:"orderId"`
	Timestamp string            `json:"timestamp"`
	Customer  map[string]string `json:"customer"`
	Order     State             `json:"order"`
	Status    string            `json:"status"`
}

// Save writes the completed order to orders/order_<ts>_<name>.json and
// returns the filename. Incomplete orders are rejected.
func (m *Manager) Save() (string, error) {
	if !m.IsComplete() {
		return "", fmt.Errorf("orders: cannot save incomplete order, missing: %s",
			strings.Join(m.MissingFields(), ", "))
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("orders: create directory: %w", err)
	}

	now := time.Now()
	ts := now.Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("order_%s_%s.json", ts, strings.ReplaceAll(m.state.Name, " ", "_"))

	data, err := json.MarshalIndent(savedOrder{
		OrderID:   "ORD-" + ts,
		Timestamp: now.Format(time.RFC3339),
		Customer:  map[string]string{"name": m.state.Name},
		Order:     m.Current(),
		Status:    "completed",
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("orders: encode order: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("orders: write order: %w", err)
	}
	log.Printf("[Orders] Order saved to %s", filepath.Join(m.dir, filename))
	return filename, nil
}

// Reset clears the order for the next customer.
func (m *Manager) Reset() {
	m.state = State{Extras: []string{}}
}
