// Package grocery manages a shopping cart against an embedded product
// catalog, with INR pricing and JSON receipts on checkout.
package grocery

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "embed"
)

//go:embed catalog.json
var catalogJSON []byte

// CatalogItem is one product in the store catalog. Tags link items to the
// dishes they go into so the model can infer ingredients.
type CatalogItem struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

// CartItem tracks one product in the cart.
type CartItem struct {
	Price    float64
	Quantity int
	Category string
}

// Result is relayed back to the language model.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

// Manager holds one session's cart. The catalog is shared and read-only.
type Manager struct {
	catalog map[string][]CatalogItem
	lookup  map[string]lookupEntry
	cart    map[string]*CartItem
	dir     string
}

type lookupEntry struct {
	name     string
	price    float64
	category string
}

// NewManager loads the embedded catalog and creates an empty cart. Receipts
// are written under dir.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		dir = "orders"
	}
	var catalog map[string][]CatalogItem
	if err := json.Unmarshal(catalogJSON, &catalog); err != nil {
		return nil, fmt.Errorf("grocery: decode catalog: %w", err)
	}

	lookup := make(map[string]lookupEntry)
	for category, items := range catalog {
		for _, item := range items {
			lookup[strings.ToLower(item.Name)] = lookupEntry{
				name:     item.Name,
				price:    item.Price,
				category: category,
			}
		}
	}
	return &Manager{
		catalog: catalog,
		lookup:  lookup,
		cart:    make(map[string]*CartItem),
		dir:     dir,
	}, nil
}

// CatalogString renders the catalog as indented JSON for inclusion in the
// agent's instructions.
func (m *Manager) CatalogString() string {
	data, err := json.MarshalIndent(m.catalog, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// AddItems adds the named products with the given quantities. A short
// quantities slice is padded with 1s. Unknown names are reported back
// rather than failing the whole call.
func (m *Manager) AddItems(names []string, quantities []int) Result {
	for len(quantities) < len(names) {
		quantities = append(quantities, 1)
	}

	var added, failed []string
	for i, name := range names {
		entry, ok := m.lookup[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			failed = append(failed, name)
			continue
		}
		qty := quantities[i]
		if qty < 1 {
			qty = 1
		}
		if item, have := m.cart[entry.name]; have {
			item.Quantity += qty
		} else {
			m.cart[entry.name] = &CartItem{Price: entry.price, Quantity: qty, Category: entry.category}
		}
		added = append(added, fmt.Sprintf("%dx %s", qty, entry.name))
	}

	var msg strings.Builder
	if len(added) > 0 {
		fmt.Fprintf(&msg, "Added: %s. ", strings.Join(added, ", "))
	}
	if len(failed) > 0 {
		fmt.Fprintf(&msg, "Could not find: %s.", strings.Join(failed, ", "))
	}
	return Result{OK: true, Message: msg.String()}
}

// RemoveItem drops the first cart entry whose name contains the given text.
func (m *Manager) RemoveItem(name string) Result {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, have := range m.cartNames() {
		if strings.Contains(strings.ToLower(have), needle) {
			delete(m.cart, have)
			return Result{OK: true, Message: fmt.Sprintf("Removed %s from your cart.", have)}
		}
	}
	return Result{Message: fmt.Sprintf("%s wasn't in your cart.", name)}
}

// Summary renders the cart with per-line and total cost.
func (m *Manager) Summary() string {
	if len(m.cart) == 0 {
		return "Your cart is currently empty."
	}

	var b strings.Builder
	b.WriteString("Current Cart:\n")
	total := 0.0
	for _, name := range m.cartNames() {
		item := m.cart[name]
		cost := item.Price * float64(item.Quantity)
		total += cost
		fmt.Fprintf(&b, "- %s (x%d): Rs. %.2f\n", name, item.Quantity, cost)
	}
	fmt.Fprintf(&b, "\nTotal: Rs. %.2f", total)
	return b.String()
}

type receiptLine struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Total        float64 `json:"total"`
}

type receipt struct {
	OrderID    string        `json:"order_id"`
	Timestamp  string        `json:"timestamp"`
	Items      []receiptLine `json:"items"`
	TotalPrice float64       `json:"total_price"`
	Currency   string        `json:"currency"`
	Status     string        `json:"status"`
}

// Checkout writes a receipt for the cart and clears it.
func (m *Manager) Checkout() Result {
	if len(m.cart) == 0 {
		return Result{Message: "Cart is empty."}
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Result{Message: fmt.Sprintf("Could not save the order: %v", err)}
	}

	now := time.Now()
	ts := now.Format("2006-01-02_15-04-05")

	rec := receipt{
		OrderID:   "ORD-" + ts,
		Timestamp: now.Format(time.RFC3339),
		Currency:  "INR",
		Status:    "placed",
	}
	for _, name := range m.cartNames() {
		item := m.cart[name]
		lineTotal := item.Price * float64(item.Quantity)
		rec.TotalPrice += lineTotal
		rec.Items = append(rec.Items, receiptLine{
			Name:         name,
			Quantity:     item.Quantity,
			PricePerUnit: item.Price,
			Total:        lineTotal,
		})
	}

	filename := fmt.Sprintf("grocery_order_%s.json", ts)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Result{Message: fmt.Sprintf("Could not save the order: %v", err)}
	}
	if err := os.WriteFile(filepath.Join(m.dir, filename), data, 0o644); err != nil {
		return Result{Message: fmt.Sprintf("Could not save the order: %v", err)}
	}
	log.Printf("[Grocery] Receipt saved to %s", filepath.Join(m.dir, filename))

	m.cart = make(map[string]*CartItem)
	return Result{OK: true, Message: fmt.Sprintf("Order placed! Total is Rs. %.2f. Receipt saved as %s.", rec.TotalPrice, filename)}
}

// cartNames returns cart keys in stable order.
func (m *Manager) cartNames() []string {
	names := make([]string, 0, len(m.cart))
	for name := range m.cart {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
