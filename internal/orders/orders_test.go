package orders

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetDrinkTypeMatchesSubstring(t *testing.T) {
	m := NewManager(t.TempDir())

	res := m.SetDrinkType("latte")
	if !res.OK {
		t.Fatalf("SetDrinkType failed: %s", res.Message)
	}
	if got := m.Current().DrinkType; got != "Latte" {
		t.Fatalf("DrinkType = %q, want Latte", got)
	}

	res = m.SetDrinkType("bubble tea")
	if res.OK {
		t.Fatalf("expected rejection for unknown drink")
	}
	if !strings.Contains(res.Message, "Available drinks") {
		t.Fatalf("rejection message should list drinks: %q", res.Message)
	}
}

func TestSetSizeIsExactMatch(t *testing.T) {
	m := NewManager(t.TempDir())

	if res := m.SetSize("MEDIUM"); !res.OK {
		t.Fatalf("case-insensitive size rejected: %s", res.Message)
	}
	if got := m.Current().Size; got != "Medium" {
		t.Fatalf("Size = %q", got)
	}
	if res := m.SetSize("med"); res.OK {
		t.Fatalf("partial size should be rejected")
	}
}

func TestExtrasNoDuplicates(t *testing.T) {
	m := NewManager(t.TempDir())

	if res := m.AddExtra("whipped cream"); !res.OK {
		t.Fatalf("AddExtra failed: %s", res.Message)
	}
	if res := m.AddExtra("Whipped Cream"); res.OK {
		t.Fatalf("duplicate extra accepted")
	}
	if res := m.RemoveExtra("whipped"); !res.OK {
		t.Fatalf("RemoveExtra failed: %s", res.Message)
	}
	if res := m.RemoveExtra("cinnamon"); res.OK {
		t.Fatalf("removing an extra not in the order should fail")
	}
	if got := len(m.Current().Extras); got != 0 {
		t.Fatalf("extras = %d, want 0", got)
	}
}

func TestMissingFieldsAndCompletion(t *testing.T) {
	m := NewManager(t.TempDir())

	if m.IsComplete() {
		t.Fatalf("empty order reported complete")
	}
	missing := m.MissingFields()
	if len(missing) != 4 {
		t.Fatalf("missing = %v, want 4 entries", missing)
	}

	m.SetDrinkType("mocha")
	m.SetSize("large")
	m.SetMilkOption("oat")
	if m.IsComplete() {
		t.Fatalf("order complete without a name")
	}
	m.SetCustomerName("  Priya  ")
	if !m.IsComplete() {
		t.Fatalf("order should be complete, missing: %v", m.MissingFields())
	}
	if got := m.Current().Name; got != "Priya" {
		t.Fatalf("name not trimmed: %q", got)
	}
}

func TestSaveWritesOrderFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	if _, err := m.Save(); err == nil {
		t.Fatalf("saving an incomplete order should fail")
	}

	m.SetDrinkType("cappuccino")
	m.SetSize("small")
	m.SetMilkOption("almond")
	m.AddExtra("cinnamon")
	m.SetCustomerName("Sam Lee")

	filename, err := m.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(filename, "order_") || !strings.HasSuffix(filename, "_Sam_Lee.json") {
		t.Fatalf("unexpected filename %q", filename)
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading saved order: %v", err)
	}
	var saved struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
		Order   State  `json:"order"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decoding saved order: %v", err)
	}
	if !strings.HasPrefix(saved.OrderID, "ORD-") {
		t.Fatalf("orderId = %q", saved.OrderID)
	}
	if saved.Status != "completed" {
		t.Fatalf("status = %q", saved.Status)
	}
	if saved.Order.DrinkType != "Cappuccino" || len(saved.Order.Extras) != 1 {
		t.Fatalf("saved order = %+v", saved.Order)
	}
}

func TestResetClearsOrder(t *testing.T) {
	m := NewManager(t.TempDir())
	m.SetDrinkType("espresso")
	m.SetCustomerName("Ana")
	m.Reset()

	cur := m.Current()
	if cur.DrinkType != "" || cur.Name != "" || len(cur.Extras) != 0 {
		t.Fatalf("reset left state behind: %+v", cur)
	}
}
