package story

import (
	"strings"
	"testing"
)

func TestRollDiceBounds(t *testing.T) {
	m := NewManager()
	for i := 0; i < 200; i++ {
		res := m.RollDice(6)
		if !res.OK {
			t.Fatalf("RollDice failed: %s", res.Message)
		}
		if res.Roll < 1 || res.Roll > 6 {
			t.Fatalf("roll %d out of range for d6", res.Roll)
		}
		if m.State().LastRoll != res.Roll {
			t.Fatalf("LastRoll not updated")
		}
	}
}

func TestRollDiceDefaultsToD20(t *testing.T) {
	m := NewManager()
	m.roll = func(sides int) int {
		if sides != 20 {
			t.Fatalf("sides = %d, want 20", sides)
		}
		return 7
	}
	res := m.RollDice(0)
	if !strings.Contains(res.Message, "d20") {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestRollDiceCriticals(t *testing.T) {
	m := NewManager()

	m.roll = func(int) int { return 1 }
	if res := m.RollDice(20); !strings.Contains(res.Message, "Critical Failure!") {
		t.Fatalf("roll of 1: %q", res.Message)
	}

	m.roll = func(int) int { return 20 }
	if res := m.RollDice(20); !strings.Contains(res.Message, "Critical Success!") {
		t.Fatalf("max roll: %q", res.Message)
	}

	m.roll = func(int) int { return 11 }
	if res := m.RollDice(20); !strings.Contains(res.Message, "(Result)") {
		t.Fatalf("mid roll: %q", res.Message)
	}
}

func TestRollDiceRejectsTinyDice(t *testing.T) {
	m := NewManager()
	res := m.RollDice(1)
	if res.OK {
		t.Fatalf("d1 should be rejected")
	}
	if m.State().LastRoll != 0 {
		t.Fatalf("rejected roll mutated state")
	}
}

func TestStartNewAdventureResets(t *testing.T) {
	m := NewManager()
	m.RollDice(20)

	msg := m.StartNewAdventure()
	if msg == "" {
		t.Fatalf("no confirmation message")
	}
	st := m.State()
	if !st.AdventureActive || st.LastRoll != 0 {
		t.Fatalf("state after reset = %+v", st)
	}
}
