// Package story holds the game mechanics behind the game-master agent. The
// model narrates; this package owns the dice and the session state.
package story

import (
	"fmt"
	"log"
	"math/rand"
)

// GameState tracks the current adventure.
type GameState struct {
	AdventureActive bool
	LastRoll        int
}

// RollResult is relayed to the model as the system's word on a dice roll.
type RollResult struct {
	OK      bool   `json:"success"`
	Roll    int    `json:"roll,omitempty"`
	Message string `json:"message"`
}

// Manager owns one session's game state.
type Manager struct {
	state GameState
	// roll is swappable for deterministic tests.
	roll func(sides int) int
}

// NewManager creates a manager with no active adventure.
func NewManager() *Manager {
	return &Manager{
		roll: func(sides int) int { return rand.Intn(sides) + 1 },
	}
}

// State returns the current game state.
func (m *Manager) State() GameState { return m.state }

// StartNewAdventure resets the state for a fresh story.
func (m *Manager) StartNewAdventure() string {
	m.state = GameState{AdventureActive: true}
	log.Printf("[Story] New adventure started")
	return "The board is reset. A new adventure begins."
}

// RollDice rolls a die with the given number of sides (d20 when sides is 0).
// Rolling the maximum is a critical success, rolling 1 a critical failure.
func (m *Manager) RollDice(sides int) RollResult {
	if sides == 0 {
		sides = 20
	}
	if sides < 2 {
		return RollResult{Message: "I can't roll a die with fewer than 2 sides."}
	}

	roll := m.roll(sides)
	m.state.LastRoll = roll
	log.Printf("[Story] Rolled d%d: %d", sides, roll)

	resultType := "Result"
	switch roll {
	case 1:
		resultType = "Critical Failure!"
	case sides:
		resultType = "Critical Success!"
	}
	return RollResult{
		OK:      true,
		Roll:    roll,
		Message: fmt.Sprintf("[System: Dice Roll d%d result: %d (%s)]", sides, roll, resultType),
	}
}
