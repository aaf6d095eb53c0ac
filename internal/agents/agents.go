// Package agents assembles the demo agent definitions: their personas,
// instructions and tool bindings over the domain managers.
package agents

import (
	"fmt"
	"sort"

	"github.com/ganai-labs/voiceagents/internal/agent"
)

// Config carries the paths the agents persist their data under.
type Config struct {
	// DataDir holds order files and receipts.
	DataDir string
	// LeadsDBPath is the JSON lead database (defaults to leads_db.json).
	LeadsDBPath string
	// WellnessLogPath is the check-in log (defaults to wellness_log.json).
	WellnessLogPath string
	// FraudDBPath is the SQLite fraud-case database (defaults to bank_fraud.db).
	FraudDBPath string
}

// builders maps agent names to their constructors. Each Build call creates
// fresh managers so sessions never share cart or order state.
var builders = map[string]func(Config) (*agent.Definition, func(), error){
	"barista":    buildBarista,
	"grocery":    buildGrocery,
	"sdr":        buildSDR,
	"gamemaster": buildGameMaster,
	"wellness":   buildWellness,
	"fraud":      buildFraud,
	"tutor":      buildTutor,
}

// Names lists the available agents, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates a fresh definition for the named agent. The returned cleanup
// releases any resources the agent holds (database handles) and must be
// called when the session ends.
func Build(name string, cfg Config) (*agent.Definition, func(), error) {
	builder, ok := builders[name]
	if !ok {
		return nil, nil, fmt.Errorf("agents: unknown agent %q (available: %v)", name, Names())
	}
	def, cleanup, err := builder(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cleanup == nil {
		cleanup = func() {}
	}
	if err := def.Validate(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return def, cleanup, nil
}
