// Package leads qualifies inbound sales leads: seven fields collected
// piecemeal over a conversation and appended to a JSON database on close.
package leads

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// fieldOrder fixes the collection order used in prompts and summaries.
var fieldOrder = []string{"name", "company", "email", "role", "use_case", "team_size", "timeline"}

// Lead holds what the qualifier has learned so far. Empty means unknown.
type Lead struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UseCase  string `json:"use_case"`
	TeamSize string `json:"team_size"`
	Timeline string `json:"timeline"`
}

// Manager tracks one session's lead and appends finalized leads to dbPath.
type Manager struct {
	lead   Lead
	dbPath string
}

// NewManager creates a manager writing to dbPath (defaults to leads_db.json).
func NewManager(dbPath string) *Manager {
	if dbPath == "" {
		dbPath = "leads_db.json"
	}
	return &Manager{dbPath: dbPath}
}

// Update records any non-empty fields and returns an instruction string for
// the model: either the remaining fields to ask about, or the go-ahead to
// summarize.
func (m *Manager) Update(fields map[string]string) string {
	for key, value := range fields {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "name":
			m.lead.Name = value
		case "company":
			m.lead.Company = value
		case "email":
			m.lead.Email = value
		case "role":
			m.lead.Role = value
		case "use_case":
			m.lead.UseCase = value
		case "team_size":
			m.lead.TeamSize = value
		case "timeline":
			m.lead.Timeline = value
		}
	}

	missing := m.MissingFields()
	if len(missing) == 0 {
		return "SUCCESS: All fields collected. You can now move to the summary phase."
	}
	return fmt.Sprintf("Saved. Missing fields: %s. Please ask for ONE of these next.",
		strings.Join(missing, ", "))
}

// MissingFields names the fields still unknown, in collection order.
func (m *Manager) MissingFields() []string {
	var missing []string
	for _, key := range fieldOrder {
		if m.fieldValue(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Current returns a copy of the lead so far.
func (m *Manager) Current() Lead { return m.lead }

// Summary renders the lead in one readable line, substituting "unknown" for
// anything not collected.
func (m *Manager) Summary() string {
	v := func(key string) string {
		if s := m.fieldValue(key); s != "" {
			return s
		}
		return "unknown"
	}
	return fmt.Sprintf("Lead: %s from %s (%s). Needs Gan.ai for %s with a team of %s. Timeline: %s.",
		v("name"), v("company"), v("role"), v("use_case"), v("team_size"), v("timeline"))
}

// Finalize appends the lead to the JSON database and returns the summary.
func (m *Manager) Finalize() (string, error) {
	var db []Lead
	if data, err := os.ReadFile(m.dbPath); err == nil {
		// A corrupt database starts over rather than blocking the save.
		if err := json.Unmarshal(data, &db); err != nil {
			log.Printf("[Leads] Ignoring unreadable database %s: %v", m.dbPath, err)
			db = nil
		}
	}
	db = append(db, m.lead)

	data, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		return "", fmt.Errorf("leads: encode database: %w", err)
	}
	if err := os.WriteFile(m.dbPath, data, 0o644); err != nil {
		return "", fmt.Errorf("leads: write database: %w", err)
	}
	log.Printf("[Leads] Lead appended to %s", m.dbPath)
	return m.Summary(), nil
}

func (m *Manager) fieldValue(key string) string {
	switch key {
	case "name":
		return m.lead.Name
	case "company":
		return m.lead.Company
	case "email":
		return m.lead.Email
	case "role":
		return m.lead.Role
	case "use_case":
		return m.lead.UseCase
	case "team_size":
		return m.lead.TeamSize
	case "timeline":
		return m.lead.Timeline
	}
	return ""
}
