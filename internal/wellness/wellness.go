// Package wellness keeps a JSON log of daily check-ins and produces short
// recaps of recent entries for the agent's context.
package wellness

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// CheckInEntry is one recorded check-in. MoodScale is optional; zero means
// the user gave no number.
type CheckInEntry struct {
	Timestamp    string   `json:"timestamp"`
	MoodText     string   `json:"mood_text"`
	MoodScale    int      `json:"mood_scale,omitempty"`
	Energy       string   `json:"energy,omitempty"`
	Objectives   []string `json:"objectives"`
	AgentSummary string   `json:"agent_summary,omitempty"`
}

type logFile struct {
	Entries []CheckInEntry `json:"entries"`
}

// Manager reads and appends the check-in log at path. The file is created
// with an empty entry list on first use.
type Manager struct {
	path string
}

// NewManager initialises the log file if missing.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		path = "wellness_log.json"
	}
	m := &Manager{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := m.write(logFile{Entries: []CheckInEntry{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("wellness: stat log: %w", err)
	}
	return m, nil
}

func (m *Manager) read() (logFile, error) {
	var lf logFile
	data, err := os.ReadFile(m.path)
	if err != nil {
		return lf, fmt.Errorf("wellness: read log: %w", err)
	}
	if err := json.Unmarshal(data, &lf); err != nil {
		return lf, fmt.Errorf("wellness: decode log: %w", err)
	}
	return lf, nil
}

func (m *Manager) write(lf logFile) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("wellness: encode log: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("wellness: write log: %w", err)
	}
	return nil
}

// AppendCheckIn records an entry, stamping the time when unset.
func (m *Manager) AppendCheckIn(entry CheckInEntry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Format(time.RFC3339)
	}
	if entry.Objectives == nil {
		entry.Objectives = []string{}
	}
	lf, err := m.read()
	if err != nil {
		return err
	}
	lf.Entries = append(lf.Entries, entry)
	return m.write(lf)
}

// Entries returns all recorded check-ins, oldest first.
func (m *Manager) Entries() ([]CheckInEntry, error) {
	lf, err := m.read()
	if err != nil {
		return nil, err
	}
	return lf.Entries, nil
}

// LastEntry returns the most recent check-in, or ok=false when the log is
// empty.
func (m *Manager) LastEntry() (CheckInEntry, bool, error) {
	entries, err := m.Entries()
	if err != nil || len(entries) == 0 {
		return CheckInEntry{}, false, err
	}
	return entries[len(entries)-1], true, nil
}

// SummaryOfRecent renders the last n check-ins as one line each, for
// inclusion in the agent's context.
func (m *Manager) SummaryOfRecent(n int) (string, error) {
	if n <= 0 {
		n = 3
	}
	entries, err := m.Entries()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No previous wellness check-ins on record.", nil
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		ts := e.Timestamp
		if len(ts) > 19 {
			ts = ts[:19]
		}
		scale := "no scale"
		if e.MoodScale != 0 {
			scale = fmt.Sprintf("%d", e.MoodScale)
		}
		energy := e.Energy
		if energy == "" {
			energy = "no energy reported"
		}
		lines = append(lines, fmt.Sprintf("On %s: mood= '%s', mood scale = '%s', energy= '%s', goals = %v",
			ts, e.MoodText, scale, energy, e.Objectives))
	}
	return strings.Join(lines, "\n"), nil
}
