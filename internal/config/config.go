// Package config loads runtime settings from an optional YAML file, a local
// .env.local, and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the daemon needs to run.
type Config struct {
	// ListenAddr is the websocket server bind address.
	ListenAddr string `yaml:"listen_addr"`
	// OpenAIAPIKey authenticates the language-model adapter.
	OpenAIAPIKey string `yaml:"openai_api_key"`
	// Model overrides the default chat model.
	Model string `yaml:"model"`
	// DataDir is where agents persist orders, receipts, logs and databases.
	DataDir string `yaml:"data_dir"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		ListenAddr: "127.0.0.1:8787",
		DataDir:    "data",
	}
}

// Load reads configuration: defaults, then the YAML file at path (skipped
// when missing), then .env.local, then the environment.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file.
		default:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] Ignoring .env.local: %v", err)
	}

	if v := os.Getenv("VOICEAGENTS_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("VOICEAGENTS_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("VOICEAGENTS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	return cfg, nil
}

// OrdersDir is where order files and receipts land.
func (c Config) OrdersDir() string { return filepath.Join(c.DataDir, "orders") }

// LeadsDBPath is the JSON lead database.
func (c Config) LeadsDBPath() string { return filepath.Join(c.DataDir, "leads_db.json") }

// WellnessLogPath is the wellness check-in log.
func (c Config) WellnessLogPath() string { return filepath.Join(c.DataDir, "wellness_log.json") }

// FraudDBPath is the SQLite fraud-case database.
func (c Config) FraudDBPath() string { return filepath.Join(c.DataDir, "bank_fraud.db") }

// EnsureDataDir creates the data directory tree.
func (c Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.OrdersDir(), 0o755); err != nil {
		return fmt.Errorf("config: create data directory: %w", err)
	}
	return nil
}
