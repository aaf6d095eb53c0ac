package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VOICEAGENTS_LISTEN_ADDR", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VOICEAGENTS_MODEL", "")
	t.Setenv("VOICEAGENTS_DATA_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:8787" || cfg.DataDir != "data" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("VOICEAGENTS_LISTEN_ADDR", "")
	t.Setenv("VOICEAGENTS_DATA_DIR", "")

	path := filepath.Join(t.TempDir(), "voiceagents.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: 0.0.0.0:9000\ndata_dir: /tmp/va\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" || cfg.DataDir != "/tmp/va" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceagents.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: 0.0.0.0:9000\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("VOICEAGENTS_LISTEN_ADDR", "127.0.0.1:7000")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:7000" {
		t.Fatalf("env did not override yaml: %+v", cfg)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("api key not picked up: %+v", cfg)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voiceagents.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDataPaths(t *testing.T) {
	cfg := Config{DataDir: "/srv/va"}
	if cfg.OrdersDir() != filepath.Join("/srv/va", "orders") {
		t.Fatalf("OrdersDir = %q", cfg.OrdersDir())
	}
	if cfg.FraudDBPath() != filepath.Join("/srv/va", "bank_fraud.db") {
		t.Fatalf("FraudDBPath = %q", cfg.FraudDBPath())
	}
}
