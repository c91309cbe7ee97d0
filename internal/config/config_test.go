package config

import (
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.MaxURLs != 3 {
		t.Errorf("expected default max_urls 3, got %d", cfg.Pipeline.MaxURLs)
	}
	if cfg.Auth.SessionTTLDays != 7 {
		t.Errorf("expected default session ttl 7, got %d", cfg.Auth.SessionTTLDays)
	}
	if cfg.LLM.WriterModel != "gpt-4.1" {
		t.Errorf("expected default writer model gpt-4.1, got %q", cfg.LLM.WriterModel)
	}
}

func TestParseOverrides(t *testing.T) {
	yaml := `
server:
  port: 9000
pipeline:
  max_urls: 5
  workers: 2
llm:
  provider: ollama
`
	cfg, err := parse([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.MaxURLs != 5 {
		t.Errorf("expected max_urls 5, got %d", cfg.Pipeline.MaxURLs)
	}
	if cfg.Pipeline.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Pipeline.Workers)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %q", cfg.LLM.Provider)
	}
	// Untouched sections keep their defaults.
	if cfg.LLM.SmallModel != "gpt-4.1-mini" {
		t.Errorf("expected small model default, got %q", cfg.LLM.SmallModel)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := parse([]byte("server: [not a map"))
	if err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestDefaultConfigYAMLParses(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("embedded default config does not parse: %v", err)
	}
	if cfg.Output.ExportDir != "exports" {
		t.Errorf("expected exports dir, got %q", cfg.Output.ExportDir)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	if !strings.Contains(cfg.GetDataDir(), "rankdraft") {
		t.Errorf("expected XDG default to mention rankdraft, got %q", cfg.GetDataDir())
	}
	cfg.Output.DataDir = "/tmp/custom"
	if cfg.GetDataDir() != "/tmp/custom" {
		t.Errorf("expected explicit data dir, got %q", cfg.GetDataDir())
	}
}
