package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Server   Server   `yaml:"server"`
	Auth     Auth     `yaml:"auth"`
	LLM      LLM      `yaml:"llm"`
	Pipeline Pipeline `yaml:"pipeline"`
	Output   Output   `yaml:"output"`
	Logging  Logging  `yaml:"logging"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Auth struct {
	SessionTTLDays int  `yaml:"session_ttl_days"`
	CookieSecure   bool `yaml:"cookie_secure"`
}

type LLM struct {
	Provider     string `yaml:"provider"`
	OllamaModel  string `yaml:"ollama_model"`
	OllamaURL    string `yaml:"ollama_url"`
	SmallModel   string `yaml:"small_model"`
	AnalystModel string `yaml:"analyst_model"`
	WriterModel  string `yaml:"writer_model"`
	APIKeyEnv    string `yaml:"api_key_env"`
}

type Pipeline struct {
	MaxURLs             int `yaml:"max_urls"`
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	MaxFeedItems        int `yaml:"max_feed_items"`
	QueueSize           int `yaml:"queue_size"`
	Workers             int `yaml:"workers"`
}

type Output struct {
	DataDir   string `yaml:"data_dir"`
	ExportDir string `yaml:"export_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for rankdraft.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "rankdraft")
}

// DataDir returns the XDG data directory for rankdraft.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "rankdraft")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/rankdraft/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'rankdraft init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Server: Server{Host: "0.0.0.0", Port: 8000},
		Auth:   Auth{SessionTTLDays: 7},
		LLM: LLM{
			Provider:     "openai",
			OllamaModel:  "qwen2.5:7b",
			OllamaURL:    "http://localhost:11434",
			SmallModel:   "gpt-4.1-mini",
			AnalystModel: "gpt-4.1-mini",
			WriterModel:  "gpt-4.1",
			APIKeyEnv:    "OPENAI_API_KEY",
		},
		Pipeline: Pipeline{
			MaxURLs:             3,
			FetchTimeoutSeconds: 20,
			MaxFeedItems:        10,
			QueueSize:           64,
			Workers:             4,
		},
		Output:  Output{ExportDir: "exports"},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
