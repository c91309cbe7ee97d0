package llm

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider talks to a local Ollama instance. One configured
// model serves every pipeline step.
type OllamaProvider struct {
	Model   string
	BaseURL string
	client  *http.Client
}

func NewOllamaProvider(model, baseURL string) *OllamaProvider {
	return &OllamaProvider{
		Model:   model,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// IsConfigured reports whether Ollama is reachable and serves a model
// matching the configured name.
func (o *OllamaProvider) IsConfigured() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false
	}

	// Match on the base name so "qwen2.5" finds "qwen2.5:7b".
	wanted := strings.SplitN(o.Model, ":", 2)[0]
	for _, m := range tags.Models {
		if strings.Contains(m.Name, wanted) {
			return true
		}
	}
	log.Printf("Ollama model %q not found", o.Model)
	return false
}

// Complete runs a chat completion. The per-call model is ignored.
func (o *OllamaProvider) Complete(ctx context.Context, _ string, instruction, input string) (string, error) {
	payload := map[string]any{
		"model":    o.Model,
		"messages": chatMessages(instruction, input),
		"stream":   false,
		"options":  map[string]any{"temperature": 0.3},
	}

	var reply struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := postJSON(ctx, o.client, o.BaseURL+"/api/chat", nil, payload, &reply); err != nil {
		return "", err
	}
	return strings.TrimSpace(reply.Message.Content), nil
}
