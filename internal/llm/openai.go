package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// OpenAIProvider calls the OpenAI chat completions API with a
// per-step model name.
type OpenAIProvider struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

// NewOpenAIProvider reads the API key from the named environment
// variable.
func NewOpenAIProvider(apiKeyEnv string) *OpenAIProvider {
	return &OpenAIProvider{
		APIKey:  os.Getenv(apiKeyEnv),
		BaseURL: "https://api.openai.com/v1",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *OpenAIProvider) IsConfigured() bool {
	return o.APIKey != ""
}

// Complete runs a chat completion against the given model.
func (o *OpenAIProvider) Complete(ctx context.Context, model, instruction, input string) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	payload := map[string]any{
		"model":       model,
		"messages":    chatMessages(instruction, input),
		"temperature": 0.3,
	}
	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := postJSON(ctx, o.client, o.BaseURL+"/chat/completions", headers, payload, &reply); err != nil {
		return "", err
	}
	if len(reply.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return strings.TrimSpace(reply.Choices[0].Message.Content), nil
}
