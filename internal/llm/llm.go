// Package llm abstracts chat-completion providers behind a small
// Provider interface. Every pipeline step sends an instruction/input
// pair and gets back plain text.
package llm

import (
	"context"
	"log"
	"strings"
)

// Provider completes an instruction/input pair against the named
// model. Providers serving a single local model may ignore the model
// argument.
type Provider interface {
	Complete(ctx context.Context, model, instruction, input string) (string, error)
	IsConfigured() bool
}

// DisabledProvider stands in when no real provider is configured.
// Completions return a fixed notice instead of failing, so pipelines
// still finish with inspectable placeholder output.
type DisabledProvider struct{}

func (DisabledProvider) Complete(context.Context, string, string, string) (string, error) {
	return "LLM disabled. Set OPENAI_API_KEY to enable model output.", nil
}

func (DisabledProvider) IsConfigured() bool { return false }

// CreateProvider picks a provider from config: Ollama when requested
// and reachable, OpenAI when a key is present, otherwise disabled.
func CreateProvider(provider, ollamaModel, ollamaURL, apiKeyEnv string) Provider {
	if strings.EqualFold(provider, "ollama") {
		ollama := NewOllamaProvider(ollamaModel, ollamaURL)
		if ollama.IsConfigured() {
			log.Printf("Using Ollama with model: %s", ollamaModel)
			return ollama
		}
		log.Println("Ollama not available, trying OpenAI fallback...")
	}

	openai := NewOpenAIProvider(apiKeyEnv)
	if openai.IsConfigured() {
		log.Println("Using OpenAI")
		return openai
	}

	log.Printf("No LLM provider available. Check Ollama is running or set %s.", apiKeyEnv)
	return DisabledProvider{}
}
