// Package llm implements the Summarizer port against OpenAI-compatible
// chat-completions endpoints (OpenRouter by default).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkallio/repodigest/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Summarizer = (*OpenRouterProvider)(nil)

// DefaultBaseURL is the OpenRouter chat-completions endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider talks to an OpenAI-compatible chat-completions API.
type OpenRouterProvider struct {
	model   string
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOpenRouterProvider creates a provider for the given model. baseURL may
// be empty to use the default endpoint.
func NewOpenRouterProvider(model, baseURL, apiKey string) *OpenRouterProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenRouterProvider{
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Model returns the model identifier recorded in digest footers.
func (p *OpenRouterProvider) Model() string { return p.model }

// Summarize sends the prompt and returns the completion text.
func (p *OpenRouterProvider) Summarize(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.3,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm API error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("llm API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
