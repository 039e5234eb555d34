package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// compatDefaults holds the endpoint and model used when a config leaves
// them empty, per OpenAI-compatible vendor.
var compatDefaults = map[string]struct{ baseURL, model string }{
	"openai":  {"https://api.openai.com/v1", "gpt-4o-mini"},
	"mistral": {"https://api.mistral.ai/v1", "mistral-small-latest"},
}

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 512

// APIError is returned when a provider answers with a non-200 status.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error (status %d): %s", e.Provider, e.Status, e.Body)
}

// openAIProvider talks to any chat completions endpoint
// (POST {base}/chat/completions).
type openAIProvider struct {
	name   string
	config ProviderConfig
	client *http.Client
}

func newCompatible(name string, cfg ProviderConfig) *openAIProvider {
	d := compatDefaults[name]
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.baseURL
	}
	if cfg.Model == "" {
		cfg.Model = d.model
	}
	return &openAIProvider{
		name:   name,
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func newOpenAI(cfg ProviderConfig) *openAIProvider { return newCompatible("openai", cfg) }

// newMistral uses Mistral's OpenAI-compatible API.
func newMistral(cfg ProviderConfig) *openAIProvider { return newCompatible("mistral", cfg) }

func (p *openAIProvider) Name() string { return p.name }

func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload, err := json.Marshal(p.request(systemPrompt, userPrompt))
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: send request: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{Provider: p.name, Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: unmarshal response: %w", p.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}
	return out.Choices[0].Message.Content, nil
}

func (p *openAIProvider) request(systemPrompt, userPrompt string) openAIRequest {
	r := openAIRequest{
		Model: p.config.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if p.config.JSON {
		r.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}
	return r
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}
