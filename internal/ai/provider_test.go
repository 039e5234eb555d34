// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeProvider returns a fixed reply and records the prompts it saw.
type fakeProvider struct {
	name  string
	reply string

	mu    sync.Mutex
	calls [][2]string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{system, user})
	return f.reply, nil
}

func openAIServer(t *testing.T, status int, body string, captured *openAIRequest, header *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if header != nil {
			*header = r.Header.Clone()
		}
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			json.Unmarshal(raw, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const choiceBody = `{"choices":[{"message":{"role":"assistant","content":"{\"action\":\"error\"}"}}]}`

func TestOpenAIGenerate(t *testing.T) {
	var req openAIRequest
	var header http.Header
	srv := openAIServer(t, http.StatusOK, choiceBody, &req, &header)

	p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL, JSON: true})
	got, err := p.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"action":"error"}` {
		t.Errorf("Generate = %q", got)
	}

	if auth := header.Get("Authorization"); auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	want := openAIRequest{
		Model: "gpt-4o",
		Messages: []openAIMessage{
			{Role: "system", Content: "system prompt"},
			{Role: "user", Content: "user prompt"},
		},
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request body (-want +got):\n%s", diff)
	}
}

func TestOpenAIGenerateWithoutJSONMode(t *testing.T) {
	var req openAIRequest
	srv := openAIServer(t, http.StatusOK, choiceBody, &req, nil)

	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if req.ResponseFormat != nil {
		t.Errorf("response_format = %+v, want omitted", req.ResponseFormat)
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("default model = %q", req.Model)
	}
}

func TestOpenAIGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusUnauthorized, `{"error":"bad key"}`, "status 401"},
		{"malformed json", http.StatusOK, `{not json`, "unmarshal"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := openAIServer(t, tt.status, tt.body, nil, nil)
			p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), "s", "u")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	srv := openAIServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`+"\n", nil, nil)
	p := newMistral(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), "s", "u")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	want := &APIError{Provider: "mistral", Status: http.StatusTooManyRequests, Body: `{"error":"slow down"}`}
	if diff := cmp.Diff(want, apiErr); diff != "" {
		t.Errorf("APIError (-want +got):\n%s", diff)
	}
}

func TestOpenAIGenerateCancelledContext(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, choiceBody, nil, nil)
	p := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Generate(ctx, "s", "u"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMistralUsesOpenAIFormat(t *testing.T) {
	var req openAIRequest
	srv := openAIServer(t, http.StatusOK, choiceBody, &req, nil)

	p := newMistral(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
	if p.Name() != "mistral" {
		t.Errorf("Name() = %q", p.Name())
	}
	if _, err := p.Generate(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if req.Model != "mistral-small-latest" {
		t.Errorf("default model = %q", req.Model)
	}

	if d := newMistral(ProviderConfig{APIKey: "k"}); d.config.BaseURL != "https://api.mistral.ai/v1" {
		t.Errorf("default BaseURL = %q", d.config.BaseURL)
	}
}

func claudeServer(t *testing.T, status int, body string, captured *claudeRequest, header *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		if header != nil {
			*header = r.Header.Clone()
		}
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			json.Unmarshal(raw, captured)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClaudeGenerate(t *testing.T) {
	var req claudeRequest
	var header http.Header
	body := `{"content":[{"type":"thinking","text":""},{"type":"text","text":"{\"action\":\"error\"}"}]}`
	srv := claudeServer(t, http.StatusOK, body, &req, &header)

	p := newClaude(ProviderConfig{APIKey: "ak-test", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"action":"error"}` {
		t.Errorf("Generate = %q", got)
	}
	if header.Get("x-api-key") != "ak-test" || header.Get("anthropic-version") != claudeAPIVersion {
		t.Errorf("headers = %v", header)
	}
	want := claudeRequest{
		Model:     claudeDefaultModel,
		MaxTokens: claudeMaxTokens,
		System:    "system prompt",
		Messages:  []claudeMessage{{Role: "user", Content: "user prompt"}},
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request body (-want +got):\n%s", diff)
	}
}

func TestClaudeGenerateJSONInstruction(t *testing.T) {
	var req claudeRequest
	srv := claudeServer(t, http.StatusOK, `{"content":[{"type":"text","text":"{}"}]}`, &req, nil)

	p := newClaude(ProviderConfig{APIKey: "k", Model: "claude-haiku-4-5", BaseURL: srv.URL, JSON: true})
	if _, err := p.Generate(context.Background(), "sys", "u"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if req.Model != "claude-haiku-4-5" {
		t.Errorf("model = %q", req.Model)
	}
	if !strings.HasPrefix(req.System, "sys\n\n") || !strings.Contains(req.System, "JSON object") {
		t.Errorf("system = %q", req.System)
	}
}

func TestClaudeGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusUnauthorized, `{"type":"error"}`, "status 401"},
		{"malformed json", http.StatusOK, `{not json`, "unmarshal"},
		{"no text block", http.StatusOK, `{"content":[{"type":"tool_use"}]}`, "no text content"},
		{"empty content", http.StatusOK, `{"content":[]}`, "no text content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := claudeServer(t, tt.status, tt.body, nil, nil)
			p := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), "s", "u")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestClaudeThroughRegistry(t *testing.T) {
	srv := claudeServer(t, http.StatusOK, `{"content":[{"type":"text","text":"hi"}]}`, nil, nil)
	reg := NewRegistry("claude", map[string]ProviderConfig{
		"claude": {APIKey: "k", BaseURL: srv.URL},
	})
	got, err := reg.Generate(context.Background(), "s", "u")
	if err != nil || got != "hi" {
		t.Errorf("Generate = %q, %v", got, err)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"openai":  {APIKey: "test-key"},
		"gemini":  {APIKey: "test-key"},
		"claude":  {APIKey: "test-key"},
		"mistral": {APIKey: ""},
		"unknown": {APIKey: "test-key"},
	})

	if reg.ActiveName() != "gemini" {
		t.Errorf("ActiveName() = %q", reg.ActiveName())
	}
	if diff := cmp.Diff([]string{"claude", "gemini", "openai"}, reg.Available()); diff != "" {
		t.Errorf("Available() (-want +got):\n%s", diff)
	}
	if reg.HasProvider("mistral") {
		t.Error("mistral should be skipped without an API key")
	}
	p, err := reg.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if p.Name() != "gemini" {
		t.Errorf("active provider = %q", p.Name())
	}
}

func TestRegistrySwitching(t *testing.T) {
	reg := NewRegistry("fake", nil)
	if _, err := reg.Generate(context.Background(), "s", "u"); err == nil {
		t.Error("Generate without providers should fail")
	}

	a := &fakeProvider{name: "a", reply: "from a"}
	b := &fakeProvider{name: "b", reply: "from b"}
	reg.Register("a", a)
	reg.Register("b", b)

	if err := reg.SetActive("missing"); err == nil {
		t.Error("SetActive(missing) should fail")
	}
	if err := reg.SetActive("b"); err != nil {
		t.Fatalf("SetActive(b): %v", err)
	}
	got, err := reg.Generate(context.Background(), "sys", "user")
	if err != nil || got != "from b" {
		t.Errorf("Generate = %q, %v", got, err)
	}
	if diff := cmp.Diff([][2]string{{"sys", "user"}}, b.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if len(a.calls) != 0 {
		t.Errorf("inactive provider was called %d times", len(a.calls))
	}
}

func TestRegistryStatus(t *testing.T) {
	reg := NewRegistry("openai", nil)
	want := Status{Active: "openai", Available: []string{}, Ready: false}
	if diff := cmp.Diff(want, reg.Status()); diff != "" {
		t.Errorf("Status() before register (-want +got):\n%s", diff)
	}

	reg.Register("openai", &fakeProvider{name: "openai"})
	reg.Register("mistral", &fakeProvider{name: "mistral"})
	want = Status{Active: "openai", Available: []string{"mistral", "openai"}, Ready: true}
	if diff := cmp.Diff(want, reg.Status()); diff != "" {
		t.Errorf("Status() (-want +got):\n%s", diff)
	}
}

func TestRegistryConcurrency(t *testing.T) {
	reg := NewRegistry("a", nil)
	reg.Register("a", &fakeProvider{name: "a", reply: "a"})
	reg.Register("b", &fakeProvider{name: "b", reply: "b"})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			name := "a"
			if i%2 == 0 {
				name = "b"
			}
			reg.SetActive(name)
		}()
		go func() {
			defer wg.Done()
			if _, err := reg.Generate(context.Background(), "s", "u"); err != nil {
				t.Errorf("Generate: %v", err)
			}
		}()
	}
	wg.Wait()
}

// TestGeminiLive tests the Gemini provider against the real API.
// Skipped if GEMINI_API_KEY is not set.
func TestGeminiLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"gemini": {APIKey: key, Model: os.Getenv("GEMINI_MODEL"), JSON: true},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := reg.Generate(ctx, `Reply with a JSON object {"answer": <number>}.`, "What is 2+2?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(result, "4") {
		t.Errorf("unexpected response: %s", result)
	}
}
