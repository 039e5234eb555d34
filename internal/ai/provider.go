// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai gives the command interpreter one interface over several LLM
// providers (OpenAI, Mistral, Gemini, Claude). The Registry holds the providers
// that have credentials and routes Generate to the one the operator
// picked.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Provider is a single LLM backend.
type Provider interface {
	// Generate returns the model's answer to userPrompt under the
	// instructions in systemPrompt.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name identifies the provider, e.g. "openai".
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
// JSON asks the provider to constrain its answer to a JSON object where
// the API supports it.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	JSON    bool
}

// builders maps provider names to their constructors.
var builders = map[string]func(ProviderConfig) (Provider, error){
	"openai":  func(cfg ProviderConfig) (Provider, error) { return newOpenAI(cfg), nil },
	"mistral": func(cfg ProviderConfig) (Provider, error) { return newMistral(cfg), nil },
	"claude":  func(cfg ProviderConfig) (Provider, error) { return newClaude(cfg), nil },
	"gemini": func(cfg ProviderConfig) (Provider, error) {
		p, err := newGemini(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	},
}

// Status is a snapshot of the registry. Ready reports whether the active
// name has a provider behind it.
type Status struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
	Ready     bool     `json:"ready"`
}

// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry builds a provider for each known name in configs that has
// an API key. Unknown names and empty keys are ignored; a provider that
// fails to build is logged and left out.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{providers: make(map[string]Provider), active: active}

	for name, cfg := range configs {
		build, known := builders[name]
		if !known || cfg.APIKey == "" {
			continue
		}
		p, err := build(cfg)
		if err != nil {
			slog.Warn("ai provider unavailable", "provider", name, "error", err)
			continue
		}
		r.providers[name] = p
	}
	return r
}

// Generate forwards to the active provider.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// Active returns the provider selected by the active name.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[r.active]
	name := r.active
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", name)
	}
	return p, nil
}

// SetActive selects name for subsequent calls. Only registered providers
// can be selected.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the selected provider name, which may have no
// provider behind it.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Available returns the registered provider names in sorted order.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

// names must be called with mu held.
func (r *Registry) names() []string {
	names := slices.AppendSeq(make([]string, 0, len(r.providers)), maps.Keys(r.providers))
	slices.Sort(names)
	return names
}

// Status returns the active name, the available names and readiness in
// one consistent read.
func (r *Registry) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ready := r.providers[r.active]
	return Status{
		Active:    r.active,
		Available: r.names(),
		Ready:     ready,
	}
}

// Register adds p under name, replacing any provider already there.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	r.providers[name] = p
	r.mu.Unlock()
}

// HasProvider reports whether name is registered.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}
