// Package model provides the allow-list of completion models. Requests
// name a model from the list (or none, for the default); anything else
// is rejected before a network call is attempted.
package model

import (
	"fmt"
	"sort"
	"sync"
)

// Endpoint defines an available model endpoint.
type Endpoint struct {
	// Provider is the completion provider (openai, anthropic, ollama).
	Provider string `json:"provider" yaml:"provider"`

	// URL is the API base URL (empty uses the provider default).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Model is the actual model identifier to send to the provider.
	Model string `json:"model" yaml:"model"`

	// MaxTokens is the default output token budget for this endpoint.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// Registry maps allow-listed model names to endpoints.
type Registry struct {
	mu           sync.RWMutex
	endpoints    map[string]*Endpoint
	defaultModel string
}

// NewRegistry creates a registry from the given endpoints. defaultModel
// must name one of them.
func NewRegistry(endpoints map[string]*Endpoint, defaultModel string) (*Registry, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("at least one model endpoint is required")
	}
	if _, ok := endpoints[defaultModel]; !ok {
		return nil, fmt.Errorf("default model %q is not in the allow-list", defaultModel)
	}
	return &Registry{
		endpoints:    endpoints,
		defaultModel: defaultModel,
	}, nil
}

// NewDefaultRegistry creates a registry with the built-in allow-list.
// Used when no configuration is provided.
func NewDefaultRegistry() *Registry {
	return &Registry{
		endpoints: map[string]*Endpoint{
			"gpt-4o-mini": {
				Provider:  "openai",
				Model:     "gpt-4o-mini",
				MaxTokens: 1500,
			},
			"gpt-4o": {
				Provider:  "openai",
				Model:     "gpt-4o",
				MaxTokens: 1500,
			},
			"claude-sonnet": {
				Provider:  "anthropic",
				Model:     "claude-sonnet-4-20250514",
				MaxTokens: 1500,
			},
			"llama3.2": {
				Provider:  "ollama",
				URL:       "http://localhost:11434/v1",
				Model:     "llama3.2",
				MaxTokens: 1500,
			},
		},
		defaultModel: "gpt-4o-mini",
	}
}

// Resolve returns the endpoint for an allow-listed model name. An empty
// name resolves to the default model; unknown names are an error.
func (r *Registry) Resolve(name string) (*Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultModel
	}
	ep, ok := r.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("model %q is not in the allow-list", name)
	}
	return ep, nil
}

// DefaultModel returns the name of the default model.
func (r *Registry) DefaultModel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultModel
}

// Models returns the allow-listed model names, sorted.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
