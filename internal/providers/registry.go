package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds references to generators by name.
// It supports config-driven instantiation and provides thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	logger     *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a generator by name.
func (r *Registry) Register(name string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = g
	if r.logger != nil {
		r.logger.Info("registered generator", "name", name, "type", g.Name())
	}
}

// Unregister removes a generator by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.generators, name)
	if r.logger != nil {
		r.logger.Info("unregistered generator", "name", name)
	}
}

// Get returns a generator by name.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	return g, nil
}

// Has checks if a generator is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.generators[name]
	return ok
}

// List returns all registered generator names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegistryConfig defines the providers to instantiate from config.
// This mirrors the config.Config provider section with resolved API keys.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
}

// ProviderConfig matches config.ProviderCfg with resolved API key.
type ProviderConfig struct {
	Type    string        // "gemini", "openai"
	Model   string        // Default model for this provider
	APIKey  string        // Resolved API key
	BaseURL string        // Optional endpoint override
	Timeout time.Duration // HTTP timeout
	Enabled bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with API keys are registered.
func NewRegistryFromConfig(ctx context.Context, cfg RegistryConfig, logger *slog.Logger) (*Registry, error) {
	r := NewRegistry()
	if logger != nil {
		r.logger = logger
	}
	if err := r.Reload(ctx, cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload updates the registry based on configuration.
// Providers that are no longer configured are unregistered.
func (r *Registry) Reload(ctx context.Context, cfg RegistryConfig) error {
	built := make(map[string]Generator, len(cfg.Providers))
	for name, provCfg := range cfg.Providers {
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		g, err := createGenerator(ctx, provCfg)
		if err != nil {
			return fmt.Errorf("provider %s: %w", name, err)
		}
		built[name] = g
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range r.generators {
		if _, ok := built[name]; !ok && r.logger != nil {
			r.logger.Info("unregistered generator", "name", name)
		}
	}
	for name, g := range built {
		if r.logger != nil {
			r.logger.Info("registered generator", "name", name, "type", g.Name())
		}
	}
	r.generators = built
	return nil
}

// createGenerator creates a generator based on provider type.
func createGenerator(ctx context.Context, cfg ProviderConfig) (Generator, error) {
	switch cfg.Type {
	case GeminiName:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case OpenAIName:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: 2,
		}), nil
	case MockClientName:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
}
