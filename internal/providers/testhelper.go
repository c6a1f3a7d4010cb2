package providers

import (
	"context"
	"os"
)

// TestConfig holds provider configurations loaded from environment variables.
// This allows tests to use the same configuration pattern as production.
type TestConfig struct {
	GoogleAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
}

// LoadTestConfig loads provider API keys from environment variables.
// Returns a TestConfig with whatever keys are available.
func LoadTestConfig() TestConfig {
	return TestConfig{
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
	}
}

// HasGemini returns true if a Google API key is configured.
func (c TestConfig) HasGemini() bool {
	return c.GoogleAPIKey != ""
}

// HasOpenAI returns true if an OpenAI API key is configured.
func (c TestConfig) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// NewGeminiClient creates a Gemini client from test config.
// Returns nil if not configured or the client cannot be built.
func (c TestConfig) NewGeminiClient(ctx context.Context) *GeminiClient {
	if !c.HasGemini() {
		return nil
	}
	client, err := NewGeminiClient(ctx, GeminiConfig{
		APIKey: c.GoogleAPIKey,
		Model:  c.GeminiModel,
	})
	if err != nil {
		return nil
	}
	return client
}

// NewOpenAIClient creates an OpenAI client from test config.
// Returns nil if not configured.
func (c TestConfig) NewOpenAIClient() *OpenAIClient {
	if !c.HasOpenAI() {
		return nil
	}
	return NewOpenAIClient(OpenAIConfig{APIKey: c.OpenAIAPIKey})
}

// ToRegistryConfig converts test config to a RegistryConfig for the provider registry.
// Only includes providers that have API keys configured.
func (c TestConfig) ToRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{Providers: make(map[string]ProviderConfig)}

	if c.HasGemini() {
		cfg.Providers[GeminiName] = ProviderConfig{
			Type:    GeminiName,
			Model:   c.GeminiModel,
			APIKey:  c.GoogleAPIKey,
			Enabled: true,
		}
	}
	if c.HasOpenAI() {
		cfg.Providers[OpenAIName] = ProviderConfig{
			Type:    OpenAIName,
			APIKey:  c.OpenAIAPIKey,
			Enabled: true,
		}
	}

	return cfg
}
