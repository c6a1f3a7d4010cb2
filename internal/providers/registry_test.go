package providers

import (
	"context"
	"sync"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()

		r.Register("test", mock)

		g, err := r.Get("test")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if g != mock {
			t.Error("got different generator than registered")
		}
	})

	t.Run("get nonexistent", func(t *testing.T) {
		r := NewRegistry()
		if _, err := r.Get("nonexistent"); err == nil {
			t.Error("expected error for nonexistent generator")
		}
	})

	t.Run("list and has", func(t *testing.T) {
		r := NewRegistry()
		r.Register("b", NewMockClient())
		r.Register("a", NewMockClient())

		names := r.List()
		if len(names) != 2 || names[0] != "a" || names[1] != "b" {
			t.Errorf("List() = %v, want [a b]", names)
		}
		if !r.Has("a") {
			t.Error("Has(a) = false for registered generator")
		}

		r.Unregister("a")
		if r.Has("a") {
			t.Error("Has(a) = true after Unregister")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		r := NewRegistry()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Register("concurrent", NewMockClient())
			}()
			go func() {
				defer wg.Done()
				_, _ = r.Get("concurrent") // May fail, that's ok
			}()
		}
		wg.Wait()
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("registers providers from config", func(t *testing.T) {
		r, err := NewRegistryFromConfig(ctx, RegistryConfig{
			Providers: map[string]ProviderConfig{
				"gemini": {Type: GeminiName, APIKey: "test-google-key", Enabled: true},
				"openai": {Type: OpenAIName, Model: "gpt-4o", APIKey: "test-openai-key", Enabled: true},
			},
		}, nil)
		if err != nil {
			t.Fatalf("NewRegistryFromConfig() error = %v", err)
		}
		if !r.Has("gemini") {
			t.Error("expected gemini to be registered")
		}
		g, err := r.Get("openai")
		if err != nil {
			t.Fatalf("Get(openai) error = %v", err)
		}
		if oc, ok := g.(*OpenAIClient); !ok || oc.Model() != "gpt-4o" {
			t.Errorf("openai generator = %#v, want *OpenAIClient with model gpt-4o", g)
		}
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		r, err := NewRegistryFromConfig(ctx, RegistryConfig{
			Providers: map[string]ProviderConfig{
				"gemini": {Type: GeminiName, APIKey: "test-key", Enabled: false},
			},
		}, nil)
		if err != nil {
			t.Fatalf("NewRegistryFromConfig() error = %v", err)
		}
		if r.Has("gemini") {
			t.Error("disabled provider should not be registered")
		}
	})

	t.Run("skips providers without API keys", func(t *testing.T) {
		r, err := NewRegistryFromConfig(ctx, RegistryConfig{
			Providers: map[string]ProviderConfig{
				"gemini": {Type: GeminiName, APIKey: "", Enabled: true},
			},
		}, nil)
		if err != nil {
			t.Fatalf("NewRegistryFromConfig() error = %v", err)
		}
		if r.Has("gemini") {
			t.Error("provider without API key should not be registered")
		}
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		_, err := NewRegistryFromConfig(ctx, RegistryConfig{
			Providers: map[string]ProviderConfig{
				"x": {Type: "carrier-pigeon", APIKey: "k", Enabled: true},
			},
		}, nil)
		if err == nil {
			t.Error("expected error for unknown provider type")
		}
	})
}

func TestRegistry_Reload(t *testing.T) {
	ctx := context.Background()
	r, err := NewRegistryFromConfig(ctx, RegistryConfig{
		Providers: map[string]ProviderConfig{
			"primary": {Type: MockClientName, APIKey: "k", Enabled: true},
			"extra":   {Type: MockClientName, APIKey: "k", Enabled: true},
		},
	}, nil)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig() error = %v", err)
	}

	err = r.Reload(ctx, RegistryConfig{
		Providers: map[string]ProviderConfig{
			"primary": {Type: MockClientName, APIKey: "k", Enabled: true},
		},
	})
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if r.Has("extra") {
		t.Error("extra should be unregistered after reload")
	}
	if !r.Has("primary") {
		t.Error("primary should survive reload")
	}
}
