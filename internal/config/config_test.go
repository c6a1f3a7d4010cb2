package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v2"
)

// isolate points HOME at an empty directory and clears provider variables.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"GOOGLE_API_KEY", "OPENAI_API_KEY", "GEMINI_MODEL", "PORT", "MEDTWIN_SERVER_PORT", "MEDTWIN_DEFAULTS_LLM_PROVIDER"} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Providers["gemini"].APIKey != "${GOOGLE_API_KEY}" {
		t.Error("expected gemini API key placeholder")
	}
	if cfg.Defaults.LLMProvider != "gemini" {
		t.Errorf("LLMProvider = %q, want gemini", cfg.Defaults.LLMProvider)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Server.Port)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing credential is an error", func(t *testing.T) {
		isolate(t)

		_, err := Load("", "")
		if err == nil {
			t.Fatal("expected error without GOOGLE_API_KEY")
		}
		if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
			t.Errorf("error %q does not name the missing variable", err)
		}
	})

	t.Run("defaults with credential", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOOGLE_API_KEY", "g-key")

		cfg, err := Load("", "")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DefaultModel() != "models/gemini-2.5-flash" {
			t.Errorf("DefaultModel() = %q", cfg.DefaultModel())
		}
		if cfg.Server.UpstreamTimeout() != 300*time.Second {
			t.Errorf("UpstreamTimeout() = %v", cfg.Server.UpstreamTimeout())
		}
	})

	t.Run("GEMINI_MODEL overrides default model", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOOGLE_API_KEY", "g-key")
		t.Setenv("GEMINI_MODEL", "models/gemini-2.5-pro")

		cfg, err := Load("", "")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DefaultModel() != "models/gemini-2.5-pro" {
			t.Errorf("DefaultModel() = %q, want models/gemini-2.5-pro", cfg.DefaultModel())
		}
	})

	t.Run("prefixed environment overrides", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOOGLE_API_KEY", "g-key")
		t.Setenv("MEDTWIN_SERVER_PORT", "9100")

		cfg, err := Load("", "")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Port != "9100" {
			t.Errorf("Port = %q, want 9100", cfg.Server.Port)
		}
	})

	t.Run("loads from config file", func(t *testing.T) {
		isolate(t)
		t.Setenv("TEST_OPENAI_KEY", "o-key")
		path := writeFile(t, "config.yaml", `
providers:
  openai:
    type: openai
    model: gpt-4o
    api_key: ${TEST_OPENAI_KEY}
    enabled: true
defaults:
  llm_provider: openai
server:
  port: "8123"
  cors_origins: ["http://localhost:5173"]
`)

		cfg, err := Load(path, "")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DefaultModel() != "gpt-4o" {
			t.Errorf("DefaultModel() = %q, want gpt-4o", cfg.DefaultModel())
		}
		if cfg.Server.Port != "8123" {
			t.Errorf("Port = %q, want 8123", cfg.Server.Port)
		}
		if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:5173" {
			t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
		}
		// Unset keys fall back to defaults
		if cfg.Server.MaxUploadMB != 32 {
			t.Errorf("MaxUploadMB = %d, want default 32", cfg.Server.MaxUploadMB)
		}
		rc := cfg.ToProviderRegistryConfig()
		if rc.Providers["openai"].APIKey != "o-key" {
			t.Errorf("resolved API key = %q, want o-key", rc.Providers["openai"].APIKey)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOOGLE_API_KEY", "g-key")

		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("reads dotenv file", func(t *testing.T) {
		isolate(t)
		envFile := writeFile(t, ".env", "GOOGLE_API_KEY=from-dotenv\nGEMINI_MODEL=models/gemini-dotenv\n")

		cfg, err := Load("", envFile)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := cfg.ToProviderRegistryConfig().Providers["gemini"].APIKey; got != "from-dotenv" {
			t.Errorf("API key = %q, want from-dotenv", got)
		}
		if cfg.DefaultModel() != "models/gemini-dotenv" {
			t.Errorf("DefaultModel() = %q, want models/gemini-dotenv", cfg.DefaultModel())
		}
	})

	t.Run("environment wins over dotenv", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOOGLE_API_KEY", "from-env")
		envFile := writeFile(t, ".env", "GOOGLE_API_KEY=from-dotenv\n")

		cfg, err := Load("", envFile)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := cfg.ToProviderRegistryConfig().Providers["gemini"].APIKey; got != "from-env" {
			t.Errorf("API key = %q, want from-env", got)
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.Providers["gemini"] = ProviderCfg{Type: "gemini", APIKey: "literal", Enabled: true}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.Defaults.LLMProvider = "nope" }, true},
		{"disabled provider", func(c *Config) {
			p := c.Providers["gemini"]
			p.Enabled = false
			c.Providers["gemini"] = p
		}, true},
		{"unknown type", func(c *Config) {
			c.Providers["gemini"] = ProviderCfg{Type: "telegraph", APIKey: "k", Enabled: true}
		}, true},
		{"mock needs no key", func(c *Config) {
			c.Providers["mock"] = ProviderCfg{Type: "mock", Enabled: true}
			c.Defaults.LLMProvider = "mock"
		}, false},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.Model = "explicit"
	if cfg.DefaultModel() != "explicit" {
		t.Errorf("DefaultModel() = %q, want explicit", cfg.DefaultModel())
	}

	cfg = DefaultConfig()
	cfg.Defaults.LLMProvider = "openai"
	cfg.Providers["openai"] = ProviderCfg{Type: "openai", Enabled: true}
	if cfg.DefaultModel() != "gpt-4o-mini" {
		t.Errorf("DefaultModel() = %q, want gpt-4o-mini", cfg.DefaultModel())
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# MedTwin configuration") {
		t.Error("missing config header")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Providers["gemini"].APIKey != "${GOOGLE_API_KEY}" {
		t.Errorf("gemini api_key = %q", cfg.Providers["gemini"].APIKey)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("server.port = %q", cfg.Server.Port)
	}
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers["openai"] = ProviderCfg{Type: "openai", APIKey: "sk-literal", Enabled: true}

	red := cfg.Redacted()
	if red.Providers["openai"].APIKey != "<redacted>" {
		t.Errorf("literal key not masked: %q", red.Providers["openai"].APIKey)
	}
	if red.Providers["gemini"].APIKey != "${GOOGLE_API_KEY}" {
		t.Errorf("env reference should be kept: %q", red.Providers["gemini"].APIKey)
	}
	if cfg.Providers["openai"].APIKey != "sk-literal" {
		t.Error("Redacted must not modify the receiver")
	}
}
