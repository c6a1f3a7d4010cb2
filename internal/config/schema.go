package config

import (
	"time"

	"github.com/medtwin/medtwin/internal/providers"
)

// Config holds medtwin configuration.
// Stored at: ~/.medtwin/config.yaml (or --config)
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
	Tracing   TracingCfg             `mapstructure:"tracing" yaml:"tracing"`
	Log       LogCfg                 `mapstructure:"log" yaml:"log"`
}

// ProviderCfg configures an upstream model provider.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "gemini", "openai", "mock"
	Model          string `mapstructure:"model" yaml:"model"`                     // Default model id
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty"`     // Optional endpoint override
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"` // Provider used for analysis
	Model       string `mapstructure:"model" yaml:"model"`               // Overrides the provider's model when set
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host                   string   `mapstructure:"host" yaml:"host"`
	Port                   string   `mapstructure:"port" yaml:"port"`
	CORSOrigins            []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	MaxUploadMB            int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	UpstreamTimeoutSeconds int      `mapstructure:"upstream_timeout_seconds" yaml:"upstream_timeout_seconds"` // 0 disables
}

// TracingCfg configures OpenTelemetry export.
type TracingCfg struct {
	// JaegerEndpoint is the collector URL; tracing is disabled when empty
	JaegerEndpoint string `mapstructure:"jaeger_endpoint" yaml:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name" yaml:"service_name"`
}

// LogCfg configures the slog handler.
type LogCfg struct {
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	Level  string `mapstructure:"level" yaml:"level"`   // "debug", "info", "warn", "error"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:           providers.GeminiName,
				Model:          providers.GeminiDefaultModel,
				APIKey:         "${GOOGLE_API_KEY}",
				TimeoutSeconds: 300,
				Enabled:        true,
			},
			"openai": {
				Type:           providers.OpenAIName,
				Model:          providers.OpenAIDefaultModel,
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 300,
				Enabled:        true,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider: "gemini",
		},
		Server: ServerCfg{
			Host:                   "0.0.0.0",
			Port:                   "8000",
			CORSOrigins:            []string{"*"},
			MaxUploadMB:            32,
			UpstreamTimeoutSeconds: 300,
		},
		Tracing: TracingCfg{
			ServiceName: "medtwin",
		},
		Log: LogCfg{
			Format: "text",
			Level:  "info",
		},
	}
}

// Timeout returns the provider HTTP timeout.
func (p ProviderCfg) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// UpstreamTimeout returns the per-request upstream timeout, zero if disabled.
func (s ServerCfg) UpstreamTimeout() time.Duration {
	if s.UpstreamTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.UpstreamTimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the request body limit for uploads.
func (s ServerCfg) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}
