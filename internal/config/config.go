package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/medtwin/medtwin/internal/providers"
)

// EnvPrefix is the prefix for environment overrides (MEDTWIN_SERVER_PORT).
const EnvPrefix = "MEDTWIN"

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load builds the configuration once from defaults, the optional config
// file, the optional dotenv file and the environment, then validates it.
// An empty cfgFile searches ./config.yaml and ~/.medtwin/config.yaml.
// An empty envFile reads ./.env when present.
func Load(cfgFile, envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	// Environment variables with MEDTWIN_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names kept for existing deployments
	_ = v.BindEnv("providers.gemini.model", EnvPrefix+"_PROVIDERS_GEMINI_MODEL", "GEMINI_MODEL")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.medtwin")
	}

	// Try to read config file (not required unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every leaf of DefaultConfig so that environment
// overrides apply to nested keys.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	for name, p := range d.Providers {
		prefix := "providers." + name + "."
		v.SetDefault(prefix+"type", p.Type)
		v.SetDefault(prefix+"model", p.Model)
		v.SetDefault(prefix+"api_key", p.APIKey)
		v.SetDefault(prefix+"base_url", p.BaseURL)
		v.SetDefault(prefix+"timeout_seconds", p.TimeoutSeconds)
		v.SetDefault(prefix+"enabled", p.Enabled)
	}
	v.SetDefault("defaults.llm_provider", d.Defaults.LLMProvider)
	v.SetDefault("defaults.model", d.Defaults.Model)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.upstream_timeout_seconds", d.Server.UpstreamTimeoutSeconds)
	v.SetDefault("tracing.jaeger_endpoint", d.Tracing.JaegerEndpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// loadDotEnv copies KEY=value pairs from a dotenv file into the process
// environment. Variables that are already set win.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading env file: %w", err)
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading env file: %w", err)
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if os.Getenv(name) != "" {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks that the selected provider can be built.
func (c *Config) Validate() error {
	name := c.Defaults.LLMProvider
	if name == "" {
		return errors.New("defaults.llm_provider is not set")
	}
	p, ok := c.Providers[name]
	if !ok {
		return fmt.Errorf("unknown provider %q in defaults.llm_provider", name)
	}
	if !p.Enabled {
		return fmt.Errorf("provider %q is disabled", name)
	}
	switch p.Type {
	case providers.GeminiName, providers.OpenAIName, providers.MockClientName:
	default:
		return fmt.Errorf("provider %q has unknown type %q", name, p.Type)
	}
	if p.Type != providers.MockClientName && ResolveEnvVars(p.APIKey) == "" {
		return fmt.Errorf("missing API key for provider %q (%s)", name, keyHint(p.APIKey))
	}
	if c.Server.Port == "" {
		return errors.New("server.port is not set")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

func keyHint(raw string) string {
	if m := envVarPattern.FindStringSubmatch(raw); m != nil {
		return "set " + m[1]
	}
	return "set api_key in the config file"
}

// DefaultModel returns the model id used when a request does not name one.
func (c *Config) DefaultModel() string {
	if c.Defaults.Model != "" {
		return c.Defaults.Model
	}
	p := c.Providers[c.Defaults.LLMProvider]
	if p.Model != "" {
		return p.Model
	}
	switch p.Type {
	case providers.OpenAIName:
		return providers.OpenAIDefaultModel
	default:
		return providers.GeminiDefaultModel
	}
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		Providers: make(map[string]providers.ProviderConfig, len(c.Providers)),
	}

	for name, p := range c.Providers {
		apiKey := ResolveEnvVars(p.APIKey)
		if p.Type == providers.MockClientName && apiKey == "" {
			apiKey = "mock"
		}
		cfg.Providers[name] = providers.ProviderConfig{
			Type:    p.Type,
			Model:   p.Model,
			APIKey:  apiKey,
			BaseURL: p.BaseURL,
			Timeout: p.Timeout(),
			Enabled: p.Enabled,
		}
	}

	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# MedTwin configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell or .env: GOOGLE_API_KEY=xxx OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// Redacted returns a copy safe to print. API keys that are not ${ENV_VAR}
// references are masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Providers = make(map[string]ProviderCfg, len(c.Providers))
	for name, p := range c.Providers {
		if p.APIKey != "" && !envVarPattern.MatchString(p.APIKey) {
			p.APIKey = "<redacted>"
		}
		out.Providers[name] = p
	}
	return &out
}
