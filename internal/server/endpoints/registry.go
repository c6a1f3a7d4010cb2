package endpoints

import (
	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/extract"
	"github.com/medtwin/medtwin/internal/metrics"
	"github.com/medtwin/medtwin/internal/prompts"
	"github.com/medtwin/medtwin/internal/regions"
)

// Config holds dependencies needed by some endpoints. Any field may be nil
// when building commands for the CLI.
type Config struct {
	Gateway        *extract.Gateway
	Regions        *regions.Table
	Prompts        *prompts.Catalog
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{Gateway: cfg.Gateway},
		&ModelsEndpoint{Gateway: cfg.Gateway},

		// PDF endpoints
		&AnalyzeEndpoint{Gateway: cfg.Gateway, MaxUploadBytes: cfg.MaxUploadBytes},
		&SummaryEndpoint{Regions: cfg.Regions, Metrics: cfg.Metrics, MaxBodyBytes: cfg.MaxUploadBytes},

		// Prompt endpoints
		&ListPromptsEndpoint{Catalog: cfg.Prompts},
		&GetPromptEndpoint{Catalog: cfg.Prompts},

		// Observability and OpenAPI
		&MetricsEndpoint{Metrics: cfg.Metrics},
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
