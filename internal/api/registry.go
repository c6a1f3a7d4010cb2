package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// upstreamMiddleware wraps handlers that call the upstream model.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, upstreamMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresUpstream() && upstreamMiddleware != nil {
			handler = upstreamMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Endpoints without a CLI counterpart return a nil command and are skipped.
// getServerURL is called at runtime to get the server URL.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running MedTwin server via HTTP.

These commands require a running server (medtwin serve).
Use --server to specify a custom server URL.

Examples:
  medtwin api health                       # Check server health
  medtwin api models                       # List upstream models
  medtwin api analyze scan.pdf             # Extract structured JSON
  medtwin api analyze scan.pdf --mode transcript
  medtwin api summary report.json          # Summarize extracted JSON`,
	}

	for _, ep := range r.endpoints {
		if cmd := ep.Command(getServerURL); cmd != nil {
			apiCmd.AddCommand(cmd)
		}
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
