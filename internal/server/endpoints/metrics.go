package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/metrics"
)

// MetricsEndpoint handles GET /metrics in the Prometheus text format.
type MetricsEndpoint struct {
	Metrics *metrics.Metrics
}

var _ api.Endpoint = (*MetricsEndpoint)(nil)

func (e *MetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/metrics", e.handler
}

func (e *MetricsEndpoint) RequiresUpstream() bool { return false }

// handler godoc
//
//	@Summary		Prometheus metrics
//	@Description	Expose service metrics in the Prometheus text format
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string
//	@Router			/metrics [get]
func (e *MetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if e.Metrics == nil {
		writeError(w, http.StatusNotFound, "metrics disabled")
		return
	}
	e.Metrics.Handler().ServeHTTP(w, r)
}

// Command returns nil; scrape /metrics with Prometheus or curl.
func (e *MetricsEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}
