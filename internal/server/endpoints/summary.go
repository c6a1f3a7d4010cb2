package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/metrics"
	"github.com/medtwin/medtwin/internal/regions"
	"github.com/medtwin/medtwin/internal/report"
	"github.com/medtwin/medtwin/internal/summary"
)

// SummaryRequest wraps a previously extracted report.
type SummaryRequest struct {
	Data json.RawMessage `json:"data" swaggertype:"object"`
}

// SummaryEndpoint handles POST /api/pdf/summary.
type SummaryEndpoint struct {
	Regions *regions.Table
	Metrics *metrics.Metrics
	// MaxBodyBytes caps the request body; 0 disables the cap.
	MaxBodyBytes int64
}

var _ api.Endpoint = (*SummaryEndpoint)(nil)

func (e *SummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/pdf/summary", e.handler
}

func (e *SummaryEndpoint) RequiresUpstream() bool { return false }

// handler godoc
//
//	@Summary		Summarize an extracted report
//	@Description	Group findings, labs and medications by body region and compose a summary
//	@Tags			pdf
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SummaryRequest	true	"Extracted report"
//	@Success		200		{object}	summary.Result
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/pdf/summary [post]
func (e *SummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if e.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, e.MaxBodyBytes)
	}

	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		e.Metrics.RecordSummary(metrics.OutcomeInvalidInput, nil)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	// A missing data key is an empty report.
	var rep report.ExtractedReport
	if len(bytes.TrimSpace(req.Data)) > 0 {
		if err := json.Unmarshal(req.Data, &rep); err != nil {
			e.Metrics.RecordSummary(metrics.OutcomeInvalidInput, nil)
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid report: %v", err))
			return
		}
	}

	result := summary.Summarize(e.table(), rep)
	e.Metrics.RecordSummary(metrics.OutcomeOK, result.BodyIndex)
	writeJSON(w, http.StatusOK, result)
}

func (e *SummaryEndpoint) table() *regions.Table {
	if e.Regions != nil {
		return e.Regions
	}
	return regions.Default()
}

func (e *SummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <report.json>",
		Short: "Summarize an extracted report by body region",
		Long: `Summarize an extracted report by body region.

The file may hold the report itself or the response of "api analyze"
(an object with a "data" field).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ReadReportFile(args[0])
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var resp summary.Result
			if err := client.Post(cmd.Context(), "/api/pdf/summary", SummaryRequest{Data: data}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ReadReportFile reads an extracted report from disk. A file holding an
// analyze response is unwrapped to its "data" field.
func ReadReportFile(path string) (json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && len(wrapped.Data) > 0 && !bytes.Equal(wrapped.Data, []byte("null")) {
		return wrapped.Data, nil
	}
	return raw, nil
}
