package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/medtwin/medtwin/internal/providers"
	"github.com/medtwin/medtwin/internal/summary"
)

// Outcome labels
const (
	OutcomeOK            = "ok"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeUpstreamEmpty = "upstream_empty"
	OutcomeUpstreamError = "upstream_error"
	OutcomeError         = "error"
)

// ModeInvalid labels analyze requests whose mode was rejected.
const ModeInvalid = "invalid"

// Item kinds for region assignments
const (
	KindFinding = "finding"
	KindLab     = "lab"
	KindMed     = "med"
)

// RecordAnalyze records one finished analysis request.
// A nil receiver is a no-op so callers need not check.
func (m *Metrics) RecordAnalyze(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalyzeRequests.WithLabelValues(mode, outcome).Inc()
	m.AnalyzeDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// RecordUpstream records one upstream call. result may be nil on failure.
func (m *Metrics) RecordUpstream(provider string, elapsed time.Duration, result *providers.GenerateResult, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.UpstreamDuration.WithLabelValues(provider, outcome).Observe(elapsed.Seconds())
	if result != nil {
		m.UpstreamTokens.WithLabelValues(provider, "prompt").Add(float64(result.PromptTokens))
		m.UpstreamTokens.WithLabelValues(provider, "completion").Add(float64(result.CompletionTokens))
	}
}

// RecordRawFallback counts a response returned as {"raw": ...}.
func (m *Metrics) RecordRawFallback() {
	if m == nil {
		return
	}
	m.RawFallbacks.Inc()
}

// RecordSchemaViolation counts a parsed response that failed schema checks.
func (m *Metrics) RecordSchemaViolation() {
	if m == nil {
		return
	}
	m.SchemaViolations.Inc()
}

// RecordPages observes the page count of a staged document.
func (m *Metrics) RecordPages(pages int) {
	if m == nil || pages <= 0 {
		return
	}
	m.StagedPages.Observe(float64(pages))
}

// RecordSummary records a summary request and the region of every item.
func (m *Metrics) RecordSummary(outcome string, index summary.BodyIndex) {
	if m == nil {
		return
	}
	m.SummaryRequests.WithLabelValues(outcome).Inc()
	for region, bucket := range index {
		if bucket == nil {
			continue
		}
		f, l, md := bucket.Counts()
		m.RegionAssignments.WithLabelValues(string(region), KindFinding).Add(float64(f))
		m.RegionAssignments.WithLabelValues(string(region), KindLab).Add(float64(l))
		m.RegionAssignments.WithLabelValues(string(region), KindMed).Add(float64(md))
	}
}

// RecordHTTP records one served HTTP request.
func (m *Metrics) RecordHTTP(method, path string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(methodLabel(method), path, strconv.Itoa(code)).Inc()
}

// methodLabel folds methods the API does not serve into one label.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions:
		return method
	default:
		return "other"
	}
}
