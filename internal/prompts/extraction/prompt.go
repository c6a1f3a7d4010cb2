// Package extraction holds the fixed instructions sent to the upstream model
// together with an uploaded PDF.
package extraction

import (
	_ "embed"
	"strings"

	"github.com/medtwin/medtwin/internal/prompts"
)

//go:embed extract.tmpl
var extractPrompt string

//go:embed transcript.tmpl
var transcriptPrompt string

//go:embed report.schema.json
var reportSchema []byte

// Prompt keys
const (
	ExtractPromptKey    = "pdf.analyze.json"
	TranscriptPromptKey = "pdf.analyze.transcript"
)

// ExtractPrompt asks for strict JSON in the ExtractedReport shape.
func ExtractPrompt() string {
	return strings.TrimSpace(extractPrompt)
}

// TranscriptPrompt asks for a page-marked readable transcript.
func TranscriptPrompt() string {
	return strings.TrimSpace(transcriptPrompt)
}

// ReportSchema returns the JSON schema describing the extraction output.
func ReportSchema() []byte {
	out := make([]byte, len(reportSchema))
	copy(out, reportSchema)
	return out
}

// RegisterPrompts registers the extraction prompts with the catalog.
func RegisterPrompts(c *prompts.Catalog) {
	c.Register(prompts.EmbeddedPrompt{
		Key:         ExtractPromptKey,
		Text:        ExtractPrompt(),
		Description: "Structured JSON extraction of findings, labs and medications from a medical PDF",
	})
	c.Register(prompts.EmbeddedPrompt{
		Key:         TranscriptPromptKey,
		Text:        TranscriptPrompt(),
		Description: "Page-marked readable transcript of a medical PDF",
	})
}
