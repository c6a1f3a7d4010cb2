package extraction

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/medtwin/medtwin/internal/prompts"
)

func TestRegisterPrompts(t *testing.T) {
	c := prompts.NewCatalog()
	RegisterPrompts(c)

	extract, err := c.Text(ExtractPromptKey)
	if err != nil {
		t.Fatalf("Text(extract) error = %v", err)
	}
	if !strings.Contains(extract, "STRICT JSON") {
		t.Errorf("extract prompt does not ask for strict JSON: %q", extract)
	}

	transcript, err := c.Text(TranscriptPromptKey)
	if err != nil {
		t.Fatalf("Text(transcript) error = %v", err)
	}
	if !strings.Contains(transcript, "[Page X]") {
		t.Errorf("transcript prompt does not ask for page markers: %q", transcript)
	}
}

func TestReportSchema_IsValidJSON(t *testing.T) {
	var schema map[string]any
	if err := json.Unmarshal(ReportSchema(), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("schema type = %v, want object", schema["type"])
	}
}
