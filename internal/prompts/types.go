// Package prompts keeps the catalog of embedded prompts sent to the upstream
// model. Prompts are fixed at build time; the catalog exists so callers look
// them up by key and so the service can report exactly which prompt text
// (by hash) it is running with.
package prompts

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string `json:"key"`                   // Hierarchical key: pdf.analyze.json
	Text        string `json:"text"`                  // The prompt text
	Description string `json:"description,omitempty"` // Human-readable description
	Hash        string `json:"hash"`                  // SHA256 of Text
}
