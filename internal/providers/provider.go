package providers

import (
	"context"
	"fmt"
	"time"
)

// PDFMIMEType is the MIME type used when a document is handed to a provider.
const PDFMIMEType = "application/pdf"

// Generator is the interface for document-grounded generation requests.
// A generator receives a staged file on local disk plus an instruction
// prompt and returns the model's text response.
type Generator interface {
	// Name returns the client identifier (e.g., "gemini").
	Name() string

	// Generate sends the document and prompt to the upstream model.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// ListModels returns the model ids usable for Generate.
	ListModels(ctx context.Context) ([]string, error)
}

// GenerateRequest is a request to a Generator.
type GenerateRequest struct {
	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Instruction sent alongside the document
	Prompt string `json:"prompt"`

	// Staged document
	DocumentPath string `json:"document_path"`
	MIMEType     string `json:"mime_type,omitempty"`   // Defaults to application/pdf
	DisplayName  string `json:"display_name,omitempty"` // Original upload filename

	// Request tracking
	RequestID string `json:"-"`
}

// GenerateResult is the complete response from a Generator call.
type GenerateResult struct {
	// Response content, untrimmed
	Text string `json:"text"`

	// Token counts (zero when the provider does not report usage)
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
}

// APIError is a non-success response reported by an upstream provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s error (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

func mimeTypeOrDefault(mimeType string) string {
	if mimeType == "" {
		return PDFMIMEType
	}
	return mimeType
}
