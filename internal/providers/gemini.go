package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	GeminiDefaultModel = "models/gemini-2.5-flash"

	geminiGenerateAction = "generateContent"
	geminiPollInterval   = 500 * time.Millisecond
	geminiDeleteTimeout  = 10 * time.Second
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey     string
	Model      string        // Default model, "models/gemini-2.5-flash" if empty
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// GeminiClient implements Generator using the Gemini Files API and
// GenerateContent.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *genai.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = GeminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  client,
	}, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Model returns the configured default model.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate uploads the document, asks the model to process it with the
// prompt and removes the uploaded copy afterwards.
func (c *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	file, err := c.client.Files.UploadFromPath(ctx, req.DocumentPath, &genai.UploadFileConfig{
		MIMEType:    mimeTypeOrDefault(req.MIMEType),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", mapGeminiError(err))
	}
	defer c.deleteFile(ctx, file.Name)

	file, err = c.waitActive(ctx, file)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromURI(file.URI, file.MIMEType),
		genai.NewPartFromText(req.Prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", mapGeminiError(err))
	}

	result := &GenerateResult{
		Text:          resp.Text(),
		Provider:      GeminiName,
		ModelUsed:     model,
		RequestID:     req.RequestID,
		ExecutionTime: time.Since(start),
	}
	if resp.ModelVersion != "" {
		result.ModelUsed = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.PromptTokens = int(u.PromptTokenCount)
		result.CompletionTokens = int(u.CandidatesTokenCount)
		result.TotalTokens = int(u.TotalTokenCount)
	}

	return result, nil
}

// waitActive polls an uploaded file until the service finishes processing it.
func (c *GeminiClient) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	ticker := time.NewTicker(geminiPollInterval)
	defer ticker.Stop()

	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		var err error
		file, err = c.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("poll uploaded document: %w", mapGeminiError(err))
		}
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("uploaded document %s failed processing", file.Name)
	}
	return file, nil
}

// deleteFile removes an uploaded file. Failures are ignored; the service
// expires uploads on its own.
func (c *GeminiClient) deleteFile(ctx context.Context, name string) {
	if name == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), geminiDeleteTimeout)
	defer cancel()
	_, _ = c.client.Files.Delete(ctx, name, nil)
}

// ListModels returns the models that support content generation.
func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var out []string
	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list models: %w", mapGeminiError(err))
		}
		if slices.Contains(m.SupportedActions, geminiGenerateAction) {
			out = append(out, m.Name)
		}
	}
	return out, nil
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   GeminiName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	return err
}

var _ Generator = (*GeminiClient)(nil)
