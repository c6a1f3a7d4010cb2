package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	OpenAIDefaultModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // Default model, "gpt-4o-mini" if empty
	MaxRetries int           // Retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional, for compatible gateways and tests
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Generator against the Chat Completions API,
// sending the document inline as a base64 file content part.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = OpenAIDefaultModel
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the configured default model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate sends the document and prompt as a single user message.
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	data, err := os.ReadFile(req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	filename := req.DisplayName
	if filename == "" {
		filename = filepath.Base(req.DocumentPath)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeTypeOrDefault(req.MIMEType), base64.StdEncoding.EncodeToString(data))

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
					FileData: openai.String(dataURL),
					Filename: openai.String(filename),
				}),
				openai.TextContentPart(req.Prompt),
			}),
		},
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", mapOpenAIError(err))
	}

	result := &GenerateResult{
		Provider:         OpenAIName,
		ModelUsed:        model,
		RequestID:        req.RequestID,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
	}
	if completion.Model != "" {
		result.ModelUsed = completion.Model
	}
	if len(completion.Choices) > 0 {
		result.Text = completion.Choices[0].Message.Content
	}

	return result, nil
}

// ListModels returns every model id the endpoint reports.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	var out []string
	iter := c.client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		out = append(out, iter.Current().ID)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list models: %w", mapOpenAIError(err))
	}
	return out, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   OpenAIName,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}
	return err
}

var _ Generator = (*OpenAIClient)(nil)
