// Package extract sends medical PDFs to an upstream model and turns the
// response into structured data or a readable transcript.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/medtwin/medtwin/internal/metrics"
	"github.com/medtwin/medtwin/internal/prompts"
	"github.com/medtwin/medtwin/internal/prompts/extraction"
	"github.com/medtwin/medtwin/internal/providers"
	"github.com/medtwin/medtwin/internal/svcctx"
	"github.com/medtwin/medtwin/internal/telemetry"
)

// Mode selects what Analyze asks the model for.
type Mode string

const (
	ModeJSON       Mode = "json"
	ModeTranscript Mode = "transcript"
)

// ParseMode validates a mode string. Empty selects ModeJSON.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeJSON:
		return ModeJSON, nil
	case ModeTranscript:
		return ModeTranscript, nil
	default:
		return "", invalidInput(fmt.Sprintf("mode must be %q or %q, got %q", ModeJSON, ModeTranscript, s))
	}
}

// Request is one document to analyze.
type Request struct {
	Document io.Reader // Document bytes; read once
	Filename string    // Original filename, must end in .pdf
	Mode     string    // "json" (default) or "transcript"
	Model    string    // Upstream model id, configured default if empty
}

// Result is the outcome of Analyze. Exactly one of Data and Transcript is set.
type Result struct {
	Mode       Mode           `json:"mode"`
	Data       map[string]any `json:"data"`
	Transcript *string        `json:"transcript"`

	// Metadata, not part of the response body
	Model     string        `json:"-"`
	Provider  string        `json:"-"`
	Pages     int           `json:"-"` // 0 when the page count could not be read
	Raw       bool          `json:"-"` // Data is the {"raw": ...} fallback
	Elapsed   time.Duration `json:"-"`
	RequestID string        `json:"-"`
}

// Config configures a Gateway.
type Config struct {
	Generator       providers.Generator
	Prompts         *prompts.Catalog // Extraction prompts are registered if nil
	DefaultModel    string
	StagingDir      string        // os.TempDir() if empty
	UpstreamTimeout time.Duration // 0 disables
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
}

// Gateway stages uploads and calls the upstream model.
// It is safe for concurrent use; requests share no mutable state.
type Gateway struct {
	generator       providers.Generator
	prompts         *prompts.Catalog
	defaultModel    string
	stagingDir      string
	upstreamTimeout time.Duration
	schema          *jsonschema.Schema
	metrics         *metrics.Metrics
	logger          *slog.Logger
	tracer          trace.Tracer
}

var disablePDFConfigDir sync.Once

// New creates a Gateway.
func New(cfg Config) (*Gateway, error) {
	if cfg.Generator == nil {
		return nil, errors.New("extract: generator is required")
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompts.NewCatalog()
		extraction.RegisterPrompts(cfg.Prompts)
	}
	for _, key := range []string{extraction.ExtractPromptKey, extraction.TranscriptPromptKey} {
		if _, ok := cfg.Prompts.Get(key); !ok {
			return nil, fmt.Errorf("extract: prompt %s is not registered", key)
		}
	}
	if cfg.StagingDir == "" {
		cfg.StagingDir = os.TempDir()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	schema, err := compileSchema(extraction.ReportSchema())
	if err != nil {
		return nil, err
	}

	// pdfcpu otherwise writes a config directory under the user's home
	disablePDFConfigDir.Do(api.DisableConfigDir)

	return &Gateway{
		generator:       cfg.Generator,
		prompts:         cfg.Prompts,
		defaultModel:    cfg.DefaultModel,
		stagingDir:      cfg.StagingDir,
		upstreamTimeout: cfg.UpstreamTimeout,
		schema:          schema,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		tracer:          telemetry.Tracer(),
	}, nil
}

// DefaultModel returns the model used when a request names none.
func (g *Gateway) DefaultModel() string {
	return g.defaultModel
}

// ListModels returns the models the upstream offers for generation.
func (g *Gateway) ListModels(ctx context.Context) ([]string, error) {
	models, err := g.generator.ListModels(ctx)
	if err != nil {
		return nil, &UpstreamError{Provider: g.generator.Name(), Err: err}
	}
	return models, nil
}

// Analyze stages the document, sends it with the mode's prompt to the
// upstream model and interprets the response. The staged file is removed
// before Analyze returns, whatever the outcome.
func (g *Gateway) Analyze(ctx context.Context, req Request) (result *Result, err error) {
	start := time.Now()
	requestID := svcctx.RequestIDFrom(ctx)
	logger := svcctx.LoggerOr(ctx, g.logger)

	mode, err := ParseMode(req.Mode)
	if err != nil {
		g.metrics.RecordAnalyze(metrics.ModeInvalid, metrics.OutcomeInvalidInput, time.Since(start))
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	ctx, span := g.tracer.Start(ctx, "extract.Analyze", trace.WithAttributes(
		attribute.String("medtwin.mode", string(mode)),
		attribute.String("medtwin.model", model),
	))
	defer func() {
		g.metrics.RecordAnalyze(string(mode), outcome(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !strings.HasSuffix(strings.ToLower(req.Filename), ".pdf") {
		return nil, invalidInput("only PDF files are supported")
	}
	if req.Document == nil {
		return nil, invalidInput("empty file")
	}

	path, err := g.stage(req.Document)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("failed to remove staged document", "path", path, "error", rmErr)
		}
	}()

	pages := g.pageCount(path, logger)
	span.SetAttributes(attribute.Int("medtwin.pages", pages))

	promptKey := extraction.ExtractPromptKey
	if mode == ModeTranscript {
		promptKey = extraction.TranscriptPromptKey
	}
	prompt, err := g.prompts.Text(promptKey)
	if err != nil {
		return nil, err
	}

	gen, err := g.generate(ctx, &providers.GenerateRequest{
		Model:        model,
		Prompt:       prompt,
		DocumentPath: path,
		MIMEType:     providers.PDFMIMEType,
		DisplayName:  req.Filename,
		RequestID:    requestID,
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(gen.Text)
	result = &Result{
		Mode:      mode,
		Model:     model,
		Provider:  gen.Provider,
		Pages:     pages,
		RequestID: requestID,
	}

	switch mode {
	case ModeTranscript:
		if text == "" {
			return nil, fmt.Errorf("%w: no transcript returned", ErrUpstreamEmpty)
		}
		result.Transcript = &text
	default:
		if text == "" {
			return nil, fmt.Errorf("%w: no JSON returned", ErrUpstreamEmpty)
		}
		result.Data, result.Raw = g.interpret(text, logger)
	}

	result.Elapsed = time.Since(start)
	logger.Info("document analyzed",
		"mode", mode,
		"model", model,
		"provider", gen.Provider,
		"pages", pages,
		"raw", result.Raw,
		"prompt_tokens", gen.PromptTokens,
		"completion_tokens", gen.CompletionTokens,
		"elapsed", result.Elapsed)
	return result, nil
}

// stage copies the document into a uniquely named file in the staging dir.
func (g *Gateway) stage(doc io.Reader) (string, error) {
	if err := os.MkdirAll(g.stagingDir, 0o700); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	path := filepath.Join(g.stagingDir, uuid.NewString()+".pdf")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create staged document: %w", err)
	}

	n, copyErr := io.Copy(f, doc)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		var tooLarge *http.MaxBytesError
		if errors.As(copyErr, &tooLarge) {
			return "", invalidInput(fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit))
		}
		return "", fmt.Errorf("failed to read upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write staged document: %w", closeErr)
	case n == 0:
		_ = os.Remove(path)
		return "", invalidInput("empty file")
	}
	return path, nil
}

// pageCount reads the page count of the staged PDF. Unreadable documents
// return 0; the upstream model decides what it can understand.
func (g *Gateway) pageCount(path string, logger *slog.Logger) int {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("failed to open staged document", "error", err)
		return 0
	}
	defer f.Close()

	pages, err := api.PageCount(f, nil)
	if err != nil {
		logger.Warn("failed to count pages", "error", err)
		return 0
	}
	g.metrics.RecordPages(pages)
	return pages
}

func (g *Gateway) generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResult, error) {
	if g.upstreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.upstreamTimeout)
		defer cancel()
	}

	name := g.generator.Name()
	ctx, span := g.tracer.Start(ctx, "upstream.Generate", trace.WithAttributes(
		attribute.String("medtwin.provider", name),
		attribute.String("medtwin.model", req.Model),
	))
	defer span.End()

	start := time.Now()
	gen, err := g.generator.Generate(ctx, req)
	g.metrics.RecordUpstream(name, time.Since(start), gen, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &UpstreamError{Provider: name, Err: err}
	}
	if gen == nil {
		return nil, &UpstreamError{Provider: name, Err: errors.New("no result")}
	}

	span.SetAttributes(
		attribute.Int("medtwin.prompt_tokens", gen.PromptTokens),
		attribute.Int("medtwin.completion_tokens", gen.CompletionTokens),
	)
	return gen, nil
}

// interpret parses JSON-mode output. Output that is not a JSON object comes
// back as {"raw": text}. Schema mismatches are logged and counted only.
func (g *Gateway) interpret(text string, logger *slog.Logger) (map[string]any, bool) {
	data, err := ParseJSONObject(text)
	if err != nil {
		g.metrics.RecordRawFallback()
		logger.Warn("model output is not a JSON object, returning raw text", "error", err)
		return RawFallback(text), true
	}

	if err := g.schema.Validate(data); err != nil {
		g.metrics.RecordSchemaViolation()
		logger.Warn("model output does not match report schema", "error", err)
	}
	return data, false
}

func outcome(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, ErrUpstreamEmpty):
		return metrics.OutcomeUpstreamEmpty
	case errors.As(err, &upstream):
		return metrics.OutcomeUpstreamError
	default:
		return metrics.OutcomeError
	}
}
