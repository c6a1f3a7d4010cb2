package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// ErrMockFailure is returned when a MockClient is configured to fail.
var ErrMockFailure = errors.New("mock client configured to fail")

// MockClient is a Generator for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	Models       []string
	ModelsErr    error

	// OnGenerate, if set, runs before the response is built. It sees the
	// request while the staged document still exists.
	OnGenerate func(req *GenerateRequest)

	// State
	requestCount atomic.Int64
	mu           sync.Mutex
	lastRequest  *GenerateRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency:      10 * time.Millisecond,
		ResponseText: "mock response",
		Models:       []string{"models/mock-1"},
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Generate returns the scripted response.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	c.mu.Lock()
	copied := *req
	c.lastRequest = &copied
	c.mu.Unlock()

	if c.OnGenerate != nil {
		c.OnGenerate(req)
	}

	// Check if we should fail
	if c.ShouldFail {
		return nil, ErrMockFailure
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}

	// Simulate latency
	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// The staged document must be readable for the duration of the call.
	if req.DocumentPath != "" {
		if _, err := os.Stat(req.DocumentPath); err != nil {
			return nil, fmt.Errorf("mock: staged document: %w", err)
		}
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = fmt.Sprintf("mock-%d", count)
	}

	promptTokens := len(req.Prompt) / 4 // Rough estimate
	completionTokens := len(c.ResponseText) / 4

	return &GenerateResult{
		Text:             c.ResponseText,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		ExecutionTime:    time.Since(start),
		Provider:         MockClientName,
		ModelUsed:        req.Model,
		RequestID:        requestID,
	}, nil
}

// ListModels returns the scripted model list.
func (c *MockClient) ListModels(ctx context.Context) ([]string, error) {
	if c.ModelsErr != nil {
		return nil, c.ModelsErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(c.Models))
	copy(out, c.Models)
	return out, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns a copy of the most recent request, or nil.
func (c *MockClient) LastRequest() *GenerateRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRequest == nil {
		return nil
	}
	copied := *c.lastRequest
	return &copied
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.mu.Lock()
	c.lastRequest = nil
	c.mu.Unlock()
}

// Verify interface
var _ Generator = (*MockClient)(nil)
