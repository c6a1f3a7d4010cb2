package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerateSuccess(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini-2024",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"findings\": []}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	result, err := client.Generate(context.Background(), &GenerateRequest{
		Prompt:       "Extract JSON.",
		DocumentPath: writeTestPDF(t),
		DisplayName:  "scan.pdf",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Text != `{"findings": []}` {
		t.Errorf("Text = %q", result.Text)
	}
	if result.ModelUsed != "gpt-4o-mini-2024" {
		t.Errorf("ModelUsed = %q, want server-reported model", result.ModelUsed)
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 5 {
		t.Errorf("tokens = %d/%d, want 12/5", result.PromptTokens, result.CompletionTokens)
	}

	if payload["model"] != OpenAIDefaultModel {
		t.Errorf("request model = %v, want %s", payload["model"], OpenAIDefaultModel)
	}
	raw, _ := json.Marshal(payload["messages"])
	if !strings.Contains(string(raw), "data:application/pdf;base64,") {
		t.Errorf("request does not carry the pdf as a data url: %s", raw)
	}
	if !strings.Contains(string(raw), "scan.pdf") {
		t.Errorf("request does not carry the filename: %s", raw)
	}
	if !strings.Contains(string(raw), "Extract JSON.") {
		t.Errorf("request does not carry the prompt: %s", raw)
	}
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad file", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	_, err := client.Generate(context.Background(), &GenerateRequest{
		Prompt:       "x",
		DocumentPath: writeTestPDF(t),
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Generate() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
}

func TestOpenAIListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [
			{"id": "gpt-4o", "object": "model", "created": 1, "owned_by": "openai"},
			{"id": "gpt-4o-mini", "object": "model", "created": 1, "owned_by": "openai"}
		]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0] != "gpt-4o" {
		t.Errorf("ListModels() = %v", models)
	}
}

func TestOpenAIGenerateMissingDocument(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:0"})
	_, err := client.Generate(context.Background(), &GenerateRequest{DocumentPath: "/nonexistent/file.pdf"})
	if err == nil {
		t.Fatal("expected error for missing document")
	}
}
