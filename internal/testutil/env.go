// Package testutil holds helpers shared by server and endpoint tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/medtwin/medtwin/internal/extract"
	"github.com/medtwin/medtwin/internal/metrics"
	"github.com/medtwin/medtwin/internal/providers"
)

// SamplePDF is a minimal document with a PDF header. It is not a valid page
// tree, so page counting reports 0 and the call proceeds.
var SamplePDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

// ServerConfig returns configuration values for creating a test server.
// This avoids importing the server package directly.
type ServerConfig struct {
	Host       string
	Port       string
	StagingDir string
	Logger     *slog.Logger
}

// NewServerConfig creates configuration for a test server on a free port.
func NewServerConfig(t *testing.T) ServerConfig {
	t.Helper()

	port, err := FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port for HTTP: %v", err)
	}

	return ServerConfig{
		Host:       "127.0.0.1",
		Port:       port,
		StagingDir: filepath.Join(t.TempDir(), "staging"),
		Logger:     Logger(t),
	}
}

// URL returns the server URL for the given config.
func (c ServerConfig) URL() string {
	return fmt.Sprintf("http://%s:%s", c.Host, c.Port)
}

// Logger returns a logger for tests. Only warnings and errors are written.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// Gateway is an extraction gateway backed by a MockClient.
type Gateway struct {
	*extract.Gateway
	Mock       *providers.MockClient
	Metrics    *metrics.Metrics
	StagingDir string
}

// NewGateway builds a gateway whose upstream answers with response.
func NewGateway(t *testing.T, response string) *Gateway {
	t.Helper()

	mock := providers.NewMockClient()
	mock.Latency = 0
	mock.ResponseText = response

	staging := filepath.Join(t.TempDir(), "staging")
	m := metrics.New()
	gw, err := extract.New(extract.Config{
		Generator:    mock,
		DefaultModel: "models/test-default",
		StagingDir:   staging,
		Metrics:      m,
		Logger:       Logger(t),
	})
	if err != nil {
		t.Fatalf("extract.New() error = %v", err)
	}
	return &Gateway{Gateway: gw, Mock: mock, Metrics: m, StagingDir: staging}
}

// MultipartUpload builds a multipart body with a "pdf" file part and the
// given form fields. It returns the body and its Content-Type.
func MultipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("pdf", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// WaitForServer polls the /health endpoint until it answers 200.
func WaitForServer(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/health", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return fmt.Errorf("server not ready after %v", timeout)
}

// WaitForShutdown waits for a channel to receive a value or timeout.
func WaitForShutdown(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for shutdown")
	}
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}
