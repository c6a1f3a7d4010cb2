package svcctx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFrom(ctx); got != "" {
		t.Errorf("RequestIDFrom(empty) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "req-1")
	if got := RequestIDFrom(ctx); got != "req-1" {
		t.Errorf("RequestIDFrom() = %q, want req-1", got)
	}
}

func TestLogger(t *testing.T) {
	if LoggerFrom(context.Background()) != nil {
		t.Fatal("LoggerFrom(empty) should be nil")
	}
	if LoggerOr(context.Background(), nil) == nil {
		t.Fatal("LoggerOr(empty, nil) returned nil")
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "req-2")
	ctx := WithLogger(context.Background(), logger)

	LoggerOr(ctx, slog.Default()).Info("hello")
	if !strings.Contains(buf.String(), "request_id=req-2") {
		t.Errorf("log output %q missing request id", buf.String())
	}
}
