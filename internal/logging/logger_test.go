package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"mechanicflow/internal/services"
)

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger = NewComponentLogger(logger, "registry")
	logger.Info("client created", String(FieldClientID, "Juan_2024-01-15_1700000000000"))

	out := buf.String()
	if !strings.Contains(out, "[registry]") {
		t.Fatalf("expected component tag in output, got %q", out)
	}
	if !strings.Contains(out, "client created") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "client_id=") {
		t.Fatalf("expected attribute in output, got %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithClientID(context.Background(), "abc")
	ctx = services.WithRequestID(ctx, "req-1")
	WithContext(ctx, logger).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "client_id=abc") {
		t.Fatalf("expected client id field, got %q", out)
	}
	if !strings.Contains(out, "correlation_id=req-1") {
		t.Fatalf("expected correlation id field, got %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}
