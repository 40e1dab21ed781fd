package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWithContext_ExplicitRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo, true)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	l.WithContext(ctx).Info("hello")

	entry := decodeLine(t, &buf)
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want req-123", entry["request_id"])
	}
}

func TestWithContext_ChiRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo, true)

	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "chi-7")
	l.WithContext(ctx).Info("hello")

	entry := decodeLine(t, &buf)
	if entry["request_id"] != "chi-7" {
		t.Errorf("request_id = %v, want chi-7", entry["request_id"])
	}
}

func TestWithContext_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo, true)

	l.WithContext(context.Background()).Info("hello")

	entry := decodeLine(t, &buf)
	if _, ok := entry["request_id"]; ok {
		t.Error("request_id should be absent")
	}
}

func TestWithComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo, true)

	l.WithComponent("store").WithError(errors.New("boom")).Warn("failed")

	entry := decodeLine(t, &buf)
	if entry["component"] != "store" {
		t.Errorf("component = %v, want store", entry["component"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelWarn, false)

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
}
