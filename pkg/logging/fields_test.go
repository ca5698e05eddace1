package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestWithTraceID(t *testing.T) {
	attr := WithTraceID("trace-12345")
	if attr.Key != FieldTraceID {
		t.Errorf("Key = %q, want %q", attr.Key, FieldTraceID)
	}
	if attr.Value.String() != "trace-12345" {
		t.Errorf("Value = %q, want %q", attr.Value.String(), "trace-12345")
	}
}

func TestWithEventID(t *testing.T) {
	attr := WithEventID("API_REQUEST")
	if attr.Key != FieldEventID {
		t.Errorf("Key = %q, want %q", attr.Key, FieldEventID)
	}
	if attr.Value.String() != "API_REQUEST" {
		t.Errorf("Value = %q, want %q", attr.Value.String(), "API_REQUEST")
	}
}

func TestWithError(t *testing.T) {
	t.Run("With error", func(t *testing.T) {
		attr := WithError(errors.New("connection failed"))
		if attr.Key != FieldError {
			t.Errorf("Key = %q, want %q", attr.Key, FieldError)
		}
		if attr.Value.String() != "connection failed" {
			t.Errorf("Value = %q, want %q", attr.Value.String(), "connection failed")
		}
	})

	t.Run("With nil error", func(t *testing.T) {
		attr := WithError(nil)
		if attr.Value.String() != "" {
			t.Errorf("Value = %q, want empty", attr.Value.String())
		}
	})
}

func TestWithHTTPStatusAndLatency(t *testing.T) {
	status := WithHTTPStatus(401)
	if status.Key != FieldHTTPStatus || status.Value.Int64() != 401 {
		t.Errorf("WithHTTPStatus = %v", status)
	}
	latency := WithLatency(42)
	if latency.Key != FieldLatencyMs || latency.Value.Int64() != 42 {
		t.Errorf("WithLatency = %v", latency)
	}
}

func TestWithToken(t *testing.T) {
	attr := WithToken("eyJhbGciOiJIUzI1NiJ9")
	if attr.Key != FieldToken {
		t.Errorf("Key = %q, want %q", attr.Key, FieldToken)
	}
	if attr.Value.String() == "eyJhbGciOiJIUzI1NiJ9" {
		t.Error("token should be masked")
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "catalog-tui", "WARN")

	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["app"] != "catalog-tui" {
		t.Errorf("app = %v, want catalog-tui", entry["app"])
	}
	if entry["msg"] != "kept" {
		t.Errorf("msg = %v, want kept", entry["msg"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
