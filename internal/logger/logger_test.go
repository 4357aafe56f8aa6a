package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "flashbot", func(context.Context) string { return "abc123" })

	log.Info(context.Background(), "trade recorded", "pair", "USDC/USDT", "status", "skipped")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	checks := map[string]string{
		"msg":      "trade recorded",
		"service":  "flashbot",
		"pair":     "USDC/USDT",
		"status":   "skipped",
		"trace_id": "abc123",
	}
	for k, want := range checks {
		if got, _ := rec[k].(string); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if file, _ := rec["file"].(string); !strings.HasPrefix(file, "logger_test.go:") {
		t.Errorf("file = %q, want caller in logger_test.go", file)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "flashbot", nil)

	log.Debug(context.Background(), "dropped")
	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %s", buf.String())
	}

	log.Warn(context.Background(), "kept")
	if !strings.Contains(buf.String(), `"kept"`) {
		t.Errorf("warn record missing: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
