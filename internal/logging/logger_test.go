package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromContext_IncludesRunID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "json")

	ctx := WithRunID(context.Background(), "run-42")
	FromContext(ctx).Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["run_id"] != "run-42" {
		t.Errorf("run_id = %v, want run-42", entry["run_id"])
	}
}

func TestFromContext_NoRunID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "text")

	WithFields(context.Background(), "source", "file").Info("hello")

	out := buf.String()
	if strings.Contains(out, "run_id") {
		t.Errorf("unexpected run_id in %q", out)
	}
	if !strings.Contains(out, "source=file") {
		t.Errorf("missing field in %q", out)
	}
}

func TestSetupWriter_LevelFilters(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "text")

	slog.Info("dropped")
	slog.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn entry should be written")
	}
}
