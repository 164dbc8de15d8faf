package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	t.Run("default hides debug and info", func(t *testing.T) {
		buf.Reset()
		Init(false)

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
			t.Errorf("debug/info should be filtered: %s", out)
		}
		if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
			t.Errorf("warn/error should be shown: %s", out)
		}
	})

	t.Run("verbose shows everything", func(t *testing.T) {
		buf.Reset()
		Init(true)

		Debug("debug message")
		Info("info message")

		out := buf.String()
		if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "[INFO]") {
			t.Errorf("verbose mode should show debug and info: %s", out)
		}
	})
}

func TestDebugFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	Init(true)

	DebugFields("resolving", map[string]interface{}{
		"family":  "debian",
		"version": "2.4.62",
	})

	out := buf.String()
	// Fields are sorted by key for deterministic output.
	if !strings.Contains(out, "resolving family=debian version=2.4.62") {
		t.Errorf("unexpected field formatting: %s", out)
	}
}
