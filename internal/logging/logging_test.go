package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
		ok       bool
	}{
		{name: "debug", input: "debug", expected: LevelDebug, ok: true},
		{name: "info", input: "info", expected: LevelInfo, ok: true},
		{name: "warn", input: "warn", expected: LevelWarn, ok: true},
		{name: "warning alias", input: "warning", expected: LevelWarn, ok: true},
		{name: "error", input: "error", expected: LevelError, ok: true},
		{name: "case insensitive", input: "DEBUG", expected: LevelDebug, ok: true},
		{name: "surrounding space", input: "  error ", expected: LevelError, ok: true},
		{name: "empty", input: "", expected: LevelInfo, ok: false},
		{name: "unknown", input: "verbose", expected: LevelInfo, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if ok != tt.ok {
				t.Errorf("ParseLevel(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be less than LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be less than LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be less than LevelError")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", int(tt.level), got, tt.expected)
		}
	}
}

func TestSetLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	original := GetLevel()
	defer func() {
		SetLevel(original)
		SetOutput(os.Stderr)
	}()

	SetLevel(LevelWarn)

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below WARN should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") {
		t.Errorf("expected WARN message, got:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("expected ERROR message, got:\n%s", out)
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be false at WARN level")
	}
}
