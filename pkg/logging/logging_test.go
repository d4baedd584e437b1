package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLevel(test.name); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Debug("Test", "debug message should be filtered")
	Info("Test", "info message %d", 42)

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Errorf("debug message should have been filtered, got: %s", output)
	}
	if !strings.Contains(output, "info message 42") {
		t.Errorf("expected info message in output, got: %s", output)
	}
	if !strings.Contains(output, "subsystem=Test") {
		t.Errorf("expected subsystem attribute in output, got: %s", output)
	}
}

func TestError_IncludesErrorAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Error("Test", errors.New("boom"), "operation failed")

	output := buf.String()
	if !strings.Contains(output, "operation failed") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "error=boom") {
		t.Errorf("expected error attribute in output, got: %s", output)
	}
}
