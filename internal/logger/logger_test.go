package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level, got %s", log.GetLevel())
	}
}

func TestNewWithLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := NewWithLevel(tt.in).GetLevel(); got != tt.want {
			t.Errorf("NewWithLevel(%q) level = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())

	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}

func TestWithFieldsAndComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := Component(WithFields(NewWithWriter(buf), map[string]interface{}{
		"run_id": "123",
	}), "workflow")

	log.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"123"`) {
		t.Errorf("Expected output to contain run_id field, got: %s", output)
	}
	if !strings.Contains(output, `"component":"workflow"`) {
		t.Errorf("Expected output to contain component field, got: %s", output)
	}
}

func TestNewConsole(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewConsole(buf, "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("sheet", "Monthly JE").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info event should be filtered at warn level, got: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "sheet=") {
		t.Errorf("Expected console output with fields, got: %s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no color codes for a non-terminal writer, got: %q", out)
	}
}
