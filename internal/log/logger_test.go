package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/flowforge/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "development config", config: DevelopmentConfig()},
		{
			name: "custom json config",
			config: Config{
				Level:     LevelDebug,
				Format:    FormatJSON,
				Output:    OutputStdout(),
				AddSource: true,
			},
		},
		{
			name: "custom text config",
			config: Config{
				Level:  LevelWarn,
				Format: FormatText,
				Output: OutputStderr(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			if logger == nil {
				t.Fatal("expected logger, got nil")
			}
			if logger.slog == nil {
				t.Fatal("expected slog logger, got nil")
			}
			if logger.config.Level != tt.config.Level {
				t.Errorf("expected level %v, got %v", tt.config.Level, logger.config.Level)
			}
		})
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelDebug,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	logger.Info("hello", "item_id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("expected msg hello, got %v", entry["msg"])
	}
	if entry["item_id"] != "abc" {
		t.Errorf("expected item_id abc, got %v", entry["item_id"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: NewOutput(&buf),
	})

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	logger.Warn("loud enough")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "loud enough") {
		t.Errorf("expected warn to be logged, got %q", out)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelDebug,
		Format: FormatJSON,
		Output: NewOutput(&buf),
	})

	flowErr := errors.New(errors.ErrCodeItemNotFound, "work item not found").
		WithSuggestion("Run 'flowforge list' to see known items")

	logger.WithError(flowErr).Error("lookup failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["error_code"] != string(errors.ErrCodeItemNotFound) {
		t.Errorf("expected error_code %s, got %v", errors.ErrCodeItemNotFound, entry["error_code"])
	}
	if _, ok := entry["suggestions"]; !ok {
		t.Error("expected suggestions attribute")
	}
}

func TestWithErrorNil(t *testing.T) {
	logger := Default()
	if logger.WithError(nil) != logger {
		t.Error("expected WithError(nil) to return the same logger")
	}
}

func TestGetDefault(t *testing.T) {
	SetDefault(nil)
	first := GetDefault()
	if first == nil {
		t.Fatal("expected lazily created logger")
	}
	if GetDefault() != first {
		t.Error("expected the same logger on subsequent calls")
	}

	custom := New(DevelopmentConfig())
	SetDefault(custom)
	if GetDefault() != custom {
		t.Error("expected the installed logger")
	}
}
