package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

type logRecord struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	// Use JSON handler for easier parsing in tests
	originalLogger := Logger
	Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	defer func() { Logger = originalLogger }()

	tests := []struct {
		name  string
		fn    func(msg string, args ...any)
		level string
	}{
		{"Info", Info, "INFO"},
		{"Error", Error, "ERROR"},
		{"Warn", Warn, "WARN"},
		{"Debug", Debug, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("test message", "key", "value")

			var rec logRecord
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("failed to unmarshal log output: %v", err)
			}
			if rec.Msg != "test message" {
				t.Errorf("msg = %q, want %q", rec.Msg, "test message")
			}
			if rec.Level != tt.level {
				t.Errorf("level = %q, want %q", rec.Level, tt.level)
			}
		})
	}
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := Logger
	SetOutput(&buf)
	defer func() { Logger = originalLogger; SetDebug(false) }()

	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output emitted at info level: %q", buf.String())
	}

	SetDebug(true)
	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug output missing after SetDebug(true): %q", buf.String())
	}
}
