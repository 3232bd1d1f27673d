package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nimburion/catalog-api/pkg/middleware"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
		log   func(Logger)
		want  bool
	}{
		{"debug hidden at info", InfoLevel, func(l Logger) { l.Debug("msg") }, false},
		{"info shown at info", InfoLevel, func(l Logger) { l.Info("msg") }, true},
		{"warn hidden at error", ErrorLevel, func(l Logger) { l.Warn("msg") }, false},
		{"error shown at error", ErrorLevel, func(l Logger) { l.Error("msg") }, true},
		{"debug shown at debug", DebugLevel, func(l Logger) { l.Debug("msg") }, true},
		{"unknown level behaves like info", "bogus", func(l Logger) { l.Debug("msg") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := NewZapLogger(Config{Level: tt.level, Format: JSONFormat, Output: &buf})
			if err != nil {
				t.Fatalf("NewZapLogger() error = %v", err)
			}
			tt.log(log)
			_ = log.Sync()

			if got := buf.Len() > 0; got != tt.want {
				t.Fatalf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestZapLogger_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log, _ := NewZapLogger(Config{Level: InfoLevel, Format: JSONFormat, Output: &buf})

	log.With("component", "catalog").Info("listed products", "count", 3)
	_ = log.Sync()

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["message"] != "listed products" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
	if entry["component"] != "catalog" {
		t.Fatalf("expected component field, got %v", entry["component"])
	}
	if entry["count"] != float64(3) {
		t.Fatalf("expected count=3, got %v", entry["count"])
	}
}

func TestZapLogger_WithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, _ := NewZapLogger(Config{Level: InfoLevel, Format: JSONFormat, Output: &buf})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	log.WithContext(ctx).Info("hello")
	log.WithContext(context.Background()).Info("no id")
	_ = log.Sync()

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["request_id"] != "req-42" {
		t.Fatalf("expected request_id=req-42, got %v", entries[0]["request_id"])
	}
	if _, ok := entries[1]["request_id"]; ok {
		t.Fatal("did not expect request_id without one in context")
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"debug": DebugLevel, "warning": WarnLevel, "error": ErrorLevel} {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogLevel(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestParseLogFormat(t *testing.T) {
	if got, err := ParseLogFormat("console"); err != nil || got != TextFormat {
		t.Fatalf("ParseLogFormat(console) = %q, %v", got, err)
	}
	if _, err := ParseLogFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLogLevel_IgnoresCase(t *testing.T) {
	got, err := ParseLogLevel(" INFO ")
	if err != nil || got != InfoLevel {
		t.Fatalf("ParseLogLevel(\" INFO \") = %q, %v", got, err)
	}
}

func TestZapLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log, _ := NewZapLogger(Config{Level: InfoLevel, Format: TextFormat, Output: &buf})

	log.Info("serving", "port", 3001)
	_ = log.Sync()

	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "serving") {
		t.Fatalf("unexpected console output %q", out)
	}
	if json.Valid([]byte(strings.TrimSpace(out))) {
		t.Fatalf("expected console encoding, got JSON %q", out)
	}
}
