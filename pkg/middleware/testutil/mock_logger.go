// Package testutil provides test doubles shared by middleware and handler tests.
package testutil

import (
	"context"
	"sync"

	"github.com/nimburion/catalog-api/pkg/observability/logger"
)

// MockLogger captures log entries for assertions. It is safe for concurrent use.
type MockLogger struct {
	mu     sync.Mutex
	Logs   []LogEntry
	fields []any
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.record("debug", msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.record("info", msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.record("warn", msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.record("error", msg, args) }

// With returns a child that records into the same entry list with the extra fields.
func (m *MockLogger) With(args ...any) logger.Logger {
	return &childLogger{root: m, fields: append(append([]any{}, m.fields...), args...)}
}

// WithContext returns the same logger.
func (m *MockLogger) WithContext(ctx context.Context) logger.Logger {
	return m
}

// Entries returns a snapshot of the captured entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry{}, m.Logs...)
}

// Find returns the first entry with the given level and message.
func (m *MockLogger) Find(level, msg string) (LogEntry, bool) {
	for _, entry := range m.Entries() {
		if entry.Level == level && entry.Msg == msg {
			return entry, true
		}
	}
	return LogEntry{}, false
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Msg: msg, Fields: argsToMap(append(append([]any{}, m.fields...), args...))})
}

type childLogger struct {
	root   *MockLogger
	fields []any
}

func (c *childLogger) Debug(msg string, args ...any) { c.root.record("debug", msg, c.merge(args)) }
func (c *childLogger) Info(msg string, args ...any)  { c.root.record("info", msg, c.merge(args)) }
func (c *childLogger) Warn(msg string, args ...any)  { c.root.record("warn", msg, c.merge(args)) }
func (c *childLogger) Error(msg string, args ...any) { c.root.record("error", msg, c.merge(args)) }

func (c *childLogger) With(args ...any) logger.Logger {
	return &childLogger{root: c.root, fields: c.merge(args)}
}

func (c *childLogger) WithContext(ctx context.Context) logger.Logger {
	return c
}

func (c *childLogger) merge(args []any) []any {
	return append(append([]any{}, c.fields...), args...)
}

func argsToMap(args []any) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
