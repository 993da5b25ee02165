// internal/logging/testing.go
package logging

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger wraps a Logger whose core records every entry, trace
// included, for assertions in tests.
type TestLogger struct {
	*Logger
	logs *observer.ObservedLogs
}

// NewTestLogger builds an observing logger for tests.
func NewTestLogger() *TestLogger {
	core, logs := observer.New(TraceLevel)
	return &TestLogger{
		Logger: &Logger{base: zap.New(core), cfg: NewDefaultConfig()},
		logs:   logs,
	}
}

// All returns every recorded entry.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.logs.All()
}

// FilterMessage returns the entries whose message contains msg.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.logs.FilterMessage(msg)
}

// Reset drops everything recorded so far.
func (t *TestLogger) Reset() {
	t.logs.TakeAll()
}

func entryMatches(entry observer.LoggedEntry, level zapcore.Level, msgContains string) bool {
	return entry.Level == level && strings.Contains(entry.Message, msgContains)
}

// AssertLogged fails tb unless an entry at level whose message contains
// msgContains was recorded.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.logs.All() {
		if entryMatches(entry, level, msgContains) {
			return
		}
	}
	tb.Errorf("no %v entry containing %q; recorded: %+v", level, msgContains, t.logs.All())
}

// AssertNotLogged fails tb when an entry at level whose message contains
// msgContains was recorded.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.logs.All() {
		if entryMatches(entry, level, msgContains) {
			tb.Errorf("found %v entry containing %q, wanted none", level, msgContains)
		}
	}
}

func fieldEquals(field zapcore.Field, want interface{}) bool {
	if field.Type == zapcore.StringType {
		return field.String == want
	}
	return reflect.DeepEqual(field.Interface, want)
}

// AssertField fails tb unless an entry whose message contains msg
// carries key with the wanted value.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, want interface{}) {
	tb.Helper()
	for _, entry := range t.logs.FilterMessage(msg).All() {
		for _, field := range entry.Context {
			if field.Key == key && fieldEquals(field, want) {
				return
			}
		}
	}
	tb.Errorf("no entry %q carries %s=%v", msg, key, want)
}
