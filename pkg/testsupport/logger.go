package testsupport

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// RecordingLogger captures entries for assertions. Loggers derived through
// WithFields share the same sink.
type RecordingLogger struct {
	sink   *logSink
	fields map[string]any
}

var _ interfaces.Logger = (*RecordingLogger)(nil)
var _ interfaces.FieldsLogger = (*RecordingLogger)(nil)
var _ interfaces.LoggerProvider = (*RecordingLogger)(nil)

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &logSink{}}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:   level,
		Message: msg,
		Args:    args,
		Fields:  maps.Clone(l.fields),
	})
}

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	return &RecordingLogger{sink: l.sink, fields: merged}
}

func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger { return l }

// GetLogger lets the recorder stand in for a provider.
func (l *RecordingLogger) GetLogger(string) interfaces.Logger { return l }

// Entries returns a snapshot of everything logged so far.
func (l *RecordingLogger) Entries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return append([]LogEntry(nil), l.sink.entries...)
}

// Messages returns the messages logged at level, in order.
func (l *RecordingLogger) Messages(level string) []string {
	var out []string
	for _, entry := range l.Entries() {
		if entry.Level == level {
			out = append(out, entry.Message)
		}
	}
	return out
}
