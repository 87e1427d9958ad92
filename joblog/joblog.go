// Package joblog records the ordered diagnostic trail of a single
// extraction request. Entries are returned to the caller inside the
// extraction result; process-wide logging stays on log/slog.
package joblog

import (
	"fmt"
	"time"
)

// Level classifies the severity of a single entry.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Entry is one timestamped message in the trail.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// Log is an append-only recorder scoped to one extraction call.
// The zero value is ready to use. Log is not safe for concurrent use;
// a request runs on a single goroutine.
type Log struct {
	entries []Entry
}

func (l *Log) add(level Level, format string, args ...any) {
	l.entries = append(l.entries, Entry{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// Infof appends an info-level entry.
func (l *Log) Infof(format string, args ...any) { l.add(LevelInfo, format, args...) }

// Warnf appends a warning-level entry.
func (l *Log) Warnf(format string, args ...any) { l.add(LevelWarning, format, args...) }

// Errorf appends an error-level entry.
func (l *Log) Errorf(format string, args ...any) { l.add(LevelError, format, args...) }

// Append merges entries from a child trail, preserving their order.
func (l *Log) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Entries returns the recorded trail in emission order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Messages returns just the message strings, for tests and display.
func (l *Log) Messages() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Message
	}
	return out
}
