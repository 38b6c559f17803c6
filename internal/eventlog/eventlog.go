// Package eventlog keeps the operator-facing log of notable state transitions.
package eventlog

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

const timeLayout = "15:04:05"

// Sink receives every recorded entry
type Sink func(entry model.LogEntry)

// Log is an ordered, append-only, unbounded event log.
// It is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []model.LogEntry
	sinks   []Sink
	logger  *slog.Logger
	now     func() time.Time
}

// New creates an empty event log
func New(logger *slog.Logger) *Log {
	return &Log{
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe registers a sink called after each Record
func (l *Log) Subscribe(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sinks = append(l.sinks, sink)
}

// Record appends "[HH:MM:SS] message" to the log
func (l *Log) Record(message string) {
	now := l.now()
	entry := model.LogEntry{
		Time:    now,
		Message: message,
		Line:    fmt.Sprintf("[%s] %s", now.Format(timeLayout), message),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	sinks := l.sinks
	l.mu.Unlock()

	l.logger.Info("event recorded",
		slog.String("message", message),
	)

	for _, sink := range sinks {
		l.deliver(sink, entry)
	}
}

// deliver isolates the log from a misbehaving sink
func (l *Log) deliver(sink Sink, entry model.LogEntry) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event sink panicked",
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	sink(entry)
}

// Entries returns a copy of all recorded entries in order
func (l *Log) Entries() []model.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]model.LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Len returns the number of recorded entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}
