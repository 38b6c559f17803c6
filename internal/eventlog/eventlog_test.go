package eventlog

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

func newTestLog() *Log {
	l := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.now = func() time.Time {
		return time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC)
	}
	return l
}

func TestLog_RecordFormatsLine(t *testing.T) {
	l := newTestLog()

	l.Record("Abnormal latency detected: 450 ms")

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "[09:05:07] Abnormal latency detected: 450 ms", entries[0].Line)
	assert.Equal(t, "Abnormal latency detected: 450 ms", entries[0].Message)
}

func TestLog_AppendOnlyNoDeduplication(t *testing.T) {
	l := newTestLog()

	l.Record("same")
	l.Record("same")
	l.Record("")

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "[09:05:07] same", entries[0].Line)
	assert.Equal(t, "[09:05:07] same", entries[1].Line)
	assert.Equal(t, "[09:05:07] ", entries[2].Line)
}

func TestLog_EntriesReturnsCopy(t *testing.T) {
	l := newTestLog()
	l.Record("first")

	entries := l.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "first", l.Entries()[0].Message)
}

func TestLog_SinkPanicDoesNotEscape(t *testing.T) {
	l := newTestLog()

	var got []model.LogEntry
	l.Subscribe(func(model.LogEntry) { panic("boom") })
	l.Subscribe(func(e model.LogEntry) { got = append(got, e) })

	assert.NotPanics(t, func() { l.Record("still recorded") })
	assert.Equal(t, 1, l.Len())
	require.Len(t, got, 1)
	assert.Equal(t, "still recorded", got[0].Message)
}

func TestLog_ConcurrentRecord(t *testing.T) {
	l := newTestLog()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record("tick")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, l.Len())
}
