package audit

import (
	"time"

	"cloud-cli-mcp/pkg/logging"
)

// DefaultCapacity is the number of entries kept in memory.
const DefaultCapacity = 1000

// Entry is one completed tool invocation. Entries are never modified after
// they are logged.
type Entry struct {
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlationId"`
	Action        string         `json:"action"`
	Args          map[string]any `json:"args"`
	DurationMs    int64          `json:"durationMs"`
	Success       bool           `json:"success"`
	ErrorCode     string         `json:"errorCode,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	ErrorDetail   any            `json:"errorDetail,omitempty"`
}

// Sink receives every entry after it has been redacted and buffered.
// Implementations must not block.
type Sink interface {
	Enqueue(Entry)
}

// Logger is the in-memory audit trail.
type Logger struct {
	ring *ring[Entry]
	sink Sink
}

// NewLogger creates a logger holding at most capacity entries. A nil sink
// keeps the trail in memory only.
func NewLogger(capacity int, sink Sink) *Logger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Logger{
		ring: newRing[Entry](capacity),
		sink: sink,
	}
}

// Log redacts and appends an entry, evicting the oldest when full, and
// writes a one-line summary to the diagnostic log.
func (l *Logger) Log(e Entry) {
	e.Args = Redact(e.Args)
	if m, ok := e.ErrorDetail.(map[string]any); ok {
		e.ErrorDetail = Redact(m)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	l.ring.push(e)

	if e.Success {
		logging.Info("Audit", "[%s] %s ok (%dms)", e.CorrelationID, e.Action, e.DurationMs)
	} else {
		logging.Info("Audit", "[%s] %s failed (%dms): %s %s", e.CorrelationID, e.Action, e.DurationMs, e.ErrorCode, e.ErrorMessage)
	}

	if l.sink != nil {
		l.sink.Enqueue(e)
	}
}

// GetRecent returns the newest limit entries in chronological order.
func (l *Logger) GetRecent(limit int) []Entry {
	return l.ring.last(limit)
}

// Len returns the number of buffered entries.
func (l *Logger) Len() int {
	return l.ring.len()
}
