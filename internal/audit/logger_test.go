package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_EvictsOldestFIFO(t *testing.T) {
	l := NewLogger(1000, nil)
	for i := 0; i < 1500; i++ {
		l.Log(Entry{CorrelationID: fmt.Sprintf("id-%d", i), Action: "list_apps", Success: true})
	}

	assert.Equal(t, 1000, l.Len())

	all := l.GetRecent(1000)
	require.Len(t, all, 1000)
	assert.Equal(t, "id-500", all[0].CorrelationID)
	assert.Equal(t, "id-1499", all[999].CorrelationID)
}

func TestLogger_GetRecentOldestFirst(t *testing.T) {
	l := NewLogger(10, nil)
	l.Log(Entry{CorrelationID: "a"})
	l.Log(Entry{CorrelationID: "b"})
	l.Log(Entry{CorrelationID: "c"})

	got := l.GetRecent(2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].CorrelationID)
	assert.Equal(t, "c", got[1].CorrelationID)

	assert.Len(t, l.GetRecent(50), 3)
	assert.Empty(t, l.GetRecent(0))
}

func TestLogger_GetRecentAfterWrap(t *testing.T) {
	l := NewLogger(3, nil)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		l.Log(Entry{CorrelationID: id})
	}

	var ids []string
	for _, e := range l.GetRecent(3) {
		ids = append(ids, e.CorrelationID)
	}
	assert.Equal(t, []string{"c", "d", "e"}, ids)

	ids = nil
	for _, e := range l.GetRecent(2) {
		ids = append(ids, e.CorrelationID)
	}
	assert.Equal(t, []string{"d", "e"}, ids)
}

func TestLogger_RedactsArgs(t *testing.T) {
	l := NewLogger(10, nil)
	args := map[string]any{
		"action": "secret_create",
		"name":   "DB_PASSWORD",
		"value":  "hunter2",
	}

	for _, success := range []bool{true, false} {
		l.Log(Entry{Action: "secret_create", Args: args, Success: success})
	}

	for _, e := range l.GetRecent(2) {
		assert.Equal(t, RedactedValue, e.Args["value"])
		assert.Equal(t, "DB_PASSWORD", e.Args["name"])
	}
	assert.Equal(t, "hunter2", args["value"], "caller's map must not be modified")
}

func TestLogger_SetsTimestamp(t *testing.T) {
	l := NewLogger(1, nil)
	l.Log(Entry{CorrelationID: "x"})
	assert.False(t, l.GetRecent(1)[0].Timestamp.IsZero())
}

type recordingSink struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *recordingSink) Enqueue(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func TestLogger_ForwardsRedactedEntryToSink(t *testing.T) {
	sink := &recordingSink{}
	l := NewLogger(10, sink)
	l.Log(Entry{CorrelationID: "x", Args: map[string]any{"password": "p"}, Timestamp: time.Unix(1, 0)})

	require.Len(t, sink.entries, 1)
	assert.Equal(t, RedactedValue, sink.entries[0].Args["password"])
}
