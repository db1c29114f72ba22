package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "logLevel: info\n")

	reloaded := make(chan Config, 4)
	w := NewWatcher(dir, func(cfg Config) { reloaded <- cfg })
	w.debounce = 20 * time.Millisecond
	w.pollInterval = 50 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	// Give the poller (if fsnotify is unavailable) a baseline mod time.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "logLevel: debug\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.LogLevel)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload the changed config")
	}
}

func TestWatcher_SkipsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "logLevel: info\n")

	reloaded := make(chan Config, 4)
	w := NewWatcher(dir, func(cfg Config) { reloaded <- cfg })
	w.debounce = 20 * time.Millisecond
	w.pollInterval = 50 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "logLevel: shouting\n")

	select {
	case cfg := <-reloaded:
		t.Fatalf("invalid config should not be delivered, got %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), nil)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
