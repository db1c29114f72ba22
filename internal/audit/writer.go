package audit

import (
	"sync"
	"time"

	"cloud-cli-mcp/pkg/logging"
)

const (
	writerQueueSize     = 256
	writerBatchSize     = 32
	writerFlushInterval = 2 * time.Second
)

// Writer persists entries to a Store from a background goroutine. It batches
// entries and flushes on size or interval. Enqueue never blocks: when the
// queue is full the entry is dropped from persistence (it is still in the
// in-memory ring).
type Writer struct {
	store *Store
	queue chan Entry
	wg    sync.WaitGroup

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewWriter starts a writer for store.
func NewWriter(store *Store) *Writer {
	w := &Writer{
		store: store,
		queue: make(chan Entry, writerQueueSize),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Enqueue implements Sink.
func (w *Writer) Enqueue(e Entry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.queue <- e:
	default:
		logging.Warn("AuditStore", "Queue full, not persisting %s", e.CorrelationID)
	}
}

func (w *Writer) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(writerFlushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, writerBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.store.SaveBatch(batch); err != nil {
			logging.Error("AuditStore", err, "Failed to persist %d audit entries", len(batch))
		} else {
			logging.Debug("AuditStore", "Persisted %d audit entries", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-w.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= writerBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Close drains pending entries and closes the store.
func (w *Writer) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()

		w.wg.Wait()
		err = w.store.Close()
	})
	return err
}
