package audit

import "sync"

// ring is a fixed-capacity FIFO buffer. Writes past capacity overwrite the
// oldest element.
type ring[T any] struct {
	mu       sync.RWMutex
	entries  []T
	capacity int
	head     int // index of the next write once full
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{
		entries:  make([]T, 0, capacity),
		capacity: capacity,
	}
}

func (r *ring[T]) push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) < r.capacity {
		r.entries = append(r.entries, v)
		return
	}
	r.entries[r.head] = v
	r.head = (r.head + 1) % r.capacity
}

// last returns up to n of the newest elements, oldest first.
func (r *ring[T]) last(n int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := len(r.entries)
	if n > size {
		n = size
	}
	if n <= 0 {
		return []T{}
	}

	out := make([]T, 0, n)
	// When not yet full head is 0 and entries are already in order.
	start := (r.head + size - n) % size
	for i := 0; i < n; i++ {
		out = append(out, r.entries[(start+i)%size])
	}
	return out
}

func (r *ring[T]) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
