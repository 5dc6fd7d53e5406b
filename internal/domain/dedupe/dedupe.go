// Package dedupe tracks identity codes handed out by this process so the
// generator never issues the same fresh code twice, even before the code
// has any record in the store.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 4096

// Deduper remembers a bounded set of issued codes.
type Deduper interface {
	// SeenAndRecord reports whether code was already recorded and records it
	// if not. The check and the insert happen atomically.
	SeenAndRecord(ctx context.Context, code string) bool

	// Unrecord forgets code, e.g. when issuing it failed further down.
	Unrecord(ctx context.Context, code string)

	Size() int64
}

// inMemoryDeduper keeps codes in a map plus a ring of insertion order.
// When full, the oldest code is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // code -> slot in ring
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper. maxSize <= 0 means unbounded.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[code]; ok {
		return true
	}
	if d.maxSize <= 0 {
		d.seen[code] = -1
		return false
	}

	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = code
	d.seen[code] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.seen[code]
	if !ok {
		return
	}
	delete(d.seen, code)
	if slot >= 0 {
		d.ring[slot] = ""
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
