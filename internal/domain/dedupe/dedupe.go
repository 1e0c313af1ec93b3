// Package dedupe tracks duplicate customer ids across sources.
//
// The pipeline never removes duplicate records: customer ids are only unique
// within a source-prefixed namespace, so cross-source collisions are expected
// and merely logged. This package provides the bookkeeping for that logging.
package dedupe

import (
	"context"
	"sync"
)

// Tracker records customer ids and reports whether an id was seen before.
type Tracker interface {
	// SeenAndRecord checks whether id was seen and records it if not.
	// Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Duplicates returns how many duplicate observations were made.
	Duplicates() int64

	// Size returns the number of distinct ids recorded.
	Size() int64
}

type inMemoryTracker struct {
	mu         sync.Mutex
	seen       map[string]struct{}
	maxSize    int
	duplicates int64
}

// Option applies a configuration option to the tracker.
type Option func(*inMemoryTracker)

// WithMaxSize bounds the number of distinct ids kept in memory. Ids beyond
// the bound are treated as unseen; 0 or negative means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(t *inMemoryTracker) {
		t.maxSize = maxSize
	}
}

// NewInMemoryTracker creates an id tracker suitable for one pipeline run.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		seen: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *inMemoryTracker) SeenAndRecord(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		t.duplicates++
		return true
	}
	if t.maxSize > 0 && len(t.seen) >= t.maxSize {
		return false
	}
	t.seen[id] = struct{}{}
	return false
}

func (t *inMemoryTracker) Duplicates() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duplicates
}

func (t *inMemoryTracker) Size() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int64(len(t.seen))
}
