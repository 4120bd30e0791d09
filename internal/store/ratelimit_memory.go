package store

import (
	"context"
	"sync"
	"time"
)

// sweepEvery is how many Records pass between sweeps of idle keys.
const sweepEvery = 1024

type window struct {
	size time.Duration
	hits []time.Time
}

// WindowMemoryStore is an in-memory sliding-window counter for ratelimit.Store.
type WindowMemoryStore struct {
	mu      sync.Mutex
	keys    map[string]*window
	records int
	clock   func() time.Time
}

// NewWindowMemoryStore creates a new in-memory window store.
func NewWindowMemoryStore() *WindowMemoryStore {
	return &WindowMemoryStore{
		keys:  make(map[string]*window),
		clock: time.Now,
	}
}

// Record adds a hit for key and returns the hits inside the trailing window.
func (s *WindowMemoryStore) Record(_ context.Context, key string, size time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()

	s.records++
	if s.records%sweepEvery == 0 {
		s.sweep(now)
	}

	w, ok := s.keys[key]
	if !ok {
		w = &window{}
		s.keys[key] = w
	}

	w.size = size
	w.hits = append(prune(w.hits, now.Add(-size)), now)

	return int64(len(w.hits)), nil
}

// sweep drops keys with no hits left inside their last window.
func (s *WindowMemoryStore) sweep(now time.Time) {
	for key, w := range s.keys {
		w.hits = prune(w.hits, now.Add(-w.size))
		if len(w.hits) == 0 {
			delete(s.keys, key)
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]

	for _, ts := range hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	return kept
}
