// Package ttlstore implements the weighted, per-entry-TTL associative store
// that backs the cache backend. It is the only package in this module that
// touches weight accounting, expiry, and the concurrency primitives that
// protect them; everything above it (the cache backend) only ever calls
// Get/Put/Remove/RemoveWhere/Sweep/Stats.
//
// The recency structure is github.com/hashicorp/golang-lru/v2's simplelru,
// the same module the teacher uses for its in-memory L1 tier
// (internal/cache/multilevel_cache.go, pkg/clients/cache_manager.go), here
// generalized from a fixed-entry-count LRU into a byte-weighted one by
// layering weight accounting and absolute expiry on top of simplelru's
// Peek/RemoveOldest/eviction-callback primitives.
package ttlstore

import (
	"math"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// Unlimited is the sentinel expiresAt meaning "never expires".
const Unlimited int64 = math.MaxInt64

// Clock returns the current time in nanoseconds. Tests supply a fake clock
// they can advance deterministically; production callers supply
// time.Now().UnixNano.
type Clock func() int64

// Weigher computes the byte cost of a (key, value) pair.
type Weigher[K comparable, V any] func(key K, value V) int64

type entry[V any] struct {
	value     V
	expiresAt int64 // nanos; Unlimited means never
	weight    int64
}

// Stats holds a point-in-time snapshot of store statistics.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int
	Weight     int64
	Capacity   int64
}

// Store is a concurrent, weighted, per-entry-TTL associative container.
// Zero value is not usable; construct with New.
type Store[K comparable, V any] struct {
	mu       sync.Mutex
	lru      *lru.LRU[K, *entry[V]]
	weigher  Weigher[K, V]
	capacity int64
	weight   int64
	clock    Clock

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a store bounded to capacity bytes (as estimated by weigher),
// using clock as the sole source of time.
func New[K comparable, V any](capacity int64, weigher Weigher[K, V], clock Clock) *Store[K, V] {
	s := &Store[K, V]{
		capacity: capacity,
		weigher:  weigher,
		clock:    clock,
	}
	// size is unbounded by entry count; capacity is enforced by weight below.
	l, err := lru.NewLRU[K, *entry[V]](math.MaxInt32, s.onEvict)
	if err != nil {
		panic("ttlstore: failed to construct backing lru: " + err.Error())
	}
	s.lru = l
	return s
}

// onEvict is invoked by the backing LRU whenever an entry leaves it, whether
// by explicit Remove, RemoveOldest, or Purge. It must only adjust
// bookkeeping: the store's mutex is already held when this runs.
func (s *Store[K, V]) onEvict(_ K, e *entry[V]) {
	s.weight -= e.weight
	s.evictions.Add(1)
}

// Put inserts or replaces key with value, expiring at expiresAt (absolute
// nanoseconds, or Unlimited). An expiresAt at or before the clock's current
// reading evicts the entry immediately after insertion, matching the "zero
// life maps to immediate eviction" rule.
func (s *Store[K, V]) Put(key K, value V, expiresAt int64) {
	w := s.weigher(key, value)
	e := &entry[V]{value: value, expiresAt: expiresAt, weight: w}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.lru.Peek(key); ok {
		s.weight -= old.weight
	}
	s.weight += w
	s.lru.Add(key, e)

	now := s.clock()
	if expiresAt != Unlimited && expiresAt <= now {
		s.removeLocked(key)
	}

	for s.weight > s.capacity && s.lru.Len() > 0 {
		s.lru.RemoveOldest()
	}
}

// Get returns the live value for key, or (zero, false) on miss or expiry.
// A read never extends an entry's remaining life.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lru.Get(key)
	if !ok {
		s.misses.Add(1)
		var zero V
		return zero, false
	}

	now := s.clock()
	if e.expiresAt != Unlimited && now >= e.expiresAt {
		s.removeLocked(key)
		s.misses.Add(1)
		var zero V
		return zero, false
	}

	s.hits.Add(1)
	return e.value, true
}

// Remove deletes key if present. Removing an absent key is a no-op.
func (s *Store[K, V]) Remove(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(key)
}

func (s *Store[K, V]) removeLocked(key K) {
	s.lru.Remove(key)
}

// RemoveWhere deletes every entry whose key satisfies pred, returning the
// number removed. Used by Clear to invalidate a single repository's
// namespace without touching any other.
func (s *Store[K, V]) RemoveWhere(pred func(K) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	victims := make([]K, 0)
	for _, k := range s.lru.Keys() {
		if pred(k) {
			victims = append(victims, k)
		}
	}
	for _, k := range victims {
		s.lru.Remove(k)
	}
	return len(victims)
}

// Sweep actively evicts every entry whose expiry has passed as of the
// current clock reading, independent of Get-driven lazy expiration. It
// never changes the observable result of Get, which already treats expired
// entries as misses; it only reclaims their weight sooner.
func (s *Store[K, V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	victims := make([]K, 0)
	for _, k := range s.lru.Keys() {
		e, ok := s.lru.Peek(k)
		if ok && e.expiresAt != Unlimited && now >= e.expiresAt {
			victims = append(victims, k)
		}
	}
	for _, k := range victims {
		s.lru.Remove(k)
	}
	return len(victims)
}

// Stats returns a snapshot of store statistics.
func (s *Store[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Evictions:  s.evictions.Load(),
		EntryCount: s.lru.Len(),
		Weight:     s.weight,
		Capacity:   s.capacity,
	}
}

// Len returns the current number of live entries (expired-but-not-yet-swept
// entries still count until Get or Sweep reaps them).
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
