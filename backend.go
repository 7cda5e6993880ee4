package objcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devmesh-labs/objcache/internal/ttlstore"
	"github.com/devmesh-labs/objcache/observability"
)

// GetResult is the tagged outcome of a Get: Found distinguishes a cache
// answer from a miss, and Negative distinguishes a negative entry from a
// decoded object -- by tag, never by inspecting Obj's byte content.
type GetResult struct {
	Obj      Obj
	Negative bool
	Found    bool
}

// GetReferenceResult is GetResult's reference-side equivalent.
type GetReferenceResult struct {
	Reference Reference
	Negative  bool
	Found     bool
}

// Backend exposes the cache's public operations, all scoped by
// RepositoryId, plus Wrap to obtain a coherent caching Persist adapter.
type Backend interface {
	Get(ctx context.Context, repo RepositoryId, id ObjId) (GetResult, error)
	Put(ctx context.Context, repo RepositoryId, obj Obj) error
	PutLocal(ctx context.Context, repo RepositoryId, obj Obj) error
	PutNegative(ctx context.Context, repo RepositoryId, id ObjId, kind Kind) error
	Remove(ctx context.Context, repo RepositoryId, id ObjId) error
	// RemoveLocal evicts an entry without notifying peers. Invalidation
	// subscribers use it to apply a peer's message without echoing it
	// back out.
	RemoveLocal(ctx context.Context, repo RepositoryId, id ObjId) error
	Clear(ctx context.Context, repo RepositoryId) error

	GetReference(ctx context.Context, repo RepositoryId, name string) (GetReferenceResult, error)
	PutReference(ctx context.Context, repo RepositoryId, ref Reference) error
	PutReferenceLocal(ctx context.Context, repo RepositoryId, ref Reference) error
	PutReferenceNegative(ctx context.Context, repo RepositoryId, name string) error
	RemoveReference(ctx context.Context, repo RepositoryId, name string) error
	// RemoveReferenceLocal is RemoveLocal's reference-side equivalent.
	RemoveReferenceLocal(ctx context.Context, repo RepositoryId, name string) error

	Wrap(persist Persist) Persist

	Stats() Stats

	// Close stops the background janitor. Safe to call more than once or
	// not at all; it does not affect any in-flight cache operation.
	Close()
}

type cacheBackend struct {
	store       *ttlstore.Store[cacheKey, cacheValue]
	codec       Codec
	refTtl      time.Duration
	refNegTtl   time.Duration
	clock       func() int64
	invalidator Invalidator
	meter       observability.MetricsClient
	logger      observability.Logger

	closeOnce   sync.Once
	janitorStop chan struct{}
}

// NewBackend constructs a Backend over codec using cfg. Each unset optional
// Config field is given a default (see Config.withDefaults).
func NewBackend(codec Codec, cfg *Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	b := &cacheBackend{
		codec:       codec,
		refTtl:      cfg.ReferenceTtl,
		refNegTtl:   cfg.ReferenceNegativeTtl,
		clock:       cfg.ClockNanos,
		invalidator: cfg.Invalidator,
		meter:       cfg.Meter,
		logger:      cfg.Logger,
		janitorStop: make(chan struct{}),
	}
	b.store = ttlstore.New[cacheKey, cacheValue](cfg.capacityBytes(), weigh, cfg.ClockNanos)
	b.meter.RecordGauge("cache_capacity_bytes", float64(cfg.capacityBytes()), nil)

	if cfg.JanitorInterval > 0 {
		go b.runJanitor(cfg.JanitorInterval)
	}
	return b, nil
}

func (b *cacheBackend) runJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastEvictions int64
	for {
		select {
		case <-ticker.C:
			swept := b.store.Sweep()
			if swept > 0 {
				b.logger.Debug("swept expired cache entries", map[string]interface{}{"count": swept})
			}
			st := b.store.Stats()
			if delta := st.Evictions - lastEvictions; delta > 0 {
				b.meter.RecordCounter("cache_evictions_total", float64(delta), nil)
				lastEvictions = st.Evictions
			}
			b.meter.RecordGauge("cache_weight_bytes", float64(st.Weight), nil)
		case <-b.janitorStop:
			return
		}
	}
}

func (b *cacheBackend) Close() {
	b.closeOnce.Do(func() { close(b.janitorStop) })
}

func (b *cacheBackend) recordGet(repo RepositoryId, found bool) {
	labels := map[string]string{"repository": string(repo)}
	if found {
		b.meter.RecordCounter("cache_hits_total", 1, labels)
	} else {
		b.meter.RecordCounter("cache_misses_total", 1, labels)
	}
}

// Get implements Backend.
func (b *cacheBackend) Get(_ context.Context, repo RepositoryId, id ObjId) (GetResult, error) {
	key := cacheKey{repo: repo, id: id}
	v, ok := b.store.Get(key)
	b.recordGet(repo, ok)
	if !ok {
		return GetResult{}, nil
	}
	if v.negative {
		return GetResult{Negative: true, Found: true}, nil
	}
	obj, err := b.codec.DeserializeObj(id, 0, v.data, nil)
	if err != nil {
		return GetResult{}, fmt.Errorf("objcache: decode object %s: %w", id, err)
	}
	return GetResult{Obj: obj, Found: true}, nil
}

// Put implements Backend: PutLocal plus a peer invalidation.
func (b *cacheBackend) Put(ctx context.Context, repo RepositoryId, obj Obj) error {
	if err := b.PutLocal(ctx, repo, obj); err != nil {
		return err
	}
	b.invalidator.InvalidateObj(repo, obj.Id)
	return nil
}

// PutLocal implements Backend. It never invalidates peers.
func (b *cacheBackend) PutLocal(_ context.Context, repo RepositoryId, obj Obj) error {
	nowMicros := b.clock() / 1000
	exp := obj.Kind.PositiveExpiresAt(obj, nowMicros)
	if exp == NotCached {
		return nil
	}
	data, err := b.codec.SerializeObj(obj)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	key := cacheKey{repo: repo, id: obj.Id}
	b.store.Put(key, cacheValue{data: data}, microsToNanos(exp))
	return nil
}

// PutNegative implements Backend.
func (b *cacheBackend) PutNegative(ctx context.Context, repo RepositoryId, id ObjId, kind Kind) error {
	nowMicros := b.clock() / 1000
	exp := kind.NegativeExpiresAt(nowMicros)
	if exp == NotCached {
		return b.Remove(ctx, repo, id)
	}
	key := cacheKey{repo: repo, id: id}
	b.store.Put(key, cacheValue{negative: true}, microsToNanos(exp))
	return nil
}

// Remove implements Backend: invalidates the entry and notifies peers.
func (b *cacheBackend) Remove(_ context.Context, repo RepositoryId, id ObjId) error {
	b.store.Remove(cacheKey{repo: repo, id: id})
	b.invalidator.InvalidateObj(repo, id)
	return nil
}

// RemoveLocal implements Backend. It never invalidates peers.
func (b *cacheBackend) RemoveLocal(_ context.Context, repo RepositoryId, id ObjId) error {
	b.store.Remove(cacheKey{repo: repo, id: id})
	return nil
}

// Clear implements Backend. It only ever touches repo's own keys and never
// emits a peer invalidation -- clearing is a purely local operational
// action (e.g. administrative cache reset), not a data-coherence event.
func (b *cacheBackend) Clear(_ context.Context, repo RepositoryId) error {
	b.store.RemoveWhere(func(k cacheKey) bool { return k.repo == repo })
	return nil
}

// Stats implements Backend.
func (b *cacheBackend) Stats() Stats {
	s := b.store.Stats()
	return Stats{
		Hits:          s.Hits,
		Misses:        s.Misses,
		Evictions:     s.Evictions,
		EntryCount:    s.EntryCount,
		WeightBytes:   s.Weight,
		CapacityBytes: s.Capacity,
	}
}
