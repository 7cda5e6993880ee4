package objcache

import (
	"context"
	"fmt"
)

// referenceTtlEnabled reports whether the positive reference sub-cache is
// active. A zero or negative ReferenceTtl disables it entirely: reads
// always miss and writes are no-ops (spec §4.2 "Reference TTL rule").
func (b *cacheBackend) referenceTtlEnabled() bool { return b.refTtl > 0 }

// GetReference implements Backend.
func (b *cacheBackend) GetReference(_ context.Context, repo RepositoryId, name string) (GetReferenceResult, error) {
	if !b.referenceTtlEnabled() {
		return GetReferenceResult{}, nil
	}
	key := cacheKey{repo: repo, id: refObjId(name)}
	v, ok := b.store.Get(key)
	b.recordGet(repo, ok)
	if !ok {
		return GetReferenceResult{}, nil
	}
	if v.negative {
		return GetReferenceResult{Negative: true, Found: true}, nil
	}
	ref, err := b.codec.DeserializeReference(v.data)
	if err != nil {
		return GetReferenceResult{}, fmt.Errorf("objcache: decode reference %q: %w", name, err)
	}
	return GetReferenceResult{Reference: ref, Found: true}, nil
}

// PutReference implements Backend: PutReferenceLocal plus a peer
// invalidation.
func (b *cacheBackend) PutReference(ctx context.Context, repo RepositoryId, ref Reference) error {
	if err := b.PutReferenceLocal(ctx, repo, ref); err != nil {
		return err
	}
	b.invalidator.InvalidateReference(repo, ref.Name)
	return nil
}

// PutReferenceLocal implements Backend. It never invalidates peers.
func (b *cacheBackend) PutReferenceLocal(_ context.Context, repo RepositoryId, ref Reference) error {
	if !b.referenceTtlEnabled() {
		return nil
	}
	data, err := b.codec.SerializeReference(ref)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	key := cacheKey{repo: repo, id: refObjId(ref.Name)}
	b.store.Put(key, cacheValue{data: data}, b.clock()+b.refTtl.Nanoseconds())
	return nil
}

// PutReferenceNegative implements Backend.
func (b *cacheBackend) PutReferenceNegative(_ context.Context, repo RepositoryId, name string) error {
	if b.refNegTtl <= 0 {
		return nil
	}
	key := cacheKey{repo: repo, id: refObjId(name)}
	b.store.Put(key, cacheValue{negative: true}, b.clock()+b.refNegTtl.Nanoseconds())
	return nil
}

// RemoveReference implements Backend: invalidates the entry and notifies
// peers.
func (b *cacheBackend) RemoveReference(_ context.Context, repo RepositoryId, name string) error {
	if !b.referenceTtlEnabled() {
		return nil
	}
	b.store.Remove(cacheKey{repo: repo, id: refObjId(name)})
	b.invalidator.InvalidateReference(repo, name)
	return nil
}

// RemoveReferenceLocal implements Backend. It never invalidates peers.
func (b *cacheBackend) RemoveReferenceLocal(_ context.Context, repo RepositoryId, name string) error {
	if !b.referenceTtlEnabled() {
		return nil
	}
	b.store.Remove(cacheKey{repo: repo, id: refObjId(name)})
	return nil
}
