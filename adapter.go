package objcache

import (
	"context"
	"errors"
)

// cachingPersist wraps a Persist, intercepting every operation to consult
// or update the Backend. It is the only component that calls both the
// cache and the underlying persistence; it is the coherence boundary.
type cachingPersist struct {
	backend Backend
	persist Persist
}

// Wrap implements Backend.
func (b *cacheBackend) Wrap(persist Persist) Persist {
	return &cachingPersist{backend: b, persist: persist}
}

func (c *cachingPersist) GetObj(ctx context.Context, repo RepositoryId, id ObjId, kind Kind) (Obj, error) {
	res, err := c.backend.Get(ctx, repo, id)
	if err != nil {
		return Obj{}, err
	}
	if res.Found {
		if res.Negative {
			return Obj{}, ErrObjNotFound
		}
		return res.Obj, nil
	}

	obj, err := c.persist.GetObj(ctx, repo, id, kind)
	if err != nil {
		if errors.Is(err, ErrObjNotFound) {
			_ = c.backend.PutNegative(ctx, repo, id, kind)
		}
		return Obj{}, err
	}
	_ = c.backend.PutLocal(ctx, repo, obj)
	return obj, nil
}

func (c *cachingPersist) GetObjs(ctx context.Context, repo RepositoryId, ids []ObjId, kinds []Kind) ([]Obj, []error) {
	objs := make([]Obj, len(ids))
	errs := make([]error, len(ids))

	var missIdx []int
	for i, id := range ids {
		res, err := c.backend.Get(ctx, repo, id)
		switch {
		case err != nil:
			errs[i] = err
		case res.Found && res.Negative:
			errs[i] = ErrObjNotFound
		case res.Found:
			objs[i] = res.Obj
		default:
			missIdx = append(missIdx, i)
		}
	}
	if len(missIdx) == 0 {
		return objs, errs
	}

	missIds := make([]ObjId, len(missIdx))
	missKinds := make([]Kind, len(missIdx))
	for j, i := range missIdx {
		missIds[j] = ids[i]
		missKinds[j] = kinds[i]
	}

	loaded, loadErrs := c.persist.GetObjs(ctx, repo, missIds, missKinds)
	for j, i := range missIdx {
		if loadErrs[j] != nil {
			errs[i] = loadErrs[j]
			if errors.Is(loadErrs[j], ErrObjNotFound) {
				_ = c.backend.PutNegative(ctx, repo, ids[i], kinds[i])
			}
			continue
		}
		objs[i] = loaded[j]
		_ = c.backend.PutLocal(ctx, repo, loaded[j])
	}
	return objs, errs
}

func (c *cachingPersist) WriteObj(ctx context.Context, repo RepositoryId, obj Obj) error {
	if err := c.persist.WriteObj(ctx, repo, obj); err != nil {
		return err
	}
	return c.backend.Put(ctx, repo, obj)
}

func (c *cachingPersist) DeleteObj(ctx context.Context, repo RepositoryId, id ObjId) error {
	if err := c.persist.DeleteObj(ctx, repo, id); err != nil {
		return err
	}
	return c.backend.Remove(ctx, repo, id)
}

func (c *cachingPersist) FindReference(ctx context.Context, repo RepositoryId, name string) (Reference, error) {
	res, err := c.backend.GetReference(ctx, repo, name)
	if err != nil {
		return Reference{}, err
	}
	if res.Found {
		if res.Negative {
			return Reference{}, ErrReferenceNotFound
		}
		return res.Reference, nil
	}

	ref, err := c.persist.FindReference(ctx, repo, name)
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			_ = c.backend.PutReferenceNegative(ctx, repo, name)
		}
		return Reference{}, err
	}
	_ = c.backend.PutReferenceLocal(ctx, repo, ref)
	return ref, nil
}

func (c *cachingPersist) WriteReference(ctx context.Context, repo RepositoryId, ref Reference) error {
	if err := c.persist.WriteReference(ctx, repo, ref); err != nil {
		return err
	}
	return c.backend.PutReference(ctx, repo, ref)
}

func (c *cachingPersist) UpdateReference(ctx context.Context, repo RepositoryId, ref Reference) error {
	if err := c.persist.UpdateReference(ctx, repo, ref); err != nil {
		return err
	}
	return c.backend.PutReference(ctx, repo, ref)
}

func (c *cachingPersist) DeleteReference(ctx context.Context, repo RepositoryId, name string) error {
	if err := c.persist.DeleteReference(ctx, repo, name); err != nil {
		return err
	}
	return c.backend.RemoveReference(ctx, repo, name)
}
