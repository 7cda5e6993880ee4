package objcache

// Invalidator is the best-effort, one-way peer-invalidation hook. Put,
// Remove, PutReference, and RemoveReference call it after the local
// mutation has become visible; their "Local" counterparts never call it.
// The transport is an external collaborator -- see package invalidation
// for a Redis pub/sub based implementation -- so objcache itself only
// depends on this interface.
type Invalidator interface {
	InvalidateObj(repo RepositoryId, id ObjId)
	InvalidateReference(repo RepositoryId, name string)
}

// NoopInvalidator discards every invalidation. It is the default when a
// Config does not supply one, appropriate for a single-process cache with
// no peers to notify.
type NoopInvalidator struct{}

func (NoopInvalidator) InvalidateObj(RepositoryId, ObjId)          {}
func (NoopInvalidator) InvalidateReference(RepositoryId, string)   {}
