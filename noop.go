package objcache

import "context"

// noopBackend is the degenerate Backend used when caching is
// administratively disabled, so callers never have to branch on whether
// caching is on.
type noopBackend struct{}

// NewNoopBackend returns the shared no-op Backend: every Get variant
// reports a miss, every write is a no-op, and Wrap returns its argument
// unchanged.
func NewNoopBackend() Backend { return noopBackend{} }

func (noopBackend) Get(context.Context, RepositoryId, ObjId) (GetResult, error) {
	return GetResult{}, nil
}
func (noopBackend) Put(context.Context, RepositoryId, Obj) error                   { return nil }
func (noopBackend) PutLocal(context.Context, RepositoryId, Obj) error              { return nil }
func (noopBackend) PutNegative(context.Context, RepositoryId, ObjId, Kind) error    { return nil }
func (noopBackend) Remove(context.Context, RepositoryId, ObjId) error              { return nil }
func (noopBackend) RemoveLocal(context.Context, RepositoryId, ObjId) error         { return nil }
func (noopBackend) Clear(context.Context, RepositoryId) error                      { return nil }

func (noopBackend) GetReference(context.Context, RepositoryId, string) (GetReferenceResult, error) {
	return GetReferenceResult{}, nil
}
func (noopBackend) PutReference(context.Context, RepositoryId, Reference) error      { return nil }
func (noopBackend) PutReferenceLocal(context.Context, RepositoryId, Reference) error { return nil }
func (noopBackend) PutReferenceNegative(context.Context, RepositoryId, string) error { return nil }
func (noopBackend) RemoveReference(context.Context, RepositoryId, string) error      { return nil }
func (noopBackend) RemoveReferenceLocal(context.Context, RepositoryId, string) error { return nil }

func (noopBackend) Wrap(persist Persist) Persist { return persist }
func (noopBackend) Stats() Stats                 { return Stats{} }
func (noopBackend) Close()                       {}
