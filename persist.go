package objcache

import "context"

// Persist is the persistence collaborator the cache wraps. Its "not found"
// semantics are per-operation: GetObj/GetObjs should return (or wrap)
// ErrObjNotFound, and FindReference should return (or wrap)
// ErrReferenceNotFound, so the caching adapter can distinguish "not found"
// from any other failure and populate negative cache entries accordingly.
//
// kind is passed alongside an object id on every read because the codec
// needs to know what to decode the stored bytes into, and because
// PutNegative (spec §4.2) needs a Kind to consult its negative-TTL policy;
// the caller already knows what kind of object it's asking for.
type Persist interface {
	GetObj(ctx context.Context, repo RepositoryId, id ObjId, kind Kind) (Obj, error)
	// GetObjs preserves the input ordering and supports partial results:
	// errs[i] is nil iff objs[i] is valid.
	GetObjs(ctx context.Context, repo RepositoryId, ids []ObjId, kinds []Kind) (objs []Obj, errs []error)
	WriteObj(ctx context.Context, repo RepositoryId, obj Obj) error
	DeleteObj(ctx context.Context, repo RepositoryId, id ObjId) error

	FindReference(ctx context.Context, repo RepositoryId, name string) (Reference, error)
	WriteReference(ctx context.Context, repo RepositoryId, ref Reference) error
	UpdateReference(ctx context.Context, repo RepositoryId, ref Reference) error
	DeleteReference(ctx context.Context, repo RepositoryId, name string) error
}
