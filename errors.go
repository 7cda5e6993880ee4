package objcache

import "errors"

var (
	// ErrObjNotFound is the sentinel a Persist implementation returns (or
	// wraps, so errors.Is still matches) when an object id has no entry in
	// the underlying store. The caching adapter converts a negative cache
	// hit into this same error so callers observe identical semantics
	// whether the answer came from the cache or the store.
	ErrObjNotFound = errors.New("objcache: object not found")

	// ErrReferenceNotFound is ErrObjNotFound's reference-side equivalent.
	ErrReferenceNotFound = errors.New("objcache: reference not found")

	// ErrEncodingFailed wraps a Codec failure on the write path. Per spec
	// this should not happen in practice -- buffer limits are expected to
	// be generous -- so it surfaces as an unrecoverable internal error
	// rather than anything the cache retries or papers over.
	ErrEncodingFailed = errors.New("objcache: encoding failed")
)
