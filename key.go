package objcache

import (
	"encoding/hex"
	"fmt"
)

// RepositoryId identifies the tenant namespace a cache entry belongs to.
// The empty string is a valid, distinct tenant -- isolation is by identity,
// not by non-emptiness.
type RepositoryId string

// objIdOverhead approximates the fixed per-ObjId bookkeeping cost (struct
// header, string header) distinct from its payload length. Like the rest of
// the weigher's constants, this is a tuning value, not a correctness one.
const objIdOverhead = 24

// ObjId is an opaque content hash. Equality is by byte content; the zero
// value is a valid (if useless) id of zero bytes.
type ObjId struct {
	raw string
}

// NewObjId wraps raw content-hash bytes as an ObjId.
func NewObjId(raw []byte) ObjId {
	return ObjId{raw: string(raw)}
}

// ParseObjIdHex reconstructs an ObjId from the hex string produced by
// String, e.g. when decoding a wire message that named an id by its
// rendered form.
func ParseObjIdHex(s string) (ObjId, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ObjId{}, fmt.Errorf("objcache: invalid object id %q: %w", s, err)
	}
	return ObjId{raw: string(raw)}, nil
}

// Bytes returns the identifier's raw bytes.
func (o ObjId) Bytes() []byte { return []byte(o.raw) }

// String renders the identifier as hex, for logging and error messages.
func (o ObjId) String() string { return hex.EncodeToString([]byte(o.raw)) }

// HeapSize estimates the identifier's contribution to a cache entry's
// weight.
func (o ObjId) HeapSize() int64 { return int64(len(o.raw)) + objIdOverhead }

// cacheKey is the backing store's key type. Equality and hashing are
// (repo, id) only -- never an entry's expiry, which the store tracks in its
// value record instead of fusing onto the key (see DESIGN.md: fused vs.
// separate key/value layout).
type cacheKey struct {
	repo RepositoryId
	id   ObjId
}

// cacheValue is the store's value type: either an opaque encoded payload or
// the negative sentinel, distinguished by the negative tag rather than by
// byte content.
type cacheValue struct {
	negative bool
	data     []byte
}

// Weigher bookkeeping constants -- tuning values, not correctness values.
const (
	keyOverhead   = 40
	entryOverhead = 56
)

// weigh computes the estimated byte cost of a (key, value) pair: key-object
// overhead + repository-id string size + id heap size + value-blob
// overhead + a fixed bookkeeping constant.
func weigh(key cacheKey, value cacheValue) int64 {
	w := int64(keyOverhead) + int64(len(key.repo)) + key.id.HeapSize() + int64(entryOverhead)
	if value.negative {
		w += int64(len(negativeSentinel))
	} else {
		w += int64(len(value.data))
	}
	return w
}
