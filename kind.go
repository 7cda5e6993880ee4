package objcache

import "math"

// Expiry sentinel values returned by a Kind's policy callbacks. Unlimited
// means "never expire"; NotCached means "do not cache" (a positive NotCached
// leaves the cache untouched; a negative NotCached removes any existing
// entry for the id).
const (
	Unlimited int64 = math.MaxInt64
	NotCached int64 = math.MinInt64
)

// Kind supplies the per-object-kind caching policy. It is the only source
// of object-specific policy the cache consults; implementations are
// ordinary values (enum-like constants, or richer types), never a global
// registry the cache has to know about.
type Kind interface {
	// PositiveExpiresAt returns the absolute expiry, in microseconds, for a
	// live object of this kind, or Unlimited / NotCached.
	PositiveExpiresAt(obj Obj, nowMicros int64) int64
	// NegativeExpiresAt returns the absolute expiry, in microseconds, for a
	// negative ("not found") entry of this kind, or Unlimited / NotCached.
	NegativeExpiresAt(nowMicros int64) int64
}

// microsToNanos converts a microsecond absolute time to nanoseconds,
// clamping the two sentinel values through unchanged rather than scaling
// them (scaling Unlimited by 1000 would overflow int64).
func microsToNanos(t int64) int64 {
	switch t {
	case Unlimited, NotCached:
		return t
	default:
		return t * 1000
	}
}
