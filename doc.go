// Package objcache implements the object/reference cache layer that sits
// between a version-control repository layer and an underlying persistent
// store. It caches immutable, content-addressed objects and mutable named
// references (branches, tags) belonging to one of several logical
// repositories sharing a single process.
//
// # Overview
//
// The cache bounds heap usage by bytes rather than entry count, applies
// per-object-kind TTL policies supplied by the object's Kind, encodes
// negative ("not found") lookups distinctly from misses, multiplexes many
// independent repositories over one shared cache, and wraps a Persist
// implementation so reads are served from the cache and writes keep it
// coherent.
//
// # Architecture
//
//  1. internal/ttlstore: a weighted, per-entry-TTL associative store.
//  2. Backend: the public cache operations (Get/Put/PutLocal/PutNegative/
//     Remove/Clear and their reference equivalents), sentinel translation,
//     and the peer-invalidation hook.
//  3. The caching Persist returned by Backend.Wrap: the coherence boundary --
//     the only component that calls both the cache and the wrapped Persist.
//  4. NewNoopBackend: a degenerate Backend used when caching is disabled.
//
// Basic usage:
//
//	backend, err := objcache.NewBackend(codec, &objcache.Config{
//		CapacityMb:   256,
//		ReferenceTtl: 30 * time.Second,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer backend.Close()
//
//	persist = backend.Wrap(persist)
package objcache
