package objcache

// Codec is the external serialization boundary between the cache and the
// byte-level wire format of objects and references. The cache treats its
// outputs as opaque and never inspects them.
//
// DeserializeObj's generation argument is passed as 0 on every cache hit
// (see DESIGN.md): the cache has no generation of its own to offer, and the
// codec is expected to recover the real generation, if any, from the
// payload itself. hint may be nil; callers that already know the kind of
// the object they're asking for may supply it to help the codec pick a
// decoder, but a codec capable of self-describing its payloads does not
// need it.
type Codec interface {
	SerializeObj(obj Obj) ([]byte, error)
	DeserializeObj(id ObjId, generation int64, data []byte, hint Kind) (Obj, error)

	SerializeReference(ref Reference) ([]byte, error)
	DeserializeReference(data []byte) (Reference, error)
}
