package objcache

// Reference is a mutable named pointer (branch/tag) within a repository.
type Reference struct {
	Name       string
	PointerId  ObjId
	Deleted    bool
	Generation int64
	Extended   []byte // opaque, codec-defined extra info
}

// referencePrefix marks a reference's derived object-id so it shares the
// cache's single keyspace with objects without ever colliding with a
// content hash, which has a fixed non-textual form (spec invariant: a
// repository's reference and object namespaces never collide).
const referencePrefix = "r:"

// refObjId derives the object-id keyspace slot a reference occupies.
func refObjId(name string) ObjId {
	buf := make([]byte, 0, len(referencePrefix)+len(name))
	buf = append(buf, referencePrefix...)
	buf = append(buf, name...)
	return NewObjId(buf)
}
