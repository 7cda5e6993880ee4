package objcache

// Obj is an opaque, content-addressed object as seen by the cache. The
// cache never interprets Payload -- only Kind (for policy lookup) and Id
// (for keying); Payload is produced and consumed entirely by Codec.
type Obj struct {
	Kind    Kind
	Id      ObjId
	Payload interface{}
}
