package objcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// fakeClock is an injectable nanosecond clock for deterministic expiry
// tests: Advance moves it forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func (c *fakeClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// fakeInvalidator records every call it receives, so tests can assert
// exactly which operations emit a peer invalidation and which don't.
type fakeInvalidator struct {
	mu             sync.Mutex
	objCalls       []string // "repo/id"
	referenceCalls []string // "repo/name"
}

func (f *fakeInvalidator) InvalidateObj(repo RepositoryId, id ObjId) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objCalls = append(f.objCalls, string(repo)+"/"+id.String())
}

func (f *fakeInvalidator) InvalidateReference(repo RepositoryId, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.referenceCalls = append(f.referenceCalls, string(repo)+"/"+name)
}

func (f *fakeInvalidator) ObjCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objCalls)
}

func (f *fakeInvalidator) ReferenceCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.referenceCalls)
}

// fakeKind is a configurable Kind whose expiry callbacks add a fixed TTL
// field to the current time, so each test can describe exactly the policy
// it needs without a combinatorial set of named Kind types.
type fakeKind struct {
	positiveTtlMicros int64 // added to nowMicros; Unlimited/NotCached pass through
	negativeTtlMicros int64
}

func (k fakeKind) PositiveExpiresAt(_ Obj, nowMicros int64) int64 {
	if k.positiveTtlMicros == Unlimited || k.positiveTtlMicros == NotCached {
		return k.positiveTtlMicros
	}
	return nowMicros + k.positiveTtlMicros
}

func (k fakeKind) NegativeExpiresAt(nowMicros int64) int64 {
	if k.negativeTtlMicros == Unlimited || k.negativeTtlMicros == NotCached {
		return k.negativeTtlMicros
	}
	return nowMicros + k.negativeTtlMicros
}

// fakeCodec serializes a payload of type []byte (or string) verbatim and
// references as JSON. It fails only on any other payload type or when
// forceSerializeErr / forceDeserializeErr is set.
type fakeCodec struct {
	forceSerializeErr   error
	forceDeserializeErr error
}

func (c *fakeCodec) SerializeObj(obj Obj) ([]byte, error) {
	if c.forceSerializeErr != nil {
		return nil, c.forceSerializeErr
	}
	switch p := obj.Payload.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		return nil, fmt.Errorf("fakeCodec: unsupported payload type %T", p)
	}
}

func (c *fakeCodec) DeserializeObj(id ObjId, _ int64, data []byte, hint Kind) (Obj, error) {
	if c.forceDeserializeErr != nil {
		return Obj{}, c.forceDeserializeErr
	}
	return Obj{Id: id, Kind: hint, Payload: append([]byte(nil), data...)}, nil
}

// wireReference is Reference with PointerId rendered as hex: ObjId has no
// exported fields, so encoding/json would otherwise drop it.
type wireReference struct {
	Name       string
	PointerId  string
	Deleted    bool
	Generation int64
	Extended   []byte
}

func (c *fakeCodec) SerializeReference(ref Reference) ([]byte, error) {
	if c.forceSerializeErr != nil {
		return nil, c.forceSerializeErr
	}
	return json.Marshal(wireReference{Name: ref.Name, PointerId: ref.PointerId.String(), Deleted: ref.Deleted, Generation: ref.Generation, Extended: ref.Extended})
}

func (c *fakeCodec) DeserializeReference(data []byte) (Reference, error) {
	if c.forceDeserializeErr != nil {
		return Reference{}, c.forceDeserializeErr
	}
	var w wireReference
	if err := json.Unmarshal(data, &w); err != nil {
		return Reference{}, err
	}
	id, err := ParseObjIdHex(w.PointerId)
	if err != nil {
		return Reference{}, err
	}
	return Reference{Name: w.Name, PointerId: id, Deleted: w.Deleted, Generation: w.Generation, Extended: w.Extended}, nil
}

// fakePersist is an in-memory Persist stand-in recording call counts so
// tests can assert the adapter only reaches the backing store on a cache
// miss.
type fakePersist struct {
	mu sync.Mutex

	objs  map[string]Obj
	refs  map[string]Reference
	calls map[string]int
}

func newFakePersist() *fakePersist {
	return &fakePersist{
		objs:  map[string]Obj{},
		refs:  map[string]Reference{},
		calls: map[string]int{},
	}
}

func (p *fakePersist) objKey(repo RepositoryId, id ObjId) string {
	return string(repo) + "/" + id.String()
}

func (p *fakePersist) count(name string) {
	p.calls[name]++
}

func (p *fakePersist) CallCount(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

func (p *fakePersist) Seed(repo RepositoryId, obj Obj) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objs[p.objKey(repo, obj.Id)] = obj
}

func (p *fakePersist) SeedReference(repo RepositoryId, ref Reference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs[string(repo)+"/"+ref.Name] = ref
}

func (p *fakePersist) GetObj(_ context.Context, repo RepositoryId, id ObjId, kind Kind) (Obj, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("GetObj")
	obj, ok := p.objs[p.objKey(repo, id)]
	if !ok {
		return Obj{}, ErrObjNotFound
	}
	obj.Kind = kind
	return obj, nil
}

func (p *fakePersist) GetObjs(ctx context.Context, repo RepositoryId, ids []ObjId, kinds []Kind) ([]Obj, []error) {
	p.mu.Lock()
	p.count("GetObjs")
	p.mu.Unlock()

	objs := make([]Obj, len(ids))
	errs := make([]error, len(ids))
	for i, id := range ids {
		obj, err := p.GetObj(ctx, repo, id, kinds[i])
		objs[i] = obj
		errs[i] = err
	}
	return objs, errs
}

func (p *fakePersist) WriteObj(_ context.Context, repo RepositoryId, obj Obj) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("WriteObj")
	p.objs[p.objKey(repo, obj.Id)] = obj
	return nil
}

func (p *fakePersist) DeleteObj(_ context.Context, repo RepositoryId, id ObjId) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("DeleteObj")
	delete(p.objs, p.objKey(repo, id))
	return nil
}

func (p *fakePersist) FindReference(_ context.Context, repo RepositoryId, name string) (Reference, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("FindReference")
	ref, ok := p.refs[string(repo)+"/"+name]
	if !ok {
		return Reference{}, ErrReferenceNotFound
	}
	return ref, nil
}

func (p *fakePersist) WriteReference(_ context.Context, repo RepositoryId, ref Reference) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("WriteReference")
	p.refs[string(repo)+"/"+ref.Name] = ref
	return nil
}

func (p *fakePersist) UpdateReference(_ context.Context, repo RepositoryId, ref Reference) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("UpdateReference")
	p.refs[string(repo)+"/"+ref.Name] = ref
	return nil
}

func (p *fakePersist) DeleteReference(_ context.Context, repo RepositoryId, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count("DeleteReference")
	delete(p.refs, string(repo)+"/"+name)
	return nil
}

// newTestBackend builds a cacheBackend with a fakeClock and no janitor, so
// tests control expiry deterministically and don't race a background
// goroutine's sweep.
func newTestBackend(capacityMb int64) (Backend, *fakeClock) {
	clk := &fakeClock{}
	b, err := NewBackend(&fakeCodec{}, &Config{
		CapacityMb:      capacityMb,
		ReferenceTtl:    0,
		ClockNanos:      clk.Now,
		JanitorInterval: -1,
	})
	if err != nil {
		panic(err)
	}
	return b, clk
}

// newTestBackendWithInvalidator is newTestBackend plus a positive
// ReferenceTtl (so reference writes actually reach the store) and a spy
// Invalidator tests can inspect.
func newTestBackendWithInvalidator(capacityMb int64) (Backend, *fakeClock, *fakeInvalidator) {
	clk := &fakeClock{}
	inv := &fakeInvalidator{}
	b, err := NewBackend(&fakeCodec{}, &Config{
		CapacityMb:           capacityMb,
		ReferenceTtl:         30_000_000_000, // 30s in nanoseconds, avoids importing time here
		ReferenceNegativeTtl: 30_000_000_000,
		ClockNanos:           clk.Now,
		Invalidator:          inv,
		JanitorInterval:      -1,
	})
	if err != nil {
		panic(err)
	}
	return b, clk, inv
}
