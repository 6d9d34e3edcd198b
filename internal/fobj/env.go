package fobj

import (
	"fmt"
	"strings"
)

// Env is one interpreter environment: an object pool, its fixed root set, and
// the hold stack. Envs share nothing; a Ref from one Env must never be used
// with another. An Env is not safe for concurrent use.
type Env struct {
	logging
	mem   pool
	roots [numRoots]Ref

	capacity   int
	strict     bool
	arrayLimit int

	prev  bitmap // previously-allocated set, reused across collections
	gray  []uint32
	stats Stats

	printing map[Ref]struct{} // refs whose print hook is running
}

// Stats are per-Env allocator and collector counters.
type Stats struct {
	Capacity int
	Live     int
	Free     int

	Allocs      uint64
	Collections uint64
	Reclaimed   uint64
	Retains     uint64
	Releases    uint64

	HoldDepth     int
	HoldHighWater int
}

func (st Stats) String() string {
	return fmt.Sprintf(
		"live:%v/%v free:%v allocs:%v collections:%v reclaimed:%v retains:%v releases:%v hold:%v hold-max:%v",
		st.Live, st.Capacity, st.Free,
		st.Allocs, st.Collections, st.Reclaimed,
		st.Retains, st.Releases,
		st.HoldDepth, st.HoldHighWater)
}

// New creates an Env and allocates its standing roots: the data and return
// stacks, the words and new-words tables, and the hold stack.
func New(opts ...EnvOption) (*Env, error) {
	env := &Env{}
	EnvOptions(defaultEnvOptions, EnvOptions(opts...)).apply(env)
	if env.capacity <= 0 || env.capacity > MaxCapacity {
		return nil, fmt.Errorf("invalid pool capacity %v, must be in [1, %v]", env.capacity, MaxCapacity)
	}
	env.mem.init(env.capacity)
	env.prev = newBitmap(env.mem.capacity())

	for _, rt := range []struct {
		root Root
		typ  Type
	}{
		{RootHold, TypeStack},
		{RootDataStack, TypeStack},
		{RootReturnStack, TypeStack},
		{RootWords, TypeTable},
		{RootNewWords, TypeTable},
	} {
		ref, err := env.Alloc(rt.typ)
		if err != nil {
			return nil, fmt.Errorf("unable to allocate %v: %w", rt.root, err)
		}
		env.roots[rt.root] = ref
	}
	return env, nil
}

// Capacity returns the fixed number of slots in the pool.
func (env *Env) Capacity() int { return env.mem.capacity() }

// Stats returns a snapshot of the Env's counters.
func (env *Env) Stats() Stats {
	st := env.stats
	st.Capacity = env.mem.capacity()
	st.Free = env.mem.nfree
	st.Live = env.mem.used()
	if hold, err := Deref[*Stack](env, env.roots[RootHold]); err == nil {
		st.HoldDepth = len(hold.items)
	}
	return st
}

// Alloc returns a new zero object of type t. When the pool is exhausted (or
// before every allocation in strict mode) a collection runs first, so any Ref
// the caller has not rooted or held may be reclaimed by this call.
func (env *Env) Alloc(t Type) (Ref, error) {
	p := newPayload(t)
	if p == nil {
		invariant("allocating invalid %v", t)
	}
	return env.alloc(p)
}

func (env *Env) alloc(p Payload) (Ref, error) {
	if env.strict || env.mem.nfree == 0 {
		env.Collect()
	}
	if env.mem.nfree == 0 {
		env.logf("alloc", "exhausted allocating %v", p.Type())
		return Nil, Errorf(CodeExhausted, "out of memory allocating a new %v (%v slots all reachable)",
			p.Type(), env.mem.capacity())
	}
	ref := env.mem.take(p)
	env.stats.Allocs++
	return ref, nil
}

// Get returns the payload of a live, current ref.
func (env *Env) Get(ref Ref) (Payload, error) {
	s, err := env.mem.lookup(ref)
	if err != nil {
		return nil, err
	}
	return s.obj, nil
}

// TypeOf returns the type of ref, or TypeInvalid for Nil and stale refs.
func (env *Env) TypeOf(ref Ref) Type {
	if p, err := env.Get(ref); err == nil {
		return p.Type()
	}
	return TypeInvalid
}

// Valid returns true if ref is Nil or addresses a live object.
func (env *Env) Valid(ref Ref) bool {
	if ref.IsNil() {
		return true
	}
	_, err := env.mem.lookup(ref)
	return err == nil
}

// Owners returns how many container entries currently own ref.
func (env *Env) Owners(ref Ref) int {
	if s, err := env.mem.lookup(ref); err == nil {
		return s.owners
	}
	return 0
}

// retain records one more owning entry for ref. Ownership is bookkeeping
// only: reclamation is decided by the collector alone.
func (env *Env) retain(ref Ref) Ref {
	if ref.IsNil() {
		return ref
	}
	s, err := env.mem.lookup(ref)
	if err != nil {
		invariant("retaining %v: %v", ref, err)
	}
	s.owners++
	env.stats.Retains++
	return ref
}

// release drops one owning entry for ref.
func (env *Env) release(ref Ref) {
	if ref.IsNil() {
		return
	}
	s, err := env.mem.lookup(ref)
	if err != nil {
		invariant("releasing %v: %v", ref, err)
	}
	if s.owners <= 0 {
		invariant("releasing unowned %v %v", s.obj.Type(), ref)
	}
	s.owners--
	env.stats.Releases++
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(" ", n) + mark
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
