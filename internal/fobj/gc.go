package fobj

// Root names one entry of the fixed root set.
type Root int

// The root set, in marking order.
const (
	RootDataStack Root = iota
	RootReturnStack
	RootCompiling
	RootNewWords
	RootWords
	RootInput
	RootRunning
	RootHold

	numRoots
)

var rootNames = [numRoots]string{
	"data stack",
	"return stack",
	"compiling word",
	"new words",
	"words",
	"input",
	"running word",
	"hold stack",
}

func (r Root) String() string {
	if r >= 0 && r < numRoots {
		return rootNames[r]
	}
	return "invalid root"
}

// Roots returns every root, in marking order.
func Roots() []Root {
	roots := make([]Root, numRoots)
	for i := range roots {
		roots[i] = Root(i)
	}
	return roots
}

// Root returns the object currently held by r.
func (env *Env) Root(r Root) Ref {
	if r < 0 || r >= numRoots {
		return Nil
	}
	return env.roots[r]
}

// SetRoot points r at ref, which may be Nil. The hold stack root is fixed.
func (env *Env) SetRoot(r Root, ref Ref) error {
	if r < 0 || r >= numRoots {
		return Errorf(CodeBadIndex, "invalid root %d", int(r))
	}
	if r == RootHold {
		return Errorf(CodeUnsupported, "the hold stack root cannot be replaced")
	}
	if !env.Valid(ref) {
		_, err := env.Get(ref)
		return err
	}
	env.roots[r] = ref
	return nil
}

// Collect runs a full mark and sweep pass, returning how many objects it
// reclaimed. Every object reachable from the root set survives; every other
// allocated object is reclaimed, and any Ref to it becomes stale.
func (env *Env) Collect() int {
	m := &env.mem

	copy(env.prev, m.live)
	m.live.reset()

	for _, ref := range env.roots {
		env.mark(ref)
	}
	env.drain()

	m.live.each(env.prev, func(i int) {
		invariant("slot %v marked without being allocated", i)
	})

	var garbage []int
	env.prev.each(m.live, func(i int) {
		garbage = append(garbage, i)
	})
	// Free hooks only drop ownership; they run before any slot is zeroed so
	// none of them sees a reused child.
	for _, i := range garbage {
		if fr, ok := m.slots[i].obj.(freer); ok {
			fr.free(env)
		}
	}
	for _, i := range garbage {
		m.release(i)
	}

	env.stats.Collections++
	env.stats.Reclaimed += uint64(len(garbage))
	env.logf("gc", "reclaimed %v live %v/%v", len(garbage), m.used(), m.capacity())
	return len(garbage)
}

// mark sets ref's bit and queues it for its visit hook; an already marked
// ref is left alone, which bounds traversal of cyclic graphs.
func (env *Env) mark(ref Ref) {
	if ref.IsNil() {
		return
	}
	m := &env.mem
	if _, err := m.lookup(ref); err != nil {
		invariant("marking %v: %v", ref, err)
	}
	i := int(ref.slot)
	if m.live.has(i) {
		return
	}
	m.live.set(i)
	if _, ok := m.slots[i].obj.(visitor); ok {
		env.gray = append(env.gray, ref.slot)
	}
}

func (env *Env) drain() {
	for len(env.gray) > 0 {
		n := len(env.gray) - 1
		i := env.gray[n]
		env.gray = env.gray[:n]
		env.mem.slots[i].obj.(visitor).visit(env.mark)
	}
}

// Live returns a Ref to every allocated object, in slot order. Between
// collections this includes garbage not yet swept.
func (env *Env) Live() []Ref {
	var refs []Ref
	env.mem.live.each(nil, func(i int) {
		refs = append(refs, Ref{slot: uint32(i), gen: env.mem.slots[i].gen})
	})
	return refs
}
