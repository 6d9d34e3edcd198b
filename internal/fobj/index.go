package fobj

// Index is a deferred address: a container and the index a later store or
// fetch will use. It owns both.
type Index struct {
	addr, index Ref
}

// Addr returns the container.
func (ix *Index) Addr() Ref { return ix.addr }

// Index returns the pending index.
func (ix *Index) Index() Ref { return ix.index }

// NewIndex returns an Index of addr at index. With a Nil index nothing is
// allocated and addr itself is returned.
func (env *Env) NewIndex(addr, index Ref) (Ref, error) {
	if index.IsNil() {
		return addr, nil
	}
	if addr.IsNil() {
		return Nil, Errorf(CodeNilRef, "index of a nil container")
	}
	if err := env.HoldAll([]Ref{addr, index}); err != nil {
		return Nil, err
	}
	ix := &Index{}
	ref, err := env.alloc(ix)
	if err != nil {
		return Nil, err
	}
	ix.addr = env.retain(addr)
	ix.index = env.retain(index)
	return ref, nil
}

func (ix *Index) visit(mark func(Ref)) {
	mark(ix.addr)
	mark(ix.index)
}

func (ix *Index) free(env *Env) {
	env.release(ix.addr)
	env.release(ix.index)
	ix.addr, ix.index = Nil, Nil
}

// ResolveStore stores value through ref: an Index stores into its container
// at its pending index, anything else is stored into with a Nil index.
func (env *Env) ResolveStore(ref, value Ref) error {
	if p, err := env.Get(ref); err != nil {
		return err
	} else if ix, ok := p.(*Index); ok {
		return env.Store(ix.addr, ix.index, value)
	}
	return env.Store(ref, Nil, value)
}

// ResolveFetch fetches through ref, like ResolveStore.
func (env *Env) ResolveFetch(ref Ref) (Ref, error) {
	if p, err := env.Get(ref); err != nil {
		return Nil, err
	} else if ix, ok := p.(*Index); ok {
		return env.Fetch(ix.addr, ix.index)
	}
	return env.Fetch(ref, Nil)
}

// State is a control flow record: a tag and an offset. It has no children.
type State struct {
	Tag    int
	Offset int
}

// NewState allocates a State record.
func (env *Env) NewState(tag, offset int) (Ref, error) {
	return env.alloc(&State{Tag: tag, Offset: offset})
}
