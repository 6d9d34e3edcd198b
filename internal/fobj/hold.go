package fobj

// Hold pushes ref onto the hold stack, keeping it reachable until the next
// ClearHolds. Any Ref that must survive a later allocation, and is not yet
// stored somewhere reachable, must be held first.
func (env *Env) Hold(ref Ref) error {
	if ref.IsNil() {
		return nil
	}
	if _, err := env.Get(ref); err != nil {
		return err
	}
	hold := env.holdStack()
	hold.items = append(hold.items, env.retain(ref))
	if n := len(hold.items); n > env.stats.HoldHighWater {
		env.stats.HoldHighWater = n
	}
	return nil
}

// HoldAll holds every ref, in order, stopping at the first invalid one.
func (env *Env) HoldAll(refs []Ref) error {
	for _, ref := range refs {
		if err := env.Hold(ref); err != nil {
			return err
		}
	}
	return nil
}

// ClearHolds empties the hold stack in one step. It is called once per
// top-level unit of work, never to release a single object.
func (env *Env) ClearHolds() {
	hold := env.holdStack()
	if n := len(hold.items); n > 0 {
		env.logf("hold", "clear %v", n)
	}
	for _, ref := range hold.items {
		env.release(ref)
	}
	hold.items = hold.items[:0]
}

// Epoch runs f as one unit of work, clearing the hold stack when it returns.
func (env *Env) Epoch(f func() error) error {
	defer env.ClearHolds()
	return f()
}

func (env *Env) holdStack() *Stack {
	hold, err := Deref[*Stack](env, env.roots[RootHold])
	if err != nil {
		invariant("hold stack: %v", err)
	}
	return hold
}
