package fobj

import (
	"fmt"
	"io"
)

// Array is a growable, integer indexed sequence of owned references. Gaps
// below the highest written index hold Nil. Arrays never shrink.
type Array struct {
	elems []Ref
}

// NewArray allocates an empty Array.
func (env *Env) NewArray() (Ref, error) {
	return env.alloc(&Array{})
}

// Len returns the number of positions, gaps included.
func (a *Array) Len() int { return len(a.elems) }

// At returns the element at i, or Nil when out of range.
func (a *Array) At(i int) Ref {
	if i < 0 || i >= len(a.elems) {
		return Nil
	}
	return a.elems[i]
}

// Len returns the length of the Array at ref.
func (env *Env) Len(ref Ref) (int, error) {
	a, err := Deref[*Array](env, ref)
	if err != nil {
		return 0, err
	}
	return a.Len(), nil
}

func (a *Array) visit(mark func(Ref)) {
	for _, ref := range a.elems {
		mark(ref)
	}
}

func (a *Array) free(env *Env) {
	for _, ref := range a.elems {
		env.release(ref)
	}
	a.elems = nil
}

func (a *Array) print(env *Env, w io.Writer) error {
	for i, ref := range a.elems {
		if _, err := fmt.Fprintf(w, "array[%d] = ", i); err != nil {
			return err
		}
		if err := env.describe(w, ref); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) store(env *Env, index, value Ref) error {
	i, err := env.intIndex(TypeArray, index)
	if err != nil {
		return err
	}
	if i < 0 {
		return Errorf(CodeBadIndex, "array index %v is negative", i)
	}
	if i >= len(a.elems) {
		if limit := env.arrayLimit; limit > 0 && i >= limit {
			return Errorf(CodeLimit, "array index %v exceeds limit %v", i, limit)
		}
		a.grow(i + 1)
	}
	env.release(a.elems[i])
	a.elems[i] = env.retain(value)
	return nil
}

func (a *Array) grow(n int) {
	if n <= len(a.elems) {
		invariant("array grow to %v from %v", n, len(a.elems))
	}
	if n <= cap(a.elems) {
		a.elems = a.elems[:n]
		return
	}
	elems := make([]Ref, n, n+n/4)
	copy(elems, a.elems)
	a.elems = elems
}

func (a *Array) fetch(env *Env, index Ref) (Ref, error) {
	i, err := env.intIndex(TypeArray, index)
	if err != nil {
		return Nil, err
	}
	return a.At(i), nil
}
