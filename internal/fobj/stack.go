package fobj

import (
	"fmt"
	"io"
)

// Stack is a LIFO of owned references. Storing with a Nil index pushes;
// fetching with a Nil index pops. An integer index addresses a depth, with
// 0 being the top.
type Stack struct {
	items []Ref
}

// NewStack allocates an empty Stack.
func (env *Env) NewStack() (Ref, error) {
	return env.alloc(&Stack{})
}

// Depth returns the number of items.
func (st *Stack) Depth() int { return len(st.items) }

// Peek returns the item at depth, or Nil.
func (st *Stack) Peek(depth int) Ref {
	if depth < 0 || depth >= len(st.items) {
		return Nil
	}
	return st.items[len(st.items)-1-depth]
}

func (st *Stack) push(env *Env, ref Ref) {
	st.items = append(st.items, env.retain(ref))
}

func (st *Stack) pop(env *Env) (Ref, error) {
	i := len(st.items) - 1
	if i < 0 {
		return Nil, Errorf(CodeUnderflow, "stack underflow")
	}
	ref := st.items[i]
	st.items[i] = Nil
	st.items = st.items[:i]
	env.release(ref)
	return ref, nil
}

func (st *Stack) visit(mark func(Ref)) {
	for _, ref := range st.items {
		mark(ref)
	}
}

func (st *Stack) free(env *Env) {
	for _, ref := range st.items {
		env.release(ref)
	}
	st.items = nil
}

func (st *Stack) print(env *Env, w io.Writer) error {
	for i := len(st.items) - 1; i >= 0; i-- {
		if _, err := fmt.Fprintf(w, "stack[%d] = ", len(st.items)-1-i); err != nil {
			return err
		}
		if err := env.describe(w, st.items[i]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (st *Stack) store(env *Env, index, value Ref) error {
	if index.IsNil() {
		st.push(env, value)
		return nil
	}
	depth, err := env.intIndex(TypeStack, index)
	if err != nil {
		return err
	}
	if depth < 0 || depth >= len(st.items) {
		return Errorf(CodeBadIndex, "stack depth %v out of range [0, %v)", depth, len(st.items))
	}
	i := len(st.items) - 1 - depth
	env.release(st.items[i])
	st.items[i] = env.retain(value)
	return nil
}

func (st *Stack) fetch(env *Env, index Ref) (Ref, error) {
	if index.IsNil() {
		return st.pop(env)
	}
	depth, err := env.intIndex(TypeStack, index)
	if err != nil {
		return Nil, err
	}
	return st.Peek(depth), nil
}

// Push pushes value onto the Stack at stack.
func (env *Env) Push(stack, value Ref) error {
	return env.Store(stack, Nil, value)
}

// Pop pops the top of the Stack at stack. The result is no longer owned by
// the stack; hold it before allocating if it must survive.
func (env *Env) Pop(stack Ref) (Ref, error) {
	st, err := Deref[*Stack](env, stack)
	if err != nil {
		return Nil, err
	}
	return st.pop(env)
}

// Depth returns the number of items on the Stack at stack.
func (env *Env) Depth(stack Ref) (int, error) {
	st, err := Deref[*Stack](env, stack)
	if err != nil {
		return 0, err
	}
	return st.Depth(), nil
}

// ClearStack drops every item from the Stack at stack.
func (env *Env) ClearStack(stack Ref) error {
	st, err := Deref[*Stack](env, stack)
	if err != nil {
		return err
	}
	st.free(env)
	return nil
}
