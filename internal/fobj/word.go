package fobj

import (
	"fmt"
	"io"
)

// Word is a compiled definition: a name and a body Array of instructions.
type Word struct {
	name Ref
	body Ref
}

// NewWord allocates a Word named name with a fresh empty body.
func (env *Env) NewWord(name Ref) (Ref, error) {
	if _, err := Deref[*String](env, name); err != nil {
		return Nil, err
	}
	if err := env.Hold(name); err != nil {
		return Nil, err
	}
	w := &Word{}
	ref, err := env.alloc(w)
	if err != nil {
		return Nil, err
	}
	if err := env.Hold(ref); err != nil {
		return Nil, err
	}
	body, err := env.NewArray()
	if err != nil {
		return Nil, err
	}
	w.name = env.retain(name)
	w.body = env.retain(body)
	return ref, nil
}

// Name returns the word's name String.
func (w *Word) Name() Ref { return w.name }

// Body returns the word's body Array.
func (w *Word) Body() Ref { return w.body }

func (w *Word) visit(mark func(Ref)) {
	mark(w.name)
	mark(w.body)
}

func (w *Word) free(env *Env) {
	env.release(w.name)
	env.release(w.body)
	w.name, w.body = Nil, Nil
}

func (w *Word) print(env *Env, out io.Writer) error {
	if _, err := fmt.Fprintf(out, ": %v", env.Sprint(w.name)); err != nil {
		return err
	}
	body, err := Deref[*Array](env, w.body)
	if err != nil {
		return err
	}
	// called words render by name only
	for _, ref := range body.elems {
		var text string
		if callee, err := Deref[*Word](env, ref); err == nil {
			text = env.Sprint(callee.name)
		} else {
			text = env.Sprint(ref)
		}
		if _, err := fmt.Fprintf(out, " %v", text); err != nil {
			return err
		}
	}
	_, err = io.WriteString(out, " ;")
	return err
}
