package fobj

import (
	"fmt"
	"io"
)

// Table is an ordered dictionary keyed by String, such as the word
// dictionary.
type Table struct {
	entries []tableEntry
}

type tableEntry struct {
	key   Ref
	name  string
	value Ref
}

// NewTable allocates an empty Table.
func (env *Env) NewTable() (Ref, error) {
	return env.alloc(&Table{})
}

// Len returns the number of bindings.
func (tab *Table) Len() int { return len(tab.entries) }

// Names returns every bound name in binding order.
func (tab *Table) Names() []string {
	names := make([]string, len(tab.entries))
	for i, ent := range tab.entries {
		names[i] = ent.name
	}
	return names
}

func (tab *Table) find(name string) int {
	for i := len(tab.entries) - 1; i >= 0; i-- {
		if tab.entries[i].name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the value bound to name in the Table at table, or Nil.
func (env *Env) Lookup(table Ref, name string) (Ref, error) {
	tab, err := Deref[*Table](env, table)
	if err != nil {
		return Nil, err
	}
	if i := tab.find(name); i >= 0 {
		return tab.entries[i].value, nil
	}
	return Nil, nil
}

// Merge binds every entry of the Table at from into the Table at into, then
// empties from.
func (env *Env) Merge(into, from Ref) error {
	dst, err := Deref[*Table](env, into)
	if err != nil {
		return err
	}
	src, err := Deref[*Table](env, from)
	if err != nil {
		return err
	}
	for _, ent := range src.entries {
		dst.bind(env, ent.key, ent.name, ent.value)
	}
	src.free(env)
	return nil
}

func (tab *Table) bind(env *Env, key Ref, name string, value Ref) {
	if i := tab.find(name); i >= 0 {
		ent := &tab.entries[i]
		env.release(ent.value)
		ent.value = env.retain(value)
		return
	}
	tab.entries = append(tab.entries, tableEntry{
		key:   env.retain(key),
		name:  name,
		value: env.retain(value),
	})
}

func (tab *Table) key(env *Env, index Ref) (string, error) {
	if index.IsNil() {
		return "", Errorf(CodeBadIndex, "table must be indexed by a string, got nil")
	}
	p, err := env.Get(index)
	if err != nil {
		return "", err
	}
	str, ok := p.(*String)
	if !ok {
		return "", Errorf(CodeBadIndex, "table must be indexed by a string, got %v", p.Type())
	}
	return str.s, nil
}

func (tab *Table) visit(mark func(Ref)) {
	for _, ent := range tab.entries {
		mark(ent.key)
		mark(ent.value)
	}
}

func (tab *Table) free(env *Env) {
	for _, ent := range tab.entries {
		env.release(ent.key)
		env.release(ent.value)
	}
	tab.entries = nil
}

func (tab *Table) print(env *Env, w io.Writer) error {
	for _, ent := range tab.entries {
		if _, err := fmt.Fprintf(w, "table[%q] = ", ent.name); err != nil {
			return err
		}
		if err := env.describe(w, ent.value); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (tab *Table) store(env *Env, index, value Ref) error {
	name, err := tab.key(env, index)
	if err != nil {
		return err
	}
	tab.bind(env, index, name, value)
	return nil
}

func (tab *Table) fetch(env *Env, index Ref) (Ref, error) {
	name, err := tab.key(env, index)
	if err != nil {
		return Nil, err
	}
	if i := tab.find(name); i >= 0 {
		return tab.entries[i].value, nil
	}
	return Nil, nil
}
