package fobj

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/zeebo/xxh3"
)

// Hash maps keys of any type to owned values. Numbers and strings are keyed
// by value, everything else by identity.
type Hash struct {
	entries []hashEntry
	buckets map[uint64][]int
}

type hashEntry struct {
	key, value Ref
}

// NewHash allocates an empty Hash.
func (env *Env) NewHash() (Ref, error) {
	return env.alloc(&Hash{})
}

// Len returns the number of keys.
func (h *Hash) Len() int { return len(h.entries) }

// hashOf hashes a live key. Numbers hash by float value, so any two numbers
// that compare equal hash alike whatever their representation.
func (env *Env) hashOf(key Ref) (uint64, error) {
	if key.IsNil() {
		return 0, Errorf(CodeBadIndex, "hash key must not be nil")
	}
	p, err := env.Get(key)
	if err != nil {
		return 0, err
	}
	var buf [9]byte
	switch k := p.(type) {
	case *String:
		return k.hash(), nil
	case *Number:
		f := k.Float()
		switch {
		case f == 0:
			f = 0 // -0
		case math.IsNaN(f):
			f = math.NaN()
		}
		buf[0] = byte(TypeNumber)
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
	default:
		buf[0] = byte(p.Type())
		binary.LittleEndian.PutUint32(buf[1:], key.slot)
		binary.LittleEndian.PutUint32(buf[5:], key.gen)
	}
	return xxh3.Hash(buf[:]), nil
}

func (h *Hash) find(env *Env, key Ref, sum uint64) int {
	for _, i := range h.buckets[sum] {
		if env.Compare(h.entries[i].key, key) == 0 {
			return i
		}
	}
	return -1
}

func (h *Hash) visit(mark func(Ref)) {
	for _, ent := range h.entries {
		mark(ent.key)
		mark(ent.value)
	}
}

func (h *Hash) free(env *Env) {
	for _, ent := range h.entries {
		env.release(ent.key)
		env.release(ent.value)
	}
	h.entries = nil
	h.buckets = nil
}

func (h *Hash) print(env *Env, w io.Writer) error {
	for _, ent := range h.entries {
		if _, err := fmt.Fprintf(w, "hash[%v] = ", env.Sprint(ent.key)); err != nil {
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

func (h *Hash) store(env *Env, index, value Ref) error {
	sum, err := env.hashOf(index)
	if err != nil {
		return err
	}
	if i := h.find(env, index, sum); i >= 0 {
		ent := &h.entries[i]
		env.release(ent.value)
		ent.value = env.retain(value)
		return nil
	}
	if h.buckets == nil {
		h.buckets = make(map[uint64][]int)
	}
	h.buckets[sum] = append(h.buckets[sum], len(h.entries))
	h.entries = append(h.entries, hashEntry{
		key:   env.retain(index),
		value: env.retain(value),
	})
	return nil
}

func (h *Hash) fetch(env *Env, index Ref) (Ref, error) {
	sum, err := env.hashOf(index)
	if err != nil {
		return Nil, err
	}
	if i := h.find(env, index, sum); i >= 0 {
		return h.entries[i].value, nil
	}
	return Nil, nil
}
