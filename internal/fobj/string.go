package fobj

import (
	"io"
	"strings"

	"github.com/zeebo/xxh3"
)

// String is an immutable text value.
type String struct{ s string }

// NewString allocates a String.
func (env *Env) NewString(s string) (Ref, error) {
	return env.alloc(&String{s: s})
}

func (str *String) String() string { return str.s }

func (str *String) print(env *Env, w io.Writer) error {
	_, err := io.WriteString(w, str.s)
	return err
}

func (str *String) compare(other Payload) int {
	return strings.Compare(str.s, other.(*String).s)
}

// add concatenates; a Number operand is appended in its printed form.
func (str *String) add(env *Env, other Payload) (Ref, error) {
	switch o := other.(type) {
	case *String:
		return env.NewString(str.s + o.s)
	case *Number:
		return env.NewString(str.s + o.String())
	default:
		return Nil, mismatch("+", str, other)
	}
}

// sub removes a trailing occurrence of the operand.
func (str *String) sub(env *Env, other Payload) (Ref, error) {
	o, ok := other.(*String)
	if !ok {
		return Nil, mismatch("-", str, other)
	}
	return env.NewString(strings.TrimSuffix(str.s, o.s))
}

func (str *String) hash() uint64 { return xxh3.HashString(str.s) }
