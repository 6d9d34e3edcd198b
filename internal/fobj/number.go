package fobj

import (
	"io"
	"math"
	"strconv"

	"fortio.org/safecast"
)

// Number is an integer or floating point scalar.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// NewNumber allocates an integer Number.
func (env *Env) NewNumber(n int64) (Ref, error) {
	return env.alloc(&Number{i: n})
}

// NewFloat allocates a floating point Number.
func (env *Env) NewFloat(f float64) (Ref, error) {
	return env.alloc(&Number{f: f, isFloat: true})
}

// Int returns the integer value, and false for a float.
func (n *Number) Int() (int64, bool) { return n.i, !n.isFloat }

// Float returns the value as a float64.
func (n *Number) Float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// IsFloat returns true for a floating point Number.
func (n *Number) IsFloat() bool { return n.isFloat }

func (n *Number) String() string {
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

func (n *Number) print(env *Env, w io.Writer) error {
	_, err := io.WriteString(w, n.String())
	return err
}

func (n *Number) compare(other Payload) int {
	o := other.(*Number)
	if !n.isFloat && !o.isFloat {
		switch {
		case n.i < o.i:
			return -1
		case n.i > o.i:
			return 1
		}
		return 0
	}
	a, b := n.Float(), o.Float()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	// NaN sorts before everything, equal to itself
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return -1
	}
	return 1
}

func (n *Number) add(env *Env, other Payload) (Ref, error) {
	o, ok := other.(*Number)
	if !ok {
		return Nil, mismatch("+", n, other)
	}
	if !n.isFloat && !o.isFloat {
		return env.NewNumber(n.i + o.i)
	}
	return env.NewFloat(n.Float() + o.Float())
}

func (n *Number) sub(env *Env, other Payload) (Ref, error) {
	o, ok := other.(*Number)
	if !ok {
		return Nil, mismatch("-", n, other)
	}
	if !n.isFloat && !o.isFloat {
		return env.NewNumber(n.i - o.i)
	}
	return env.NewFloat(n.Float() - o.Float())
}

// intIndex converts an index operand into a slice position for a container
// of type what; negative values are returned for the caller to judge.
func (env *Env) intIndex(what Type, index Ref) (int, error) {
	if index.IsNil() {
		return 0, Errorf(CodeBadIndex, "%v must be indexed by an integer number, got nil", what)
	}
	p, err := env.Get(index)
	if err != nil {
		return 0, err
	}
	num, ok := p.(*Number)
	if !ok {
		return 0, Errorf(CodeBadIndex, "%v must be indexed by an integer number, got %v", what, p.Type())
	}
	i64, ok := num.Int()
	if !ok {
		return 0, Errorf(CodeBadIndex, "%v must be indexed by an integer number, got %v", what, num)
	}
	i, err := safecast.Conv[int](i64)
	if err != nil {
		return 0, Errorf(CodeBadIndex, "%v index %v: %v", what, i64, err)
	}
	return i, nil
}
