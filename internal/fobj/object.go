package fobj

import "fmt"

// Type tags every object with exactly one payload variant.
type Type uint8

// Object types; the zeroth type is invalid.
const (
	TypeInvalid Type = iota
	TypeNumber
	TypeString
	TypeTable
	TypeArray
	TypeHash
	TypeStack
	TypeIndex
	TypeState
	TypeWord

	numTypes
)

func (t Type) String() string {
	if t < numTypes && typeTable[t].Name != "" {
		return typeTable[t].Name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Ref is a handle to an object in an Env's pool. The zero Ref is Nil.
//
// A Ref stays valid only while its object is reachable from the root set;
// once the slot is reclaimed its generation moves on and the Ref becomes
// stale.
type Ref struct {
	slot uint32
	gen  uint32
}

// Nil is the absent reference.
var Nil Ref

// IsNil returns true for the absent reference.
func (ref Ref) IsNil() bool { return ref.gen == 0 }

// Slot returns the pool index the Ref points at.
func (ref Ref) Slot() int { return int(ref.slot) }

func (ref Ref) String() string {
	if ref.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("#%d.%d", ref.slot, ref.gen)
}

// Payload is the closed sum of object variants.
type Payload interface {
	Type() Type
	payload()
}

func (*Number) payload() {}
func (*String) payload() {}
func (*Table) payload()  {}
func (*Array) payload()  {}
func (*Hash) payload()   {}
func (*Stack) payload()  {}
func (*Index) payload()  {}
func (*State) payload()  {}
func (*Word) payload()   {}

func (*Number) Type() Type { return TypeNumber }
func (*String) Type() Type { return TypeString }
func (*Table) Type() Type  { return TypeTable }
func (*Array) Type() Type  { return TypeArray }
func (*Hash) Type() Type   { return TypeHash }
func (*Stack) Type() Type  { return TypeStack }
func (*Index) Type() Type  { return TypeIndex }
func (*State) Type() Type  { return TypeState }
func (*Word) Type() Type   { return TypeWord }

// newPayload returns a zero payload for t, or nil for an invalid type.
func newPayload(t Type) Payload {
	switch t {
	case TypeNumber:
		return &Number{}
	case TypeString:
		return &String{}
	case TypeTable:
		return &Table{}
	case TypeArray:
		return &Array{}
	case TypeHash:
		return &Hash{}
	case TypeStack:
		return &Stack{}
	case TypeIndex:
		return &Index{}
	case TypeState:
		return &State{}
	case TypeWord:
		return &Word{}
	default:
		return nil
	}
}

// Deref returns the payload of ref as a T, failing on nil, stale, or
// mistyped references.
func Deref[T Payload](env *Env, ref Ref) (T, error) {
	var zero T
	p, err := env.Get(ref)
	if err != nil {
		return zero, err
	}
	if t, ok := p.(T); ok {
		return t, nil
	}
	return zero, Errorf(CodeTypeMismatch, "expected %v, got %v", zero.Type(), p.Type())
}
