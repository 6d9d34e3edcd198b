package fobj

import (
	"fmt"
	"io"
	"strings"
)

// Op names one dispatchable operation; an Op value may hold several as a set.
type Op uint8

// Dispatchable operations.
const (
	OpVisit Op = 1 << iota
	OpFree
	OpPrint
	OpCompare
	OpStore
	OpFetch
	OpAdd
	OpSub
)

var opNames = []string{"visit", "free", "print", "compare", "store", "fetch", "add", "subtract"}

func (op Op) String() string {
	var parts []string
	for i, name := range opNames {
		if op&(1<<uint(i)) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// The per-type operation hooks. A payload variant supplies an operation by
// implementing the matching interface.
type (
	visitor interface {
		visit(mark func(Ref))
	}
	freer interface {
		free(env *Env)
	}
	printer interface {
		print(env *Env, w io.Writer) error
	}
	comparer interface {
		compare(other Payload) int
	}
	storer interface {
		store(env *Env, index, value Ref) error
	}
	fetcher interface {
		fetch(env *Env, index Ref) (Ref, error)
	}
	adder interface {
		add(env *Env, other Payload) (Ref, error)
	}
	subtracter interface {
		sub(env *Env, other Payload) (Ref, error)
	}
)

// TypeInfo is one dispatch table entry.
type TypeInfo struct {
	Name string
	Ops  Op
}

var typeTable [numTypes]TypeInfo

var typeNames = [numTypes]string{
	TypeNumber: "number",
	TypeString: "string",
	TypeTable:  "table",
	TypeArray:  "array",
	TypeHash:   "hash",
	TypeStack:  "stack",
	TypeIndex:  "index",
	TypeState:  "state",
	TypeWord:   "word",
}

func init() {
	for t := TypeNumber; t < numTypes; t++ {
		typeTable[t] = TypeInfo{Name: typeNames[t], Ops: opsOf(newPayload(t))}
		if err := checkEntry(typeTable[t]); err != nil {
			panic(err)
		}
	}
}

func opsOf(p Payload) (ops Op) {
	if _, ok := p.(visitor); ok {
		ops |= OpVisit
	}
	if _, ok := p.(freer); ok {
		ops |= OpFree
	}
	if _, ok := p.(printer); ok {
		ops |= OpPrint
	}
	if _, ok := p.(comparer); ok {
		ops |= OpCompare
	}
	if _, ok := p.(storer); ok {
		ops |= OpStore
	}
	if _, ok := p.(fetcher); ok {
		ops |= OpFetch
	}
	if _, ok := p.(adder); ok {
		ops |= OpAdd
	}
	if _, ok := p.(subtracter); ok {
		ops |= OpSub
	}
	return ops
}

func checkEntry(info TypeInfo) error {
	addressable := info.Ops & (OpStore | OpFetch)
	if addressable != 0 && addressable != OpStore|OpFetch {
		return InvariantError{fmt.Sprintf("%v supplies %v without its pair", info.Name, addressable)}
	}
	if addressable != 0 && info.Ops&OpPrint == 0 {
		return InvariantError{fmt.Sprintf("addressable %v has no print", info.Name)}
	}
	return nil
}

// Info returns the dispatch table entry for t.
func (t Type) Info() TypeInfo {
	if t < numTypes {
		return typeTable[t]
	}
	return TypeInfo{}
}

// Supports returns true if t supplies every operation in op.
func (t Type) Supports(op Op) bool {
	return op != 0 && t.Info().Ops&op == op
}

func unsupported(t Type, op Op) error {
	return Errorf(CodeUnsupported, "%v <> %v not supported", t, op)
}

// Print renders ref for diagnostics. Nil prints as "(null)".
func (env *Env) Print(w io.Writer, ref Ref) error {
	if ref.IsNil() {
		_, err := io.WriteString(w, "(null)")
		return err
	}
	p, err := env.Get(ref)
	if err != nil {
		return err
	}
	pr, ok := p.(printer)
	if !ok {
		return unsupported(p.Type(), OpPrint)
	}
	if env.printing == nil {
		env.printing = make(map[Ref]struct{})
	}
	env.printing[ref] = struct{}{}
	defer delete(env.printing, ref)
	return pr.print(env, w)
}

// describe prints ref, falling back to an identity rendering for types with
// no print hook and for refs already being printed further up, so that cyclic
// graphs print finitely; containers use it to render their elements.
func (env *Env) describe(w io.Writer, ref Ref) error {
	if t := env.TypeOf(ref); t != TypeInvalid {
		if _, cyclic := env.printing[ref]; cyclic || !t.Supports(OpPrint) {
			_, err := fmt.Fprintf(w, "<%v %v>", t, ref)
			return err
		}
	}
	return env.Print(w, ref)
}

// Sprint returns the Print rendering of ref, or an error marker.
func (env *Env) Sprint(ref Ref) string {
	var sb strings.Builder
	if err := env.describe(&sb, ref); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return sb.String()
}

// Compare orders a and b. The type comparator is used only when both share a
// type that supplies one; otherwise the order is by identity, which is
// consistent but carries no meaning.
func (env *Env) Compare(a, b Ref) int {
	pa, erra := env.Get(a)
	pb, errb := env.Get(b)
	if erra == nil && errb == nil && pa.Type() == pb.Type() {
		if cmp, ok := pa.(comparer); ok {
			return cmp.compare(pb)
		}
	}
	return compareIdentity(a, b)
}

func compareIdentity(a, b Ref) int {
	switch {
	case a.slot < b.slot:
		return -1
	case a.slot > b.slot:
		return 1
	case a.gen < b.gen:
		return -1
	case a.gen > b.gen:
		return 1
	}
	return 0
}

// Store writes value into addr at index.
func (env *Env) Store(addr, index, value Ref) error {
	p, err := env.Get(addr)
	if err != nil {
		return err
	}
	st, ok := p.(storer)
	if !ok {
		return unsupported(p.Type(), OpStore)
	}
	if !value.IsNil() {
		if _, err := env.Get(value); err != nil {
			return err
		}
	}
	return st.store(env, index, value)
}

// Fetch reads the value in addr at index. An absent value is Nil, not an
// error. The result is unowned: callers must hold or store it before their
// next allocation.
func (env *Env) Fetch(addr, index Ref) (Ref, error) {
	p, err := env.Get(addr)
	if err != nil {
		return Nil, err
	}
	f, ok := p.(fetcher)
	if !ok {
		return Nil, unsupported(p.Type(), OpFetch)
	}
	return f.fetch(env, index)
}

// Add dispatches on the type of a.
func (env *Env) Add(a, b Ref) (Ref, error) {
	pa, pb, err := env.operands(a, b)
	if err != nil {
		return Nil, err
	}
	ad, ok := pa.(adder)
	if !ok {
		return Nil, unsupported(pa.Type(), OpAdd)
	}
	return ad.add(env, pb)
}

// Sub dispatches on the type of a.
func (env *Env) Sub(a, b Ref) (Ref, error) {
	pa, pb, err := env.operands(a, b)
	if err != nil {
		return Nil, err
	}
	sb, ok := pa.(subtracter)
	if !ok {
		return Nil, unsupported(pa.Type(), OpSub)
	}
	return sb.sub(env, pb)
}

func (env *Env) operands(a, b Ref) (pa, pb Payload, err error) {
	if pa, err = env.Get(a); err == nil {
		pb, err = env.Get(b)
	}
	return pa, pb, err
}

func mismatch(op string, a, b Payload) error {
	return Errorf(CodeTypeMismatch, "%v %v %v not supported", a.Type(), op, b.Type())
}
