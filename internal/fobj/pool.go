package fobj

import "math/bits"

// DefaultCapacity is the pool size used unless WithCapacity says otherwise.
const DefaultCapacity = 1024

type slot struct {
	gen    uint32
	owners int
	obj    Payload
}

// pool is fixed-capacity slot storage with a free list and a liveness bitmap.
// A slot index is on the free list iff its bit in live is clear.
type pool struct {
	slots []slot
	live  bitmap
	free  []uint32
	nfree int
}

func (m *pool) init(capacity int) {
	m.slots = make([]slot, capacity)
	m.live = newBitmap(capacity)
	m.free = make([]uint32, capacity)
	m.nfree = capacity
	for i := range m.slots {
		m.slots[i].gen = 1
		// lowest slots come off the free list first
		m.free[capacity-1-i] = uint32(i)
	}
}

func (m *pool) capacity() int { return len(m.slots) }

// take pops a slot off the free list; the caller has checked nfree.
func (m *pool) take(obj Payload) Ref {
	m.nfree--
	i := m.free[m.nfree]
	if m.live.has(int(i)) {
		invariant("free slot %v is marked live", i)
	}
	s := &m.slots[i]
	if s.obj != nil {
		invariant("free slot %v still holds a %v", i, s.obj.Type())
	}
	s.obj = obj
	s.owners = 0
	m.live.set(int(i))
	return Ref{slot: i, gen: s.gen}
}

// release returns slot i to the free list; only the sweep calls it, after
// the slot's live bit has already been cleared by the mark snapshot.
func (m *pool) release(i int) {
	s := &m.slots[i]
	if s.obj == nil {
		invariant("reclaiming already free slot %v", i)
	}
	if m.nfree >= len(m.free) {
		invariant("free count %v exceeds pool capacity %v", m.nfree+1, len(m.free))
	}
	*s = slot{gen: s.gen + 1}
	if s.gen == 0 {
		s.gen = 1
	}
	m.live.clear(i)
	m.free[m.nfree] = uint32(i)
	m.nfree++
}

// lookup returns the slot ref addresses, if it is live and current.
func (m *pool) lookup(ref Ref) (*slot, error) {
	if ref.IsNil() {
		return nil, Errorf(CodeNilRef, "nil reference")
	}
	if int(ref.slot) >= len(m.slots) {
		return nil, Errorf(CodeStaleRef, "reference %v outside pool of %v", ref, len(m.slots))
	}
	s := &m.slots[ref.slot]
	if s.gen != ref.gen || s.obj == nil {
		return nil, Errorf(CodeStaleRef, "stale reference %v (slot now at generation %v)", ref, s.gen)
	}
	return s, nil
}

func (m *pool) used() int { return len(m.slots) - m.nfree }

// bitmap is a fixed-size set of slot indices.
type bitmap []uint64

func newBitmap(n int) bitmap { return make(bitmap, (n+63)/64) }

func (b bitmap) has(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }
func (b bitmap) set(i int)      { b[i>>6] |= 1 << (uint(i) & 63) }
func (b bitmap) clear(i int)    { b[i>>6] &^= 1 << (uint(i) & 63) }

func (b bitmap) reset() {
	for i := range b {
		b[i] = 0
	}
}

func (b bitmap) count() (n int) {
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// each calls f with every index set in b &^ not, in ascending order.
func (b bitmap) each(not bitmap, f func(i int)) {
	for wi, w := range b {
		if not != nil {
			w &^= not[wi]
		}
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			w &^= 1 << uint(bit)
			f(wi<<6 + bit)
		}
	}
}
