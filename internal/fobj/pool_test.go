package fobj

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standingRoots counts the objects New allocates for its roots.
const standingRoots = 5

func newTestEnv(t *testing.T, opts ...EnvOption) *Env {
	env, err := New(opts...)
	require.NoError(t, err, "must create env")
	return env
}

// fillRooted allocates numbers onto the data stack until only spare slots
// remain free, returning them in allocation order.
func fillRooted(t *testing.T, env *Env, spare int) (refs []Ref) {
	ds := env.Root(RootDataStack)
	for i := 0; env.Stats().Free > spare; i++ {
		ref, err := env.NewNumber(int64(i))
		require.NoError(t, err, "must allocate number %v", i)
		require.NoError(t, env.Push(ds, ref), "must push number %v", i)
		refs = append(refs, ref)
	}
	return refs
}

func Test_New(t *testing.T) {
	env := newTestEnv(t)
	st := env.Stats()
	assert.Equal(t, DefaultCapacity, st.Capacity, "expected default capacity")
	assert.Equal(t, standingRoots, st.Live, "expected only standing roots")
	assert.Equal(t, DefaultCapacity-standingRoots, st.Free, "expected the rest free")

	for _, rt := range []struct {
		root Root
		typ  Type
	}{
		{RootDataStack, TypeStack},
		{RootReturnStack, TypeStack},
		{RootCompiling, TypeInvalid},
		{RootNewWords, TypeTable},
		{RootWords, TypeTable},
		{RootInput, TypeInvalid},
		{RootRunning, TypeInvalid},
		{RootHold, TypeStack},
	} {
		assert.Equal(t, rt.typ, env.TypeOf(env.Root(rt.root)), "expected %v type", rt.root)
	}

	for _, capacity := range []int{0, -1, MaxCapacity + 1} {
		_, err := New(WithCapacity(capacity))
		assert.Error(t, err, "expected capacity %v to be rejected", capacity)
	}

	_, err := New(WithCapacity(standingRoots - 1))
	assert.True(t, errors.Is(err, ErrExhausted), "expected roots to exhaust a tiny pool, got %v", err)
}

func Test_Alloc(t *testing.T) {
	env := newTestEnv(t, WithCapacity(32))

	for typ := TypeNumber; typ < numTypes; typ++ {
		ref, err := env.Alloc(typ)
		require.NoError(t, err, "must allocate %v", typ)
		require.False(t, ref.IsNil(), "expected a non-nil %v", typ)
		assert.Equal(t, typ, env.TypeOf(ref), "expected allocated type")
		p, err := env.Get(ref)
		require.NoError(t, err, "must get %v", typ)
		assert.Equal(t, newPayload(typ), p, "expected zero %v payload", typ)
	}

	assert.Panics(t, func() { env.Alloc(TypeInvalid) }, "expected invalid type to panic")

	_, err := env.Get(Nil)
	assert.Equal(t, CodeNilRef, CodeOf(err), "expected nil ref error")
	assert.Equal(t, TypeInvalid, env.TypeOf(Nil), "expected nil to have no type")
}

func Test_Alloc_slotOrder(t *testing.T) {
	env := newTestEnv(t, WithCapacity(8))
	a, err := env.NewNumber(1)
	require.NoError(t, err)
	b, err := env.NewNumber(2)
	require.NoError(t, err)
	assert.Equal(t, standingRoots, a.Slot(), "expected lowest free slot first")
	assert.Equal(t, standingRoots+1, b.Slot(), "expected next slot")
}

func Test_Alloc_exhausted(t *testing.T) {
	t.Run("full of rooted objects", func(t *testing.T) {
		env := newTestEnv(t, WithCapacity(16))
		rooted := fillRooted(t, env, 0)
		require.Len(t, rooted, 16-standingRoots, "expected to fill the pool")

		_, err := env.NewNumber(99)
		require.Error(t, err, "expected allocation to fail")
		assert.True(t, errors.Is(err, ErrExhausted), "expected exhaustion, got %v", err)
		assert.True(t, CodeOf(err).Fatal(), "expected exhaustion to be fatal")

		st := env.Stats()
		assert.Equal(t, uint64(1), st.Collections, "expected exactly one collection attempt")
		assert.Equal(t, uint64(0), st.Reclaimed, "expected nothing reclaimed")
		for _, ref := range rooted {
			assert.True(t, env.Valid(ref), "expected %v to survive", ref)
		}
	})

	t.Run("one spare slot", func(t *testing.T) {
		env := newTestEnv(t, WithCapacity(16))
		fillRooted(t, env, 1)

		loose, err := env.NewNumber(42)
		require.NoError(t, err, "expected the spare slot to be used")
		assert.Equal(t, uint64(0), env.Stats().Collections, "expected no collection yet")

		next, err := env.NewNumber(43)
		require.NoError(t, err, "expected collection to free the loose number")
		assert.Equal(t, uint64(1), env.Stats().Collections, "expected one collection")
		assert.Equal(t, loose.Slot(), next.Slot(), "expected the loose slot to be reused")

		require.NoError(t, env.Push(env.Root(RootDataStack), next))
		_, err = env.NewNumber(44)
		assert.True(t, errors.Is(err, ErrExhausted), "expected exhaustion, got %v", err)
	})
}

func Test_Alloc_reuse(t *testing.T) {
	env := newTestEnv(t, WithCapacity(16))

	loose, err := env.NewString("unrooted")
	require.NoError(t, err)
	fillRooted(t, env, 0)
	assert.True(t, env.Valid(loose), "expected loose string to linger until collection")

	reused, err := env.NewString("reused")
	require.NoError(t, err, "must allocate after reclaiming")
	assert.Equal(t, loose.Slot(), reused.Slot(), "expected the unrooted slot to be reused")
	assert.NotEqual(t, loose, reused, "expected a new generation")

	_, err = env.Get(loose)
	assert.Equal(t, CodeStaleRef, CodeOf(err), "expected stale ref error, got %v", err)
	assert.False(t, env.Valid(loose), "expected loose ref to be stale")

	str, err := Deref[*String](env, reused)
	require.NoError(t, err)
	assert.Equal(t, "reused", str.String())
}

func Test_pool_invariants(t *testing.T) {
	var m pool
	m.init(4)
	ref := m.take(&Number{})

	assert.Panics(t, func() { m.release(3) }, "expected reclaiming a free slot to panic")

	m.live.clear(int(ref.slot))
	m.release(int(ref.slot))
	assert.Equal(t, 4, m.nfree, "expected slot back on the free list")
	assert.Panics(t, func() { m.release(int(ref.slot)) }, "expected double reclaim to panic")

	m.slots[0].obj = &Number{}
	assert.PanicsWithValue(t,
		InvariantError{"free count 5 exceeds pool capacity 4"},
		func() { m.release(0) },
		"expected free list overflow to panic")
}

func Test_bitmap(t *testing.T) {
	b := newBitmap(130)
	require.Len(t, b, 3)
	for _, i := range []int{0, 63, 64, 129} {
		b.set(i)
	}
	assert.Equal(t, 4, b.count())
	assert.True(t, b.has(64))
	b.clear(64)
	assert.False(t, b.has(64))

	not := newBitmap(130)
	not.set(63)
	var got []int
	b.each(not, func(i int) { got = append(got, i) })
	assert.Equal(t, []int{0, 129}, got)

	b.reset()
	assert.Equal(t, 0, b.count())
}
