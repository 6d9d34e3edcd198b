package fobj

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNumber(t *testing.T, env *Env, n int64) Ref {
	ref, err := env.NewNumber(n)
	require.NoError(t, err, "must allocate number %v", n)
	return ref
}

func mustArray(t *testing.T, env *Env) Ref {
	ref, err := env.NewArray()
	require.NoError(t, err, "must allocate array")
	return ref
}

func mustStore(t *testing.T, env *Env, addr Ref, i int64, value Ref) {
	require.NoError(t, env.Hold(value), "must hold value")
	index := mustNumber(t, env, i)
	require.NoError(t, env.Store(addr, index, value), "must store @%v", i)
}

func Test_Collect(t *testing.T) {
	env := newTestEnv(t, WithCapacity(64))
	ds := env.Root(RootDataStack)

	arr := mustArray(t, env)
	require.NoError(t, env.Push(ds, arr))
	kept := mustNumber(t, env, 1)
	mustStore(t, env, arr, 0, kept)
	held := mustNumber(t, env, 2)
	require.NoError(t, env.Hold(held))
	lost := mustNumber(t, env, 3)

	env.Collect()
	for _, ref := range []Ref{arr, kept, held} {
		assert.True(t, env.Valid(ref), "expected %v to survive", env.Sprint(ref))
	}
	assert.False(t, env.Valid(lost), "expected unreachable number to be reclaimed")

	env.ClearHolds()
	env.Collect()
	assert.True(t, env.Valid(kept), "expected stored number to survive")
	assert.False(t, env.Valid(held), "expected number to die once unheld")

	_, err := env.Pop(ds)
	require.NoError(t, err)
	reclaimed := env.Collect()
	assert.Equal(t, 2, reclaimed, "expected the array and its element reclaimed")
	assert.False(t, env.Valid(arr), "expected popped array reclaimed")
	assert.False(t, env.Valid(kept), "expected element of reclaimed array reclaimed")
	assert.Equal(t, standingRoots, env.Stats().Live, "expected only standing roots")
}

func Test_Collect_idempotent(t *testing.T) {
	env := newTestEnv(t, WithCapacity(64))
	arr := mustArray(t, env)
	require.NoError(t, env.Push(env.Root(RootDataStack), arr))
	mustStore(t, env, arr, 3, mustNumber(t, env, 7))
	env.ClearHolds()

	first := env.Collect()
	live := env.Live()
	assert.Equal(t, 0, env.Collect(), "expected a second pass to reclaim nothing")
	assert.Equal(t, live, env.Live(), "expected the same survivors")
	assert.Equal(t, 1, first, "expected the index number to be reclaimed")
}

func Test_Collect_cycles(t *testing.T) {
	env := newTestEnv(t, WithCapacity(64))
	ds := env.Root(RootDataStack)

	// an array holding an index reference back to itself
	arr := mustArray(t, env)
	require.NoError(t, env.Push(ds, arr))
	zero := mustNumber(t, env, 0)
	require.NoError(t, env.Hold(zero))
	self, err := env.NewIndex(arr, zero)
	require.NoError(t, err)
	mustStore(t, env, arr, 1, self)

	// two arrays holding each other
	a := mustArray(t, env)
	require.NoError(t, env.Hold(a))
	b := mustArray(t, env)
	mustStore(t, env, a, 0, b)
	mustStore(t, env, b, 0, a)
	mustStore(t, env, arr, 2, a)
	env.ClearHolds()

	env.Collect()
	for _, ref := range []Ref{arr, zero, self, a, b} {
		assert.True(t, env.Valid(ref), "expected %v in rooted cycle to survive", ref)
	}

	_, err = env.Pop(ds)
	require.NoError(t, err)
	env.Collect()
	for _, ref := range []Ref{arr, zero, self, a, b} {
		assert.False(t, env.Valid(ref), "expected %v in unrooted cycle to be reclaimed", ref)
	}
	assert.Equal(t, standingRoots, env.Stats().Live, "expected only standing roots")
	assert.Equal(t, env.stats.Retains, env.stats.Releases, "expected every ownership released")
}

func Test_Collect_ownership(t *testing.T) {
	env := newTestEnv(t, WithCapacity(64))
	ds := env.Root(RootDataStack)

	shared := mustNumber(t, env, 5)
	require.NoError(t, env.Push(ds, shared))
	a := mustArray(t, env)
	require.NoError(t, env.Hold(a))
	mustStore(t, env, a, 0, shared)
	mustStore(t, env, a, 1, shared)
	assert.Equal(t, 5, env.Owners(shared), "expected data stack, two holds, and two array entries")

	env.ClearHolds()
	assert.Equal(t, 3, env.Owners(shared), "expected hold ownership released")
	env.Collect()
	assert.False(t, env.Valid(a), "expected unrooted array reclaimed")
	assert.Equal(t, 1, env.Owners(shared), "expected reclaimed array to release its entries")
	assert.True(t, env.Valid(shared), "expected shared number to survive on the data stack")
}

// survivors renders every live non-root object, sorted, so that envs with
// different slot assignments can be compared.
func survivors(env *Env) []string {
	var out []string
	for _, ref := range env.Live() {
		if ref.Slot() < standingRoots {
			continue
		}
		out = append(out, env.TypeOf(ref).String()+":"+strings.TrimSpace(env.Sprint(ref)))
	}
	sort.Strings(out)
	return out
}

func Test_Collect_strict(t *testing.T) {
	build := func(t *testing.T, env *Env) {
		ds := env.Root(RootDataStack)
		arr := mustArray(t, env)
		require.NoError(t, env.Push(ds, arr))
		for i := int64(0); i < 40; i++ {
			require.NoError(t, env.Epoch(func() error {
				num := mustNumber(t, env, i)
				if i%3 == 0 {
					mustStore(t, env, arr, i/3, num)
				}
				if i%5 == 0 {
					str, err := env.NewString("s")
					if err != nil {
						return err
					}
					return env.Push(ds, str)
				}
				return nil
			}))
		}
		env.Collect()
	}

	lazy := newTestEnv(t, WithCapacity(48))
	build(t, lazy)
	strict := newTestEnv(t, WithCapacity(48), WithStrictGC(true))
	build(t, strict)

	assert.Equal(t, survivors(lazy), survivors(strict), "expected identical survivor sets")
	assert.Greater(t, strict.Stats().Collections, lazy.Stats().Collections, "expected strict mode to collect more")
}

func Test_Collect_badMark(t *testing.T) {
	env := newTestEnv(t, WithCapacity(8))
	num := mustNumber(t, env, 1)
	require.NoError(t, env.SetRoot(RootInput, num))
	env.roots[RootInput] = Ref{slot: num.slot, gen: num.gen + 1}
	assert.Panics(t, func() { env.Collect() }, "expected marking a stale root to panic")
}

func Test_SetRoot(t *testing.T) {
	env := newTestEnv(t, WithCapacity(8))
	str, err := env.NewString("1 2 +")
	require.NoError(t, err)

	require.NoError(t, env.SetRoot(RootInput, str))
	assert.Equal(t, str, env.Root(RootInput))
	env.Collect()
	assert.True(t, env.Valid(str), "expected input root to keep its string")

	assert.Equal(t, CodeUnsupported, CodeOf(env.SetRoot(RootHold, Nil)), "expected hold root to be fixed")
	assert.Equal(t, CodeBadIndex, CodeOf(env.SetRoot(numRoots, Nil)), "expected invalid root rejected")

	require.NoError(t, env.SetRoot(RootInput, Nil))
	env.Collect()
	assert.False(t, env.Valid(str), "expected cleared input root to drop its string")
	assert.Equal(t, CodeStaleRef, CodeOf(env.SetRoot(RootInput, str)), "expected stale ref rejected")

	assert.Len(t, Roots(), 8, "expected eight roots")
	assert.Equal(t, "hold stack", RootHold.String())
}
