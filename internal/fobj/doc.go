/* Package fobj implements the object memory of the fobj interpreter.

Objects live in a fixed-capacity pool of slots. Each object is tagged with one
Type and carries one Payload variant: numbers, strings, tables, arrays,
hashes, stacks, index references, state records, and compiled words. Callers
address objects through Ref handles; a Ref names a slot and the generation of
the object in it, so a Ref that outlives its object is reported as stale
rather than silently aliasing whatever reused the slot.

Memory is reclaimed by a synchronous mark and sweep collector. Marking starts
from a fixed root set (the data and return stacks, the word being compiled,
the new and established word tables, the input buffer, the running word, and
the hold stack) and follows each type's visit hook. Sweeping calls each
garbage object's free hook, which drops its ownership of children without
reclaiming them, then returns the slot to the free list.

Collection runs inside allocation, when the pool is exhausted, so an
allocation may reclaim any object the caller has not yet linked into
something reachable. Such transient objects must be put on the hold stack
first:

	str, err := env.NewString("x")
	if err != nil {
		return err
	}
	if err := env.Hold(str); err != nil {
		return err
	}
	num, err := env.NewNumber(1) // may collect; str survives

The hold stack is never popped; ClearHolds empties it once per unit of work.

Every type supplies some subset of the dispatch operations: visit, free,
print, compare, store, fetch, add and subtract. Calling an operation a type
lacks is a usage error naming both, such as "number <> store not supported".

Usage errors and resource exhaustion are returned as *Error values carrying a
stable Code. Broken internal invariants, such as reclaiming a free slot,
panic with an InvariantError.
*/
package fobj
