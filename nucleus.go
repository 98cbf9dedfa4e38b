package fluor

// callerEntry is one weakly-held caller of a cached cell, tagged with
// the counter value it was inserted at so callersOrdered can recover
// first-insertion order even across removals. weak is the only
// callee-side reference to the caller: nothing here may hold n
// strongly, or a dropped consumer cell could never be collected.
type callerEntry struct {
	weak    weakNode
	counter uint64
	removed bool
}

// nucleus is the populated cache payload of a cached cell: the
// memoized value, the exact ordered/deduped callees read to produce it
// (strongly referenced), and the set of callers that read this cell
// while evaluating their own expression (weakly referenced, ordered by
// first insertion).
type nucleus[T any] struct {
	value T
	// callees is strongly referenced: the graph can only be acyclic
	// because an edge only forms once the callee is already cached, so
	// there is no risk of a strong reference cycle here.
	callees []node

	// callerOrder is the only bookkeeping for callers. There is
	// deliberately no map keyed by the caller itself: a map key is a
	// strong reference, which would pin every caller in memory and
	// defeat the weak callerEntry.weak it sits next to. Lookup by
	// identity is done by resolving each entry's weak pointer and
	// comparing, which is O(n) but touches no strong caller reference.
	callerOrder []*callerEntry
	nextCounter uint64
}

func newNucleus[T any](value T, callees []node) *nucleus[T] {
	return &nucleus[T]{value: value, callees: callees}
}

// addCaller inserts n with the next counter value. Re-insertion of an
// existing caller should not occur under correct wiring; if it does, a
// second entry is recorded and the counter still advances, which only
// affects iteration order of a situation that should not arise.
func (nu *nucleus[T]) addCaller(n node) {
	entry := &callerEntry{weak: n.asWeakNode(), counter: nu.nextCounter}
	nu.nextCounter++
	nu.callerOrder = append(nu.callerOrder, entry)
}

// removeCaller tombstones the entry resolving to n; a no-op if n is
// not a live caller (it may have already been reclaimed as a weak
// reference). Locating the entry requires resolving weak pointers
// rather than a map lookup, since no strong reference to n is kept
// anywhere in the nucleus.
func (nu *nucleus[T]) removeCaller(n node) {
	for _, entry := range nu.callerOrder {
		if entry.removed {
			continue
		}
		resolved, ok := entry.weak.resolve()
		if !ok {
			continue
		}
		if resolved == n {
			entry.removed = true
			return
		}
	}
}

// callersOrdered returns the live callers in ascending order of
// first-insertion counter, filtering both explicitly-removed entries
// and entries whose weak reference has been reclaimed by the host. It
// also compacts callerOrder in place so a long-lived cell churning
// callers does not accumulate tombstones forever.
func (nu *nucleus[T]) callersOrdered() []node {
	live := make([]node, 0, len(nu.callerOrder))
	compact := nu.callerOrder[:0]
	for _, entry := range nu.callerOrder {
		if entry.removed || entry.weak == nil {
			continue
		}
		n, ok := entry.weak.resolve()
		if !ok {
			continue
		}
		live = append(live, n)
		compact = append(compact, entry)
	}
	nu.callerOrder = compact
	return live
}
