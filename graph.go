package fluor

import "weak"

// GraphNode is the introspection capability exposed by engine-backed
// cells (never by a Proxy). It is deliberately not part of the Writable
// contract: a Proxy can satisfy Readable/Writable/Clearable without
// claiming to participate in the dependency graph at all.
type GraphNode interface {
	// IsCached reports whether the cell currently holds a Nucleus.
	IsCached() bool
	// Callees returns the cells read by the last evaluation, in
	// first-read order, or ok=false if the cell is uncached.
	Callees() (callees []GraphNode, ok bool)
	// Callers returns the cells that read this cell while evaluating
	// their own expression, ordered by first insertion, or ok=false if
	// the cell is uncached. Reclaimed (weakly-held) callers are never
	// returned.
	Callers() (callers []GraphNode, ok bool)
}

// node is the internal wiring capability every engine-backed cell
// implements in addition to GraphNode. It lets the engine operate on
// heterogeneously-typed cells (a Cell[int] can be the callee of a
// Cell[string]) without resorting to reflection.
type node interface {
	GraphNode
	addCaller(n node)
	removeCaller(n node)
	fireCallerAdded(n node)
	fireCallerRemoved(n node)
	invalidate()
	asWeakNode() weakNode
}

// weakNode is a type-erased weak reference to a concrete *Cell[T],
// resolved back to a node on demand. Built via weak.Pointer, used
// directly since the runtime offers native weak references.
type weakNode interface {
	resolve() (node, bool)
}

type weakNodeOf[T any] struct {
	ptr weak.Pointer[Cell[T]]
}

func (w weakNodeOf[T]) resolve() (node, bool) {
	c := w.ptr.Value()
	if c == nil {
		return nil, false
	}
	return c, true
}

func nodesToGraphNodes(nodes []node) []GraphNode {
	if nodes == nil {
		return nil
	}
	out := make([]GraphNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
