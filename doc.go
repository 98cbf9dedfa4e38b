// Package fluor is an implicit reactive caching engine.
//
// # Overview
//
// fluor lets a program declare computations as a graph of cells, where
// each cell's value is lazily computed from an expression that may
// transparently read other cells. The engine discovers those reads at
// evaluation time, records a dependency graph, caches computed values,
// and invalidates them precisely when upstream cells change — no
// explicit subscription, no manual dirty-marking.
//
//	ctx := fluor.NewContext()
//
//	n := fluor.NewSource(ctx, 0)
//	t := fluor.NewComputed(ctx, func() (int, error) {
//	    v, err := n.Get()
//	    if err != nil {
//	        return 0, err
//	    }
//	    return (v+2)+3 + (v+2)*2, nil
//	})
//
//	val, _ := t.Get() // 9
//	n.Set(1)
//	val, _ = t.Get() // 12, t was transparently invalidated and re-run
//
// # Cells
//
// Three capability levels are exposed through nested interfaces:
// Readable (Get), Writable (Get+Set) and Clearable (Get+Set+Clear).
// Constructors hand back the narrowest interface that fits the cell's
// role:
//
//	fluor.NewComputed  // Readable[T]  — derives its value from expr
//	fluor.NewSource    // Writable[T]  — plain settable value, no clear
//	fluor.NewMutable   // Clearable[T] — settable and explicitly clearable
//
// Any of these, when backed by the engine (as opposed to a Proxy), also
// implements GraphNode, which exposes IsCached, Callees and Callers for
// introspection. GraphNode is not part of the Writable contract, so a
// Proxy (see below) can stand in for a cell without claiming to
// participate in the graph.
//
// # Contexts and threads
//
// Every cell is bound, at construction, to the Context passed to its
// constructor, and a Context belongs to the goroutine that called
// NewContext. Constructing a cell does not check the calling goroutine.
// Every later operation on that cell checks that it is running on the
// Context's goroutine, failing with
// ErrInvalidThread otherwise. This is the engine's only concurrency
// rule: one Context per goroutine, no cell touched from any other
// goroutine, ever. There are no locks inside a Context because nothing
// else is allowed to touch it.
//
// # Events
//
// A cell may be constructed with a listener that observes its
// lifecycle: Cached, Invalidated, Set, Cleared, CallerAdded and
// CallerRemoved (see Event and EventKind). Listener panics are caught,
// logged through the Context's logger, and never corrupt graph state.
//
// # Proxies
//
// NewProxy / NewWritableProxy / NewClearableProxy build a Readable,
// Writable or Clearable backed entirely by user callbacks. A proxy
// holds no Nucleus and never appears as anyone's callee; if its getter
// happens to read engine cells, those reads are tracked normally against
// whatever cell is currently evaluating.
//
// # Parameterized cell maps
//
// ParameterizedMap turns a keyed getter into a family of cells created
// on demand: Apply(key) returns the existing cell for that key, or
// builds one. The map listens to each child cell itself, so an
// Invalidated or Cleared child is forgotten entirely rather than kept
// around uncached; a Set child is retained.
//
// # Thread safety
//
// Cells are not safe for concurrent use by design: a Context, and every
// cell bound to it, belongs to exactly one goroutine for its entire
// life. Build one independent graph per goroutine if you need
// concurrency; there is no cross-context edge, ever.
package fluor
