package fluor

import mapset "github.com/deckarep/golang-set/v2"

// EventKind tags the variant of an Event.
type EventKind int

const (
	// EventCached fires when a cell transitions uncached -> cached via
	// evaluation.
	EventCached EventKind = iota
	// EventInvalidated fires when a cached cell becomes uncached, either
	// because an upstream cell changed or because it was invalidated
	// directly.
	EventInvalidated
	// EventSet fires when a cell's value is explicitly assigned.
	EventSet
	// EventCleared fires when a cell is explicitly cleared.
	EventCleared
	// EventCallerAdded fires on a callee when a new caller wires itself
	// in.
	EventCallerAdded
	// EventCallerRemoved fires on a callee when a caller's edge is torn
	// down.
	EventCallerRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventCached:
		return "Cached"
	case EventInvalidated:
		return "Invalidated"
	case EventSet:
		return "Set"
	case EventCleared:
		return "Cleared"
	case EventCallerAdded:
		return "CallerAdded"
	case EventCallerRemoved:
		return "CallerRemoved"
	default:
		return "Unknown"
	}
}

// Event is the tagged variant delivered to a cell's listener describing
// one of its lifecycle transitions. Not every field is populated for
// every Kind: Value only accompanies Cached and Set; Callees only
// accompanies Cached; Caller only accompanies CallerAdded/CallerRemoved.
type Event[T any] struct {
	Kind    EventKind
	Value   T
	Callees mapset.Set[GraphNode]
	Caller  GraphNode
}
