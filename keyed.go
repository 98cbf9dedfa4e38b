package fluor

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// ParameterizedMap maps a key (or key tuple, via Key2/Key3) to a cell,
// created on demand by getter. It is its own listener on every child
// cell: an Invalidated or Cleared child is forgotten entirely — not
// kept around uncached — while a Set child is retained.
type ParameterizedMap[K comparable, T any] struct {
	ctx      *Context
	getter   func(K) (T, error)
	listener func(K, Event[T])

	// cells is the identity cache: every key ever applied, cached or
	// not, so repeated Apply calls on the same key return the same
	// cell. cachedOrder tracks only the subset currently cached, in the
	// order each was most recently cached — Keys()/Len() report that
	// subset, matching "iterating the map yields currently cached
	// keys."
	cells       map[K]*Cell[T]
	cachedOrder []K
}

// MapOption configures a ParameterizedMap at construction.
type MapOption[K comparable, T any] func(*ParameterizedMap[K, T])

// WithMapListener attaches fn as the forwarding listener: every event
// other than Invalidated/Cleared (which the map consumes to evict) is
// forwarded to fn with its key prepended.
func WithMapListener[K comparable, T any](fn func(K, Event[T])) MapOption[K, T] {
	return func(m *ParameterizedMap[K, T]) { m.listener = fn }
}

// NewParameterizedMap builds a map over ctx using getter to compute a
// child cell's value the first time that child is read.
func NewParameterizedMap[K comparable, T any](ctx *Context, getter func(K) (T, error), opts ...MapOption[K, T]) *ParameterizedMap[K, T] {
	m := &ParameterizedMap[K, T]{
		ctx:    ctx,
		getter: getter,
		cells:  make(map[K]*Cell[T]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply returns the existing cell for key, or creates one whose
// expression evaluates getter at that key on its first Get. The
// returned cell is a plain Computed cell bound
// to this map's Context; it participates in the graph exactly like any
// other cell, and is additionally supervised by the map for eviction.
func (m *ParameterizedMap[K, T]) Apply(key K) Readable[T] {
	if c, ok := m.cells[key]; ok {
		return c
	}

	k := key
	c := &Cell[T]{ctx: m.ctx, expr: func() (T, error) { return m.getter(k) }}
	c.listener = func(ev Event[T]) { m.handleChildEvent(k, ev) }

	m.cells[key] = c
	return c
}

func (m *ParameterizedMap[K, T]) handleChildEvent(key K, ev Event[T]) {
	switch ev.Kind {
	case EventCached:
		m.cachedOrder = append(m.cachedOrder, key)
	case EventSet:
		if !slices.Contains(m.cachedOrder, key) {
			m.cachedOrder = append(m.cachedOrder, key)
		}
	case EventInvalidated, EventCleared:
		m.evict(key)
		return
	}
	if m.listener != nil {
		m.listener(key, ev)
	}
}

// evict forgets key entirely: it is removed from the identity cache as
// well as the cached-keys list, so a later Apply recreates its cell
// from scratch rather than returning a stale uncached one.
func (m *ParameterizedMap[K, T]) evict(key K) {
	if _, ok := m.cells[key]; !ok {
		return
	}
	delete(m.cells, key)
	for i, k := range m.cachedOrder {
		if k == key {
			m.cachedOrder = append(m.cachedOrder[:i], m.cachedOrder[i+1:]...)
			break
		}
	}
}

// Keys returns the currently cached keys, in the order they were most
// recently cached.
func (m *ParameterizedMap[K, T]) Keys() []K {
	out := make([]K, len(m.cachedOrder))
	copy(out, m.cachedOrder)
	return out
}

// Len returns the number of currently cached keys.
func (m *ParameterizedMap[K, T]) Len() int {
	return len(m.cachedOrder)
}

// Fingerprint returns a short, stable correlation id for key, for use
// in debug/log output where printing the key itself would be too wide
// or too noisy.
func (m *ParameterizedMap[K, T]) Fingerprint(key K) string {
	return fingerprint(key)
}

func fingerprint[K any](key K) string {
	return fmt.Sprintf("%08x", xxhash.Sum64String(fmt.Sprintf("%v", key))&0xffffffff)
}

// Key2 is a comparable 2-tuple key, for the common case of a
// ParameterizedMap keyed by a pair of values.
type Key2[A, B comparable] struct {
	A A
	B B
}

// Key3 is a comparable 3-tuple key.
type Key3[A, B, C comparable] struct {
	A A
	B B
	C C
}
