package fluor

import (
	"fmt"
	"weak"

	mapset "github.com/deckarep/golang-set/v2"
)

// Readable is the narrowest capability: a value that can be read.
type Readable[T any] interface {
	// Get returns the cell's current value, evaluating and caching it
	// first if necessary. It fails with ErrInvalidThread if called from
	// a goroutine other than the cell's owning Context, or with
	// whatever error the cell's expression produced.
	Get() (T, error)
}

// Writable extends Readable with the ability to assign a new value
// directly, bypassing the expression entirely.
type Writable[T any] interface {
	Readable[T]
	// Set assigns value, invalidating any existing cached derivation
	// first. Fails with ErrForbiddenDuringEvaluation if a get() is in
	// progress on the owning goroutine.
	Set(value T) error
}

// Clearable extends Writable with the ability to drop back to
// uncached.
type Clearable[T any] interface {
	Writable[T]
	// Clear drops the cell back to uncached, recursively invalidating
	// its current callers first. Fails with
	// ErrForbiddenDuringEvaluation if a get() is in progress.
	Clear() error
}

// Option configures a Cell at construction.
type Option[T any] func(*Cell[T])

// WithListener attaches fn as the cell's event listener. A panic from
// fn is recovered, logged through the owning Context, and never
// corrupts graph state.
func WithListener[T any](fn func(Event[T])) Option[T] {
	return func(c *Cell[T]) { c.listener = fn }
}

// Cell is a reactive node: an expression thunk (possibly nil, for a
// plain source value), an optional listener, and either no Nucleus
// (uncached) or exactly one (cached). Cell implements Readable[T],
// Writable[T], Clearable[T] and GraphNode; constructors return whichever
// of these interfaces fits the cell's intended role.
type Cell[T any] struct {
	ctx        *Context
	expr       func() (T, error)
	listener   func(Event[T])
	suppressed bool
	nucleus    *nucleus[T]
}

// NewComputed builds a cell whose value is derived from expr. expr may
// transparently call Get on other cells bound to the same Context; each
// such read is recorded as a callee the first time it happens during an
// evaluation, regardless of how deeply nested inside helper functions
// the call is — detection rests solely on whether an evaluation is in
// progress, not on lexical position.
func NewComputed[T any](ctx *Context, expr func() (T, error), opts ...Option[T]) Readable[T] {
	c := &Cell[T]{ctx: ctx, expr: expr}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSource builds a plain settable cell, cached from construction with
// initial, no expression, and no clear capability.
func NewSource[T any](ctx *Context, initial T, opts ...Option[T]) Writable[T] {
	c := &Cell[T]{ctx: ctx, nucleus: newNucleus(initial, nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewMutable builds a settable cell that can also be explicitly
// cleared back to uncached.
func NewMutable[T any](ctx *Context, initial T, opts ...Option[T]) Clearable[T] {
	c := &Cell[T]{ctx: ctx, nucleus: newNucleus(initial, nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements the cell state machine's get operation.
func (c *Cell[T]) Get() (T, error) {
	var zero T
	if err := c.ctx.checkThread(); err != nil {
		return zero, err
	}

	if f := c.ctx.currentFrame(); f != nil {
		f.record(c)
	}

	if c.nucleus != nil {
		return c.nucleus.value, nil
	}

	if c.expr == nil {
		return zero, ErrSourceUncached
	}

	f := c.ctx.pushFrame()
	value, err := c.expr()
	c.ctx.popFrame()
	if err != nil {
		// the cell stays uncached, no edges are installed, no event
		// fires.
		return zero, err
	}

	callees := f.snapshot()
	for _, callee := range callees {
		callee.addCaller(c)
		callee.fireCallerAdded(c)
	}

	c.nucleus = newNucleus(value, callees)
	c.emit(Event[T]{Kind: EventCached, Value: value, Callees: calleeSet(callees)})

	return value, nil
}

// Set implements the cell state machine's set operation.
func (c *Cell[T]) Set(value T) error {
	if err := c.ctx.checkThread(); err != nil {
		return err
	}
	if !c.ctx.stackEmpty() {
		return ErrForbiddenDuringEvaluation
	}

	c.silenced(func() { c.invalidate() })
	c.nucleus = newNucleus(value, nil)
	c.emit(Event[T]{Kind: EventSet, Value: value})
	return nil
}

// Clear implements the cell state machine's clear operation.
func (c *Cell[T]) Clear() error {
	if err := c.ctx.checkThread(); err != nil {
		return err
	}
	if !c.ctx.stackEmpty() {
		return ErrForbiddenDuringEvaluation
	}

	c.silenced(func() { c.invalidate() })
	c.emit(Event[T]{Kind: EventCleared})
	return nil
}

// silenced suppresses c's own listener for the duration of fn, then
// restores the previous suppression state. The composite operation
// (Set/Clear/upstream invalidation) still emits exactly one terminal
// event afterwards, outside this scope.
func (c *Cell[T]) silenced(fn func()) {
	prev := c.suppressed
	c.suppressed = true
	defer func() { c.suppressed = prev }()
	fn()
}

// invalidate is the internal operation callable from any state. It is
// reachable from Set/Clear on this cell (silenced) and from a callee's
// invalidate() recursing onto its callers (not silenced, so each
// caller fires its own Invalidated). While its callers are being
// invalidated, c's own listener is silenced.
func (c *Cell[T]) invalidate() {
	if c.nucleus == nil {
		return
	}
	nu := c.nucleus

	callers := nu.callersOrdered()
	c.silenced(func() {
		for _, caller := range callers {
			caller.invalidate()
		}
	})

	for _, callee := range nu.callees {
		callee.removeCaller(c)
		callee.fireCallerRemoved(c)
	}

	c.nucleus = nil
	c.emit(Event[T]{Kind: EventInvalidated})
}

func (c *Cell[T]) emit(ev Event[T]) {
	if c.suppressed || c.listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.ctx.logListenerPanic(c.debugLabel(), r)
		}
	}()
	c.listener(ev)
}

func (c *Cell[T]) debugLabel() string {
	return fmt.Sprintf("%p", c)
}

// IsCached implements GraphNode.
func (c *Cell[T]) IsCached() bool {
	return c.nucleus != nil
}

// Callees implements GraphNode.
func (c *Cell[T]) Callees() ([]GraphNode, bool) {
	if c.nucleus == nil {
		return nil, false
	}
	return nodesToGraphNodes(c.nucleus.callees), true
}

// Callers implements GraphNode.
func (c *Cell[T]) Callers() ([]GraphNode, bool) {
	if c.nucleus == nil {
		return nil, false
	}
	return nodesToGraphNodes(c.nucleus.callersOrdered()), true
}

func (c *Cell[T]) addCaller(n node) {
	if c.nucleus != nil {
		c.nucleus.addCaller(n)
	}
}

func (c *Cell[T]) removeCaller(n node) {
	if c.nucleus != nil {
		c.nucleus.removeCaller(n)
	}
}

func (c *Cell[T]) fireCallerAdded(n node) {
	c.emit(Event[T]{Kind: EventCallerAdded, Caller: n})
}

func (c *Cell[T]) fireCallerRemoved(n node) {
	c.emit(Event[T]{Kind: EventCallerRemoved, Caller: n})
}

func (c *Cell[T]) asWeakNode() weakNode {
	return weakNodeOf[T]{ptr: weak.Make(c)}
}

func calleeSet(callees []node) mapset.Set[GraphNode] {
	s := mapset.NewSet[GraphNode]()
	for _, callee := range callees {
		s.Add(callee)
	}
	return s
}
