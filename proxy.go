package fluor

// proxy implements Readable/Writable/Clearable by delegating entirely
// to user-supplied callbacks. It holds no Nucleus and never implements
// GraphNode: a proxy does not appear in the dependency graph at all. If
// its getter reads engine cells, those reads are recorded normally
// against whatever cell is currently evaluating — the proxy itself is
// simply invisible to that bookkeeping.
type proxy[T any] struct {
	get   func() (T, error)
	set   func(T) error
	clear func() error
}

// NewProxy builds a Readable backed by get.
func NewProxy[T any](get func() (T, error)) Readable[T] {
	return &proxy[T]{get: get}
}

// NewWritableProxy builds a Writable backed by get and set.
func NewWritableProxy[T any](get func() (T, error), set func(T) error) Writable[T] {
	return &proxy[T]{get: get, set: set}
}

// NewClearableProxy builds a Clearable backed by get, set and clear.
func NewClearableProxy[T any](get func() (T, error), set func(T) error, clear func() error) Clearable[T] {
	return &proxy[T]{get: get, set: set, clear: clear}
}

func (p *proxy[T]) Get() (T, error) {
	return p.get()
}

func (p *proxy[T]) Set(value T) error {
	return p.set(value)
}

func (p *proxy[T]) Clear() error {
	return p.clear()
}
