package fluor

import (
	"bytes"
	"log"
	"runtime"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Context is the per-goroutine home for a set of cells. It owns the
// evaluation stack (the LIFO of in-flight frames) and a logger used to
// report suppressed listener panics. Every cell is bound, at
// construction, to the Context passed to its constructor; every later
// operation on that cell checks that it runs on the goroutine that
// created that Context. Construction itself does not check the
// goroutine.
type Context struct {
	owner  uint64
	stack  []*frame
	logger *log.Logger
}

// ContextOption configures a Context at construction.
type ContextOption func(*Context)

// WithLogger overrides the logger used to report suppressed listener
// panics. The default is log.Default().
func WithLogger(l *log.Logger) ContextOption {
	return func(c *Context) { c.logger = l }
}

// NewContext creates a Context bound to the calling goroutine. Cells
// constructed against this Context may only ever be operated on from
// that same goroutine.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		owner:  currentGoroutineID(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) checkThread() error {
	if currentGoroutineID() != c.owner {
		return ErrInvalidThread
	}
	return nil
}

func (c *Context) stackEmpty() bool {
	return len(c.stack) == 0
}

func (c *Context) currentFrame() *frame {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *Context) pushFrame() *frame {
	f := newFrame()
	c.stack = append(c.stack, f)
	return f
}

func (c *Context) popFrame() {
	c.stack = c.stack[:len(c.stack)-1]
}

// logListenerPanic reports a listener panic recovered during event
// delivery. It never propagates; graph state is unaffected by a
// listener failure.
func (c *Context) logListenerPanic(owner string, recovered any) {
	id := xxhash.Sum64String(owner) & 0xffffff
	c.logger.Printf("fluor: listener panic recovered [cell %06x]: %v", id, recovered)
}

// currentGoroutineID extracts the calling goroutine's id by parsing the
// header line of runtime.Stack, the standard technique used in the Go
// ecosystem (e.g. petermattis/goid) in the absence of any true
// goroutine-local storage. It is used only to enforce the
// single-thread-ownership invariant; it never blocks or allocates more
// than a small fixed buffer.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]
	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(b[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
