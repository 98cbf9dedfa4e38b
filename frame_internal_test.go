package fluor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeNode struct {
	id int
}

func (f *fakeNode) IsCached() bool               { return true }
func (f *fakeNode) Callees() ([]GraphNode, bool) { return nil, true }
func (f *fakeNode) Callers() ([]GraphNode, bool) { return nil, true }
func (f *fakeNode) addCaller(n node)             {}
func (f *fakeNode) removeCaller(n node)          {}
func (f *fakeNode) fireCallerAdded(n node)       {}
func (f *fakeNode) fireCallerRemoved(n node)     {}
func (f *fakeNode) invalidate()                  {}
func (f *fakeNode) asWeakNode() weakNode         { return fakeWeakNode{n: f} }

// fakeWeakNode resolves to a fixed *fakeNode unconditionally. It holds
// a strong reference, unlike the production weakNodeOf, but the node
// unit tests never rely on reclamation — only on deterministic
// resolution identical across calls.
type fakeWeakNode struct {
	n *fakeNode
}

func (w fakeWeakNode) resolve() (node, bool) {
	if w.n == nil {
		return nil, false
	}
	return w.n, true
}

// P3 — no duplicate callees, first-read order preserved.
func TestFrameDedupPreservesFirstReadOrder(t *testing.T) {
	f := newFrame()
	a := &fakeNode{id: 1}
	b := &fakeNode{id: 2}

	f.record(a)
	f.record(b)
	f.record(a) // duplicate, should be ignored

	got := f.snapshot()
	assert.Equal(t, []node{a, b}, got)
}

func TestFrameSnapshotIsACopy(t *testing.T) {
	f := newFrame()
	a := &fakeNode{id: 1}
	f.record(a)

	snap := f.snapshot()
	snap[0] = &fakeNode{id: 99}

	assert.Same(t, a, f.snapshot()[0])
}
