package fluor

import mapset "github.com/deckarep/golang-set/v2"

// frame is the per-evaluation accumulator of cells read while a single
// expression is in flight. It lives on the Context's evaluation stack
// and never outlives the get() that pushed it. The membership set gives
// O(1) duplicate suppression while the slice preserves first-read
// order.
type frame struct {
	order []node
	seen  mapset.Set[node]
}

func newFrame() *frame {
	return &frame{seen: mapset.NewSet[node]()}
}

// record adds n to the frame if it has not already been read during
// this evaluation.
func (f *frame) record(n node) {
	if f.seen.Contains(n) {
		return
	}
	f.seen.Add(n)
	f.order = append(f.order, n)
}

// snapshot returns the cells read so far, in first-read order.
func (f *frame) snapshot() []node {
	out := make([]node, len(f.order))
	copy(out, f.order)
	return out
}
