package fluor_test

import (
	"runtime"
	"sync"
	"testing"

	fluor "github.com/eb2501/fluor-core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 — recompute transparency.
func TestScenarioRecomputeTransparency(t *testing.T) {
	ctx := fluor.NewContext()
	n := fluor.NewMutable(ctx, 0)
	evals := 0
	var invalidated int
	tc := fluor.NewComputed(ctx, func() (int, error) {
		evals++
		v, err := n.Get()
		if err != nil {
			return 0, err
		}
		return (v+2)+3 + (v+2)*2, nil
	}, fluor.WithListener(func(ev fluor.Event[int]) {
		if ev.Kind == fluor.EventInvalidated {
			invalidated++
		}
	}))

	v, err := tc.Get()
	require.NoError(t, err)
	assert.Equal(t, 9, v)

	require.NoError(t, n.Set(1))

	v, err = tc.Get()
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	assert.Equal(t, 1, invalidated)
	assert.Equal(t, 2, evals)
}

// S2 — caller order: two independent readers of t applied in order
// v1 then v2 produce t.callers() == [v1, v2].
type fluorView struct {
	u fluor.Readable[int]
}

func newFluorView(ctx *fluor.Context, t fluor.Readable[int], mod int) *fluorView {
	v := &fluorView{}
	v.u = fluor.NewComputed(ctx, func() (int, error) {
		val, err := t.Get()
		if err != nil {
			return 0, err
		}
		return val % mod, nil
	})
	return v
}

func TestScenarioCallerOrder(t *testing.T) {
	ctx := fluor.NewContext()
	n := fluor.NewMutable(ctx, 0)
	tc := fluor.NewComputed(ctx, func() (int, error) {
		v, err := n.Get()
		if err != nil {
			return 0, err
		}
		return v + 2 + 3 + (v+2)*2, nil
	})

	v1 := newFluorView(ctx, tc, 7)
	v2 := newFluorView(ctx, tc, 12)

	_, err := v1.u.Get()
	require.NoError(t, err)
	_, err = v2.u.Get()
	require.NoError(t, err)

	callers, ok := tc.(fluor.GraphNode).Callers()
	require.True(t, ok)
	require.Len(t, callers, 2)
	assert.Same(t, v1.u.(fluor.GraphNode), callers[0])
	assert.Same(t, v2.u.(fluor.GraphNode), callers[1])
}

// S3 — dynamic topology: the callee set reflects only the branch
// actually taken during the last evaluation.
func TestScenarioDynamicTopology(t *testing.T) {
	ctx := fluor.NewContext()
	x := fluor.NewMutable(ctx, 0)
	y := fluor.NewSource(ctx, 11)
	flag := fluor.NewSource(ctx, true)

	tc := fluor.NewComputed(ctx, func() (int, error) {
		xv, err := x.Get()
		if err != nil {
			return 0, err
		}
		a := xv * 2
		fv, err := flag.Get()
		if err != nil {
			return 0, err
		}
		if fv {
			yv, err := y.Get()
			if err != nil {
				return 0, err
			}
			return a + yv, nil
		}
		return a + 1, nil
	})

	v, err := tc.Get()
	require.NoError(t, err)
	assert.Equal(t, 11, v)

	callees, ok := tc.(fluor.GraphNode).Callees()
	require.True(t, ok)
	require.Len(t, callees, 3)
	assert.Same(t, x.(fluor.GraphNode), callees[0])
	assert.Same(t, flag.(fluor.GraphNode), callees[1])
	assert.Same(t, y.(fluor.GraphNode), callees[2])

	require.NoError(t, flag.Set(false))

	v, err = tc.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	callees, ok = tc.(fluor.GraphNode).Callees()
	require.True(t, ok)
	require.Len(t, callees, 2)
	assert.Same(t, x.(fluor.GraphNode), callees[0])
	assert.Same(t, flag.(fluor.GraphNode), callees[1])
}

// S4 — weak callers: dropping the only external reference to a reader
// cell eventually drops it from its callee's caller set.
type reader struct {
	y fluor.Readable[int]
}

func TestScenarioWeakCallers(t *testing.T) {
	ctx := fluor.NewContext()
	mx := fluor.NewSource(ctx, 1)

	func() {
		r := &reader{}
		r.y = fluor.NewComputed(ctx, func() (int, error) {
			v, err := mx.Get()
			if err != nil {
				return 0, err
			}
			return v + 1, nil
		})
		_, err := r.y.Get()
		require.NoError(t, err)

		callers, ok := mx.(fluor.GraphNode).Callers()
		require.True(t, ok)
		assert.Len(t, callers, 1)
	}()

	runtime.GC()
	runtime.GC()

	callers, ok := mx.(fluor.GraphNode).Callers()
	require.True(t, ok)
	assert.Len(t, callers, 0)
}

// S5 — forbidden side effect: a set invoked on any cell mid-evaluation
// fails with ErrForbiddenDuringEvaluation.
func TestScenarioForbiddenSideEffect(t *testing.T) {
	ctx := fluor.NewContext()
	x := fluor.NewSource(ctx, 1)
	y := fluor.NewSource(ctx, true)
	var setErr error
	z := fluor.NewComputed(ctx, func() (int, error) {
		setErr = y.Set(false)
		xv, err := x.Get()
		if err != nil {
			return 0, err
		}
		return xv + 1, nil
	})

	v, err := z.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.ErrorIs(t, setErr, fluor.ErrForbiddenDuringEvaluation)
}

// S6 — thread isolation: a cell constructed on T1 fails when touched
// from T2, regardless of operation.
func TestScenarioThreadIsolation(t *testing.T) {
	ctx := fluor.NewContext()
	mx := fluor.NewSource(ctx, 1)

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- mx.Set(2)
	}()
	wg.Wait()

	assert.ErrorIs(t, <-errCh, fluor.ErrInvalidThread)
}
