package curvature_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/curvature"
	"github.com/njchilds90/curvature/symbolic"
)

// countingBackend wraps the default backend and counts calls.
type countingBackend struct {
	inner    curvature.Backend
	inverses atomic.Int64
	diffs    atomic.Int64
	simps    atomic.Int64
}

func newCountingBackend() *countingBackend {
	return &countingBackend{inner: curvature.DefaultBackend()}
}

func (b *countingBackend) Inverse(m *symbolic.Matrix) (*symbolic.Matrix, error) {
	b.inverses.Add(1)
	return b.inner.Inverse(m)
}

func (b *countingBackend) Diff(e symbolic.Expr, v *symbolic.Sym) (symbolic.Expr, error) {
	b.diffs.Add(1)
	return b.inner.Diff(e, v)
}

func (b *countingBackend) Simplify(e symbolic.Expr) (symbolic.Expr, error) {
	b.simps.Add(1)
	return b.inner.Simplify(e)
}

func (b *countingBackend) calls() (int64, int64) { return b.diffs.Load(), b.simps.Load() }

var errBackend = errors.New("backend refused")

// failingSimplifier fails every Simplify call.
type failingSimplifier struct{ curvature.Backend }

func (failingSimplifier) Simplify(symbolic.Expr) (symbolic.Expr, error) { return nil, errBackend }

// cancellingBackend cancels a context after a number of Simplify calls.
type cancellingBackend struct {
	curvature.Backend
	after  int64
	cancel context.CancelFunc
	n      atomic.Int64
}

func (b *cancellingBackend) Simplify(e symbolic.Expr) (symbolic.Expr, error) {
	if b.n.Add(1) == b.after {
		b.cancel()
	}
	return b.Backend.Simplify(e)
}

// gatedBackend holds the first Simplify call until release is closed.
// started is closed once that call arrives.
type gatedBackend struct {
	curvature.Backend
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		Backend: curvature.DefaultBackend(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *gatedBackend) Simplify(e symbolic.Expr) (symbolic.Expr, error) {
	first := false
	b.once.Do(func() {
		first = true
		close(b.started)
	})
	if first {
		<-b.release
	}
	return b.Backend.Simplify(e)
}

func newEngine(t *testing.T, preset func() ([]*symbolic.Sym, *symbolic.Matrix), opts ...curvature.Option) *curvature.Engine {
	t.Helper()
	coords, metric := preset()
	eng, err := curvature.New(coords, metric, opts...)
	require.NoError(t, err)
	return eng
}

func requireZero(t *testing.T, e symbolic.Expr) {
	t.Helper()
	zero, err := symbolic.ZeroEquivalent(e)
	require.NoError(t, err)
	require.True(t, zero, "expected zero, got %s", e)
}

func requireSame(t *testing.T, a, b symbolic.Expr) {
	t.Helper()
	requireZero(t, symbolic.SubOf(a, b))
}

// indices enumerates every index tuple of the given rank and dimension.
func indices(rank, dim int) [][]int {
	out := [][]int{{}}
	for r := 0; r < rank; r++ {
		var next [][]int
		for _, prefix := range out {
			for i := 0; i < dim; i++ {
				next = append(next, append(append([]int(nil), prefix...), i))
			}
		}
		out = next
	}
	return out
}
