package curvature

import (
	"context"

	"github.com/njchilds90/curvature/symbolic"
)

// Einstein returns G[j,l] = Ric[j,l] − ½ R g[j,l]. Components are
// simplified like the other tensor stages so that a vacuum metric yields
// literal zeros.
func (e *Engine) Einstein(ctx context.Context) (*Tensor, error) {
	return memoize(ctx, e, StageEinstein, &e.einstein, (*Tensor).Len, e.computeEinstein)
}

func (e *Engine) computeEinstein(ctx context.Context) (*Tensor, error) {
	ric, err := e.Ricci(ctx)
	if err != nil {
		return nil, err
	}
	scalar, err := e.RicciScalar(ctx)
	if err != nil {
		return nil, err
	}
	n := e.Dim()
	half := symbolic.MulOf(symbolic.F(1, 2), scalar)
	g := newTensor("Einstein", 2, n, SymmetricLastPair)
	err = e.forEach(ctx, g.Len(), func(_ context.Context, off int) error {
		j, l := off/n, off%n
		v, err := e.backend.Simplify(symbolic.SubOf(ric.At(j, l), symbolic.MulOf(half, e.metric.Get(j, l))))
		if err != nil {
			return simplifyError(StageEinstein, err, j, l)
		}
		g.set(v, j, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// IsVacuum reports whether every Einstein component simplified to zero,
// that is whether the metric solves the vacuum field equations.
func (e *Engine) IsVacuum(ctx context.Context) (bool, error) {
	g, err := e.Einstein(ctx)
	if err != nil {
		return false, err
	}
	return g.IsZero(), nil
}
