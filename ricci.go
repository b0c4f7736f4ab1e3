package curvature

import (
	"context"

	"github.com/njchilds90/curvature/symbolic"
)

// Ricci returns Ric[j,l] = Σ_i R[i,j,i,l], the contraction of the Riemann
// tensor over its first and third indices.
func (e *Engine) Ricci(ctx context.Context) (*Tensor, error) {
	return memoize(ctx, e, StageRicci, &e.ricci, (*Tensor).Len, e.computeRicci)
}

func (e *Engine) computeRicci(ctx context.Context) (*Tensor, error) {
	riem, err := e.Riemann(ctx)
	if err != nil {
		return nil, err
	}
	n := e.Dim()
	ric := newTensor("Ricci", 2, n, SymmetricLastPair)
	err = e.forEach(ctx, ric.Len(), func(_ context.Context, off int) error {
		j, l := off/n, off%n
		terms := make([]symbolic.Expr, n)
		for i := 0; i < n; i++ {
			terms[i] = riem.At(i, j, i, l)
		}
		v, err := e.backend.Simplify(symbolic.AddOf(terms...))
		if err != nil {
			return simplifyError(StageRicci, err, j, l)
		}
		ric.set(v, j, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ric, nil
}

// RicciScalar returns Σ_i Σ_j g⁻¹[i,j] Ric[i,j]. The sum is cached as
// accumulated, without a further simplification pass.
func (e *Engine) RicciScalar(ctx context.Context) (symbolic.Expr, error) {
	return memoize(ctx, e, StageRicciScalar, &e.scalar, func(symbolic.Expr) int { return 1 }, e.computeRicciScalar)
}

func (e *Engine) computeRicciScalar(ctx context.Context) (symbolic.Expr, error) {
	ric, err := e.Ricci(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := e.Dim()
	terms := make([]symbolic.Expr, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			terms = append(terms, symbolic.MulOf(e.inverse.Get(i, j), ric.At(i, j)))
		}
	}
	return symbolic.AddOf(terms...), nil
}
