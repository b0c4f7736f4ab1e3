package curvature

import (
	"context"

	"github.com/njchilds90/curvature/symbolic"
)

// Christoffel returns the connection coefficients Γ[i,j,k], first index
// upper:
//
//	Γ[i,j,k] = ½ Σ_s g⁻¹[i,s] (∂_k g[s,j] + ∂_j g[s,k] − ∂_s g[j,k])
//
// Every component is simplified before it is cached.
func (e *Engine) Christoffel(ctx context.Context) (*Tensor, error) {
	return memoize(ctx, e, StageChristoffel, &e.christoffel, (*Tensor).Len, e.computeChristoffel)
}

func (e *Engine) computeChristoffel(ctx context.Context) (*Tensor, error) {
	n := e.Dim()

	// dg[k][a][b] = ∂g[a,b]/∂x^k
	dg := make([][][]symbolic.Expr, n)
	for k := range dg {
		dg[k] = make([][]symbolic.Expr, n)
		for a := range dg[k] {
			dg[k][a] = make([]symbolic.Expr, n)
		}
	}
	err := e.forEach(ctx, n*n*n, func(_ context.Context, off int) error {
		k, a, b := off/(n*n), (off/n)%n, off%n
		d, err := e.backend.Diff(e.metric.Get(a, b), e.coords[k])
		if err != nil {
			return diffError(StageChristoffel, err, a, b, k)
		}
		dg[k][a][b] = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	gamma := newTensor("Gamma", 3, n, SymmetricLastPair)
	err = e.forEach(ctx, gamma.Len(), func(_ context.Context, off int) error {
		idx := gamma.index(off)
		i, j, k := idx[0], idx[1], idx[2]
		terms := make([]symbolic.Expr, 0, n)
		for s := 0; s < n; s++ {
			ginv := e.inverse.Get(i, s)
			if symbolic.IsZero(ginv) {
				continue
			}
			terms = append(terms, symbolic.MulOf(ginv, symbolic.AddOf(
				dg[k][s][j],
				dg[j][s][k],
				symbolic.NegOf(dg[s][j][k]),
			)))
		}
		v, err := e.backend.Simplify(symbolic.MulOf(symbolic.F(1, 2), symbolic.AddOf(terms...)))
		if err != nil {
			return simplifyError(StageChristoffel, err, i, j, k)
		}
		gamma.set(v, i, j, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gamma, nil
}
