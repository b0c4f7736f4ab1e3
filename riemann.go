package curvature

import (
	"context"

	"github.com/njchilds90/curvature/symbolic"
)

// Riemann returns the curvature tensor R[i,j,k,l], first index upper:
//
//	R[i,j,k,l] = Σ_s (Γ[s,j,l] Γ[i,k,s] − Γ[s,j,k] Γ[i,l,s]) + ∂_k Γ[i,j,l] − ∂_l Γ[i,j,k]
//
// It derives the Christoffel symbols first if needed.
func (e *Engine) Riemann(ctx context.Context) (*Tensor, error) {
	return memoize(ctx, e, StageRiemann, &e.riemann, (*Tensor).Len, e.computeRiemann)
}

func (e *Engine) computeRiemann(ctx context.Context) (*Tensor, error) {
	gamma, err := e.Christoffel(ctx)
	if err != nil {
		return nil, err
	}
	n := e.Dim()

	// dGamma[m] holds ∂Γ/∂x^m in Γ's row-major layout.
	dGamma := make([][]symbolic.Expr, n)
	for m := range dGamma {
		dGamma[m] = make([]symbolic.Expr, gamma.Len())
	}
	err = e.forEach(ctx, n*gamma.Len(), func(_ context.Context, off int) error {
		m, g := off/gamma.Len(), off%gamma.Len()
		src := gamma.comps[g]
		if symbolic.IsZero(src) {
			dGamma[m][g] = symbolic.N(0)
			return nil
		}
		d, err := e.backend.Diff(src, e.coords[m])
		if err != nil {
			return diffError(StageRiemann, err, append(gamma.index(g), m)...)
		}
		dGamma[m][g] = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	dG := func(m, i, j, k int) symbolic.Expr { return dGamma[m][gamma.offset([]int{i, j, k})] }

	riem := newTensor("Riemann", 4, n, AntisymmetricLastPair)
	err = e.forEach(ctx, riem.Len(), func(_ context.Context, off int) error {
		idx := riem.index(off)
		i, j, k, l := idx[0], idx[1], idx[2], idx[3]
		terms := make([]symbolic.Expr, 0, 2*n+2)
		for s := 0; s < n; s++ {
			terms = append(terms,
				symbolic.MulOf(gamma.At(s, j, l), gamma.At(i, k, s)),
				symbolic.NegOf(symbolic.MulOf(gamma.At(s, j, k), gamma.At(i, l, s))),
			)
		}
		terms = append(terms, dG(k, i, j, l), symbolic.NegOf(dG(l, i, j, k)))
		v, err := e.backend.Simplify(symbolic.AddOf(terms...))
		if err != nil {
			return simplifyError(StageRiemann, err, i, j, k, l)
		}
		riem.set(v, i, j, k, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return riem, nil
}
