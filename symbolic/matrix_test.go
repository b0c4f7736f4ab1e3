package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/curvature/symbolic"
)

func requireIdentity(t *testing.T, m *symbolic.Matrix) {
	t.Helper()
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			want := symbolic.N(0)
			if i == j {
				want = symbolic.N(1)
			}
			requireSame(t, m.Get(i, j), want)
		}
	}
}

func TestMatrix_GetSetClone(t *testing.T) {
	m := symbolic.NewMatrix(2, 2)
	m.Set(0, 1, x)
	c := m.Clone()
	c.Set(0, 1, y)
	assert.Equal(t, "x", m.Get(0, 1).String())
	assert.Equal(t, "y", c.Get(0, 1).String())
	assert.Equal(t, "[[0, x], [0, 0]]", m.String())
	assert.Panics(t, func() { m.Get(2, 0) })
}

func TestMatrixFromRows_Ragged(t *testing.T) {
	_, err := symbolic.MatrixFromRows([][]symbolic.Expr{{x, y}, {x}})
	assert.Error(t, err)
}

func TestMatrix_Transpose(t *testing.T) {
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{symbolic.N(1), x, y, symbolic.N(2)})
	assert.Equal(t, "[[1, y], [x, 2]]", m.Transpose().String())
}

func TestMatrix_Inverse_General2x2(t *testing.T) {
	a, b, c, d := symbolic.S("a"), symbolic.S("b"), symbolic.S("c"), symbolic.S("d")
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{a, b, c, d})
	inv, err := m.Inverse()
	require.NoError(t, err)

	det := symbolic.SubOf(symbolic.MulOf(a, d), symbolic.MulOf(b, c))
	requireSame(t, inv.Get(0, 0), symbolic.DivOf(d, det))
	requireSame(t, inv.Get(0, 1), symbolic.DivOf(symbolic.NegOf(b), det))
	requireIdentity(t, m.MatMul(inv))
}

func TestMatrix_Inverse_Schwarzschild(t *testing.T) {
	m, r, theta := symbolic.S("m"), symbolic.S("r"), symbolic.S("theta")
	f := symbolic.SubOf(symbolic.N(1), symbolic.DivOf(symbolic.MulOf(symbolic.N(2), m), r))
	g := symbolic.Diagonal(
		symbolic.NegOf(f),
		symbolic.PowOf(f, symbolic.N(-1)),
		symbolic.PowOf(r, symbolic.N(2)),
		symbolic.MulOf(symbolic.PowOf(r, symbolic.N(2)), symbolic.PowOf(symbolic.SinOf(theta), symbolic.N(2))),
	)
	inv, err := g.Inverse()
	require.NoError(t, err)
	requireIdentity(t, g.MatMul(inv))
	requireSame(t, inv.Get(1, 1), f)
	assert.True(t, symbolic.IsZero(inv.Get(0, 1)))
}

func TestMatrix_Inverse_PivotSwap(t *testing.T) {
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{symbolic.N(0), x, y, symbolic.N(0)})
	inv, err := m.Inverse()
	require.NoError(t, err)
	requireIdentity(t, m.MatMul(inv))
}

func TestMatrix_Inverse_Singular(t *testing.T) {
	cases := map[string]*symbolic.Matrix{
		"numeric":  symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{symbolic.N(1), symbolic.N(2), symbolic.N(2), symbolic.N(4)}),
		"symbolic": symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{x, x, symbolic.N(1), symbolic.N(1)}),
		"zero":     symbolic.NewMatrix(3, 3),
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Inverse()
			assert.ErrorIs(t, err, symbolic.ErrSingular)
		})
	}
}

func TestMatrix_Inverse_NotSquare(t *testing.T) {
	_, err := symbolic.NewMatrix(2, 3).Inverse()
	assert.ErrorIs(t, err, symbolic.ErrNotSquare)
}

func TestMatrix_IsSymmetric(t *testing.T) {
	sym := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{x, symbolic.AddOf(x, y), symbolic.AddOf(y, x), y})
	ok, err := sym.IsSymmetric()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{x, x, y, y}).IsSymmetric()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatrix_ApplyDiff(t *testing.T) {
	m := symbolic.Diagonal(symbolic.PowOf(x, symbolic.N(2)), symbolic.SinOf(x))
	d, err := m.ApplyDiff("x")
	require.NoError(t, err)
	assert.Equal(t, "2*x", d.Get(0, 0).String())
	assert.Equal(t, "cos(x)", d.Get(1, 1).String())

	_, err = symbolic.Diagonal(symbolic.AbsOf(x)).ApplyDiff("x")
	assert.ErrorIs(t, err, symbolic.ErrNotDifferentiable)
}

func TestMatrix_LaTeX(t *testing.T) {
	assert.Equal(t, `\begin{pmatrix}1 & 0 \\ 0 & 1\end{pmatrix}`, symbolic.Identity(2).LaTeX())
}
