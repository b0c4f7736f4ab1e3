package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/curvature/symbolic"
)

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

func TestZeroEquivalent_PythagoreanIdentity(t *testing.T) {
	sin2 := symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2))
	cos2 := symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2))
	requireZero(t, symbolic.AddOf(sin2, cos2, symbolic.N(-1)))
}

func TestZeroEquivalent_HyperbolicIdentity(t *testing.T) {
	cosh2 := symbolic.PowOf(symbolic.CoshOf(x), symbolic.N(2))
	sinh2 := symbolic.PowOf(symbolic.SinhOf(x), symbolic.N(2))
	requireZero(t, symbolic.AddOf(cosh2, symbolic.NegOf(sinh2), symbolic.N(-1)))
}

func TestZeroEquivalent_TangentAndParity(t *testing.T) {
	requireSame(t, symbolic.TanOf(x), symbolic.DivOf(symbolic.SinOf(x), symbolic.CosOf(x)))
	requireSame(t, symbolic.TanhOf(x), symbolic.DivOf(symbolic.SinhOf(x), symbolic.CoshOf(x)))
	requireSame(t, symbolic.SinOf(symbolic.NegOf(x)), symbolic.NegOf(symbolic.SinOf(x)))
	requireSame(t, symbolic.CosOf(symbolic.SubOf(y, x)), symbolic.CosOf(symbolic.SubOf(x, y)))
}

func TestZeroEquivalent_Radicals(t *testing.T) {
	// (sqrt(x) + 1)^2 = x + 2 sqrt(x) + 1
	lhs := symbolic.PowOf(symbolic.AddOf(symbolic.SqrtOf(x), symbolic.N(1)), symbolic.N(2))
	rhs := symbolic.AddOf(x, symbolic.MulOf(symbolic.N(2), symbolic.SqrtOf(x)), symbolic.N(1))
	requireSame(t, lhs, rhs)
}

func TestZeroEquivalent_NonZero(t *testing.T) {
	zero, err := symbolic.ZeroEquivalent(symbolic.SubOf(symbolic.SinOf(x), symbolic.CosOf(x)))
	require.NoError(t, err)
	assert.False(t, zero)
}

func TestCanonicalize_CancelsCommonFactors(t *testing.T) {
	// (x^2 - 1)/(x - 1) = x + 1
	num := symbolic.SubOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(1))
	got, err := symbolic.Canonicalize(symbolic.DivOf(num, symbolic.SubOf(x, symbolic.N(1))))
	require.NoError(t, err)
	assert.Equal(t, "x + 1", got.String())
}

func TestCanonicalize_CombinesFractions(t *testing.T) {
	// 1/x + 1/y = (x + y)/(x*y)
	sum := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(-1)), symbolic.PowOf(y, symbolic.N(-1)))
	got, err := symbolic.Canonicalize(sum)
	require.NoError(t, err)
	requireSame(t, got, symbolic.DivOf(symbolic.AddOf(x, y), symbolic.MulOf(x, y)))
	assert.Contains(t, got.String(), "/")
}

func TestCanonicalize_SchwarzschildFactor(t *testing.T) {
	m, r := symbolic.S("m"), symbolic.S("r")
	// (1 - 2m/r)^-1 * (1 - 2m/r) = 1
	f := symbolic.SubOf(symbolic.N(1), symbolic.DivOf(symbolic.MulOf(symbolic.N(2), m), r))
	got, err := symbolic.Canonicalize(symbolic.MulOf(symbolic.PowOf(f, symbolic.N(-1)), f))
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())

	// d/dr of r/(r - 2m) = -2m/(r - 2m)^2
	d, err := symbolic.Diff(symbolic.PowOf(f, symbolic.N(-1)), "r")
	require.NoError(t, err)
	want := symbolic.DivOf(symbolic.MulOf(symbolic.N(-2), m),
		symbolic.PowOf(symbolic.SubOf(r, symbolic.MulOf(symbolic.N(2), m)), symbolic.N(2)))
	requireSame(t, d, want)
}

func TestCanonicalize_Idempotent(t *testing.T) {
	exprs := []symbolic.Expr{
		symbolic.DivOf(symbolic.CosOf(x), symbolic.SinOf(x)),
		symbolic.AddOf(symbolic.PowOf(x, symbolic.N(-1)), symbolic.PowOf(y, symbolic.N(-2))),
		symbolic.MulOf(symbolic.PowOf(symbolic.CosOf(x), symbolic.N(3)), symbolic.SinOf(x)),
		symbolic.DivOf(symbolic.N(1), symbolic.SubOf(symbolic.PowOf(x, symbolic.N(2)), y)),
	}
	for _, e := range exprs {
		once, err := symbolic.Canonicalize(e)
		require.NoError(t, err)
		twice, err := symbolic.Canonicalize(once)
		require.NoError(t, err)
		assert.Equal(t, once.String(), twice.String(), "input %s", e)
	}
}

func TestCanonicalize_Errors(t *testing.T) {
	_, err := symbolic.Canonicalize(nil)
	assert.ErrorIs(t, err, symbolic.ErrUnsupported)

	sin2 := symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2))
	cos2 := symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2))
	_, err = symbolic.Canonicalize(symbolic.DivOf(symbolic.N(1), symbolic.AddOf(sin2, cos2, symbolic.N(-1))))
	assert.ErrorIs(t, err, symbolic.ErrDivisionByZero)
}

func TestIsZero_IsLiteral(t *testing.T) {
	assert.True(t, symbolic.IsZero(symbolic.N(0)))
	assert.False(t, symbolic.IsZero(x))
	assert.False(t, symbolic.IsZero(nil))

	sin2 := symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2))
	cos2 := symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2))
	assert.False(t, symbolic.IsZero(symbolic.AddOf(sin2, cos2, symbolic.N(-1))))
}
