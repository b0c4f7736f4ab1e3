package curvature_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/curvature"
	"github.com/njchilds90/curvature/symbolic"
)

func TestDisplay_Christoffel(t *testing.T) {
	eng := newEngine(t, curvature.TwoSphere)
	var buf bytes.Buffer
	require.NoError(t, eng.Display(context.Background(), &buf, curvature.QuantityChristoffel))
	assert.Equal(t,
		"Gamma[0,1,1] = -cos(theta)*sin(theta)\n"+
			"Gamma[1,1,0] = cos(theta)/sin(theta)\n",
		buf.String())
}

func TestDisplay_Minkowski(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, curvature.Minkowski)
	const diag = "[-1, 0, 0, 0]\n[0, 1, 0, 0]\n[0, 0, 1, 0]\n[0, 0, 0, 1]\n"

	tests := []struct {
		q    curvature.Quantity
		want string
	}{
		{curvature.QuantityMetric, diag},
		{curvature.QuantityInverseMetric, diag},
		{curvature.QuantityChristoffel, ""},
		{curvature.QuantityRiemann, ""},
		{curvature.QuantityRicci, ""},
		{curvature.QuantityRicciScalar, "0\n"},
		{curvature.QuantityEinstein, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.q), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, eng.Display(ctx, &buf, tt.q))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDisplay_LaTeX(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, curvature.TwoSphere)

	var buf bytes.Buffer
	require.NoError(t, eng.Display(ctx, &buf, curvature.QuantityChristoffel, curvature.DisplayLaTeX()))
	out := buf.String()
	assert.Contains(t, out, "Gamma[1,1,0] = ")
	assert.Contains(t, out, `\frac`)
	assert.Contains(t, out, `\theta`)

	buf.Reset()
	require.NoError(t, eng.Display(ctx, &buf, curvature.QuantityMetric, curvature.DisplayLaTeX()))
	assert.True(t, strings.HasPrefix(buf.String(), `\begin{pmatrix}`))
}

func TestDisplay_UnknownQuantity(t *testing.T) {
	eng := newEngine(t, curvature.TwoSphere)
	var buf bytes.Buffer
	err := eng.Display(context.Background(), &buf, curvature.Quantity("weyl"))
	assert.ErrorIs(t, err, curvature.ErrUnknownQuantity)
	assert.Empty(t, buf.String())
}

func TestTensor_Quantities(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t, curvature.TwoSphere)

	g, err := eng.Tensor(ctx, curvature.QuantityMetric)
	require.NoError(t, err)
	assert.Equal(t, "g", g.Name())
	assert.Equal(t, 2, g.Rank())
	assert.Len(t, g.Independent(), 2)
	assert.Equal(t, curvature.SymmetricLastPair, g.Symmetry())

	ric, err := eng.Tensor(ctx, curvature.QuantityRicci)
	require.NoError(t, err)
	assert.Equal(t, "Ricci", ric.Name())
	assert.Equal(t, curvature.SymmetricLastPair, ric.Symmetry())

	_, err = eng.Tensor(ctx, curvature.QuantityRicciScalar)
	assert.ErrorIs(t, err, curvature.ErrUnknownQuantity)
}

func TestTensor_OffDiagonalMetric(t *testing.T) {
	ctx := context.Background()
	eng, err := curvature.NewFromStrings([]string{"t", "x"}, [][]string{{"-1", "a"}, {"a", "1"}})
	require.NoError(t, err)

	for _, q := range []curvature.Quantity{curvature.QuantityMetric, curvature.QuantityInverseMetric} {
		t.Run(string(q), func(t *testing.T) {
			g, err := eng.Tensor(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, curvature.SymmetricLastPair, g.Symmetry())

			var labels []string
			for _, c := range g.Independent() {
				labels = append(labels, c.Label(g.Name()))
			}
			assert.Contains(t, labels, g.Name()+"[1,0]")
			assert.NotContains(t, labels, g.Name()+"[0,1]")
		})
	}

	skew, err := curvature.NewFromStrings([]string{"t", "x"}, [][]string{{"1", "a"}, {"0", "1"}})
	require.NoError(t, err)
	g, err := skew.Tensor(ctx, curvature.QuantityMetric)
	require.NoError(t, err)
	assert.Equal(t, curvature.NoSymmetry, g.Symmetry())
}

func TestDisplay_MatrixEntriesParseBack(t *testing.T) {
	ctx := context.Background()
	presets := map[string]func() ([]*symbolic.Sym, *symbolic.Matrix){
		"minkowski":     curvature.Minkowski,
		"schwarzschild": curvature.Schwarzschild,
		"sphere":        curvature.TwoSphere,
	}
	for name, preset := range presets {
		t.Run(name, func(t *testing.T) {
			eng := newEngine(t, preset)
			for _, q := range []curvature.Quantity{curvature.QuantityMetric, curvature.QuantityInverseMetric} {
				g, err := eng.Tensor(ctx, q)
				require.NoError(t, err)
				for _, idx := range indices(2, eng.Dim()) {
					e := g.At(idx...)
					back, err := symbolic.Parse(e.String())
					require.NoError(t, err, "%s%v = %q", q, idx, e.String())
					requireSame(t, e, back)
				}
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	for _, q := range curvature.Quantities() {
		got, err := curvature.ParseQuantity(string(q))
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}

	got, err := curvature.ParseQuantity(" Ricci ")
	require.NoError(t, err)
	assert.Equal(t, curvature.QuantityRicci, got)

	_, err = curvature.ParseQuantity("weyl")
	assert.ErrorIs(t, err, curvature.ErrUnknownQuantity)
}

func TestComponent_Label(t *testing.T) {
	c := curvature.Component{Index: []int{1, 0, 0}}
	assert.Equal(t, "Gamma[1,0,0]", c.Label("Gamma"))
}

func TestTensor_AtPanicsOnBadIndex(t *testing.T) {
	eng := newEngine(t, curvature.TwoSphere)
	gamma, err := eng.Christoffel(context.Background())
	require.NoError(t, err)
	assert.Panics(t, func() { gamma.At(0, 0) })
	assert.Panics(t, func() { gamma.At(0, 0, 2) })
}
