package curvature

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/njchilds90/curvature/symbolic"
)

// Quantity selects what Display prints.
type Quantity string

const (
	QuantityMetric        Quantity = "metric"
	QuantityInverseMetric Quantity = "inverse_metric"
	QuantityChristoffel   Quantity = "christoffel"
	QuantityRiemann       Quantity = "riemann"
	QuantityRicci         Quantity = "ricci"
	QuantityRicciScalar   Quantity = "ricci_scalar"
	QuantityEinstein      Quantity = "einstein"
)

// Quantities lists every quantity in derivation order.
func Quantities() []Quantity {
	return []Quantity{
		QuantityMetric, QuantityInverseMetric, QuantityChristoffel,
		QuantityRiemann, QuantityRicci, QuantityRicciScalar, QuantityEinstein,
	}
}

// ParseQuantity maps a name such as "ricci" to its Quantity.
func ParseQuantity(s string) (Quantity, error) {
	q := Quantity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Quantities() {
		if q == known {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuantity, s)
}

type displayConfig struct {
	latex bool
}

// DisplayOption configures Display.
type DisplayOption func(*displayConfig)

// DisplayLaTeX renders expressions as LaTeX instead of plain text.
func DisplayLaTeX() DisplayOption {
	return func(c *displayConfig) { c.latex = true }
}

// Display writes a human-readable rendering of q to w, deriving it first if
// needed. Tensors print one line per independent non-zero component, e.g.
// "Gamma[1,0,0] = ...", so a tensor that vanishes prints nothing.
func (e *Engine) Display(ctx context.Context, w io.Writer, q Quantity, opts ...DisplayOption) error {
	var cfg displayConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	render := symbolic.String
	if cfg.latex {
		render = symbolic.LaTeX
	}

	switch q {
	case QuantityMetric:
		return writeMatrix(w, e.metric, cfg.latex)
	case QuantityInverseMetric:
		return writeMatrix(w, e.inverse, cfg.latex)
	case QuantityRicciScalar:
		r, err := e.RicciScalar(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, render(r))
		return err
	}

	t, err := e.Tensor(ctx, q)
	if err != nil {
		return err
	}
	for _, c := range t.Independent() {
		if _, err := fmt.Fprintf(w, "%s = %s\n", c.Label(t.Name()), render(c.Expr)); err != nil {
			return err
		}
	}
	return nil
}

// Tensor returns the tensor-valued quantity q. The metric and its inverse
// are returned as rank-2 tensors, symmetric whenever the metric is.
func (e *Engine) Tensor(ctx context.Context, q Quantity) (*Tensor, error) {
	switch q {
	case QuantityMetric:
		return matrixTensor("g", e.metric), nil
	case QuantityInverseMetric:
		return matrixTensor("ginv", e.inverse), nil
	case QuantityChristoffel:
		return e.Christoffel(ctx)
	case QuantityRiemann:
		return e.Riemann(ctx)
	case QuantityRicci:
		return e.Ricci(ctx)
	case QuantityEinstein:
		return e.Einstein(ctx)
	case QuantityRicciScalar:
		return nil, fmt.Errorf("%w: %s is a scalar", ErrUnknownQuantity, q)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownQuantity, q)
}

func matrixTensor(name string, m *symbolic.Matrix) *Tensor {
	sym := NoSymmetry
	if ok, err := m.IsSymmetric(); err == nil && ok {
		sym = SymmetricLastPair
	}
	t := newTensor(name, 2, m.Rows(), sym)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			t.set(m.Get(i, j), i, j)
		}
	}
	return t
}

func writeMatrix(w io.Writer, m *symbolic.Matrix, latex bool) error {
	if latex {
		_, err := fmt.Fprintln(w, m.LaTeX())
		return err
	}
	for i := 0; i < m.Rows(); i++ {
		row := make([]string, m.Cols())
		for j := range row {
			row[j] = m.Get(i, j).String()
		}
		if _, err := fmt.Fprintf(w, "[%s]\n", strings.Join(row, ", ")); err != nil {
			return err
		}
	}
	return nil
}
