package curvature

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/njchilds90/curvature/symbolic"
)

// Engine derives the curvature tensors of one metric. The coordinates and
// metric are fixed at construction; a different metric needs a new Engine.
// All methods are safe for concurrent use.
type Engine struct {
	coords  []*symbolic.Sym
	metric  *symbolic.Matrix
	inverse *symbolic.Matrix

	backend Backend
	logger  *slog.Logger
	workers int

	flight      singleflight.Group
	christoffel memo[*Tensor]
	riemann     memo[*Tensor]
	ricci       memo[*Tensor]
	scalar      memo[symbolic.Expr]
	einstein    memo[*Tensor]
}

// New validates the inputs and inverts the metric. The inverse is the only
// quantity derived eagerly.
func New(coords []*symbolic.Sym, metric *symbolic.Matrix, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: no coordinates", ErrDimensionMismatch)
	}
	if metric == nil {
		return nil, fmt.Errorf("%w: no metric", ErrDimensionMismatch)
	}
	if metric.Rows() != metric.Cols() {
		return nil, fmt.Errorf("%w: metric is %dx%d", ErrDimensionMismatch, metric.Rows(), metric.Cols())
	}
	if metric.Rows() != len(coords) {
		return nil, fmt.Errorf("%w: %d coordinates, %dx%d metric",
			ErrDimensionMismatch, len(coords), metric.Rows(), metric.Cols())
	}
	seen := make(map[string]bool, len(coords))
	for i, c := range coords {
		if c == nil {
			return nil, fmt.Errorf("%w: coordinate %d is nil", ErrInvalidCoordinates, i)
		}
		if seen[c.Name()] {
			return nil, fmt.Errorf("%w: %q appears more than once", ErrInvalidCoordinates, c.Name())
		}
		seen[c.Name()] = true
	}

	e := &Engine{
		coords:  append([]*symbolic.Sym(nil), coords...),
		metric:  metric.Clone(),
		backend: cfg.backend,
		logger:  cfg.logger,
		workers: cfg.workers,
	}

	inv, err := e.backend.Inverse(e.metric.Clone())
	switch {
	case errors.Is(err, symbolic.ErrSingular):
		return nil, fmt.Errorf("%w: %w", ErrSingularMetric, err)
	case err != nil:
		return nil, fmt.Errorf("curvature: invert metric: %w", err)
	}
	e.inverse = inv
	e.logger.Debug("engine ready", "dim", e.Dim(), "coordinates", coordNames(e.coords), "workers", e.workers)
	return e, nil
}

// NewFromStrings parses the coordinate names and metric entries with
// symbolic.Parse and calls New.
func NewFromStrings(coords []string, rows [][]string, opts ...Option) (*Engine, error) {
	syms := make([]*symbolic.Sym, len(coords))
	for i, name := range coords {
		syms[i] = symbolic.S(name)
	}
	exprs := make([][]symbolic.Expr, len(rows))
	for i, row := range rows {
		exprs[i] = make([]symbolic.Expr, len(row))
		for j, src := range row {
			e, err := symbolic.Parse(src)
			if err != nil {
				return nil, fmt.Errorf("curvature: metric[%d,%d]: %w", i, j, err)
			}
			exprs[i][j] = e
		}
	}
	metric, err := symbolic.MatrixFromRows(exprs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	return New(syms, metric, opts...)
}

// Dim returns the number of coordinates.
func (e *Engine) Dim() int { return len(e.coords) }

// Coordinates returns a copy of the coordinate list.
func (e *Engine) Coordinates() []*symbolic.Sym { return append([]*symbolic.Sym(nil), e.coords...) }

// Metric returns a copy of the metric.
func (e *Engine) Metric() *symbolic.Matrix { return e.metric.Clone() }

// InverseMetric returns a copy of the inverse metric.
func (e *Engine) InverseMetric() *symbolic.Matrix { return e.inverse.Clone() }

func coordNames(coords []*symbolic.Sym) []string {
	names := make([]string, len(coords))
	for i, c := range coords {
		names[i] = c.Name()
	}
	return names
}
