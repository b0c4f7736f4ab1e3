package curvature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/curvature/symbolic"
)

// Symmetry is the index symmetry a tensor is known to have. It decides
// which components Independent enumerates.
type Symmetry int

const (
	// NoSymmetry enumerates every component.
	NoSymmetry Symmetry = iota
	// SymmetricLastPair is T[..., j, k] = T[..., k, j]; components with
	// k ≤ j are independent.
	SymmetricLastPair
	// AntisymmetricLastPair is T[..., k, l] = -T[..., l, k]; components with
	// l < k are independent.
	AntisymmetricLastPair
)

// Tensor is a dense, read-only array of symbolic components stored in
// row-major order.
type Tensor struct {
	name  string
	rank  int
	dim   int
	sym   Symmetry
	comps []symbolic.Expr
}

func newTensor(name string, rank, dim int, sym Symmetry) *Tensor {
	size := 1
	for i := 0; i < rank; i++ {
		size *= dim
	}
	comps := make([]symbolic.Expr, size)
	for i := range comps {
		comps[i] = symbolic.N(0)
	}
	return &Tensor{name: name, rank: rank, dim: dim, sym: sym, comps: comps}
}

// Name returns the label used when printing components, e.g. "Gamma".
func (t *Tensor) Name() string       { return t.name }
func (t *Tensor) Rank() int          { return t.rank }
func (t *Tensor) Dim() int           { return t.dim }
func (t *Tensor) Symmetry() Symmetry { return t.sym }

// Len returns the number of stored components, dim^rank.
func (t *Tensor) Len() int { return len(t.comps) }

// At returns the component at idx. It panics when idx does not address a
// component.
func (t *Tensor) At(idx ...int) symbolic.Expr { return t.comps[t.offset(idx)] }

func (t *Tensor) set(v symbolic.Expr, idx ...int) { t.comps[t.offset(idx)] = v }

func (t *Tensor) offset(idx []int) int {
	if len(idx) != t.rank {
		panic(fmt.Sprintf("curvature: %s has rank %d, got %d indices", t.name, t.rank, len(idx)))
	}
	off := 0
	for _, i := range idx {
		if i < 0 || i >= t.dim {
			panic(fmt.Sprintf("curvature: %s index %v out of range for dimension %d", t.name, idx, t.dim))
		}
		off = off*t.dim + i
	}
	return off
}

// index converts a row-major offset back to its index tuple.
func (t *Tensor) index(off int) []int {
	idx := make([]int, t.rank)
	for i := t.rank - 1; i >= 0; i-- {
		idx[i] = off % t.dim
		off /= t.dim
	}
	return idx
}

// Component is one labelled entry of a tensor.
type Component struct {
	Index []int
	Expr  symbolic.Expr
}

// Label formats the component as name[i,j,...].
func (c Component) Label(name string) string {
	parts := make([]string, len(c.Index))
	for i, v := range c.Index {
		parts[i] = strconv.Itoa(v)
	}
	return name + "[" + strings.Join(parts, ",") + "]"
}

// Independent returns the non-zero components not implied by the tensor's
// symmetry, in row-major order. A component counts as non-zero unless it is
// the literal zero, so the result is only as good as the simplification
// that produced the tensor.
func (t *Tensor) Independent() []Component {
	var out []Component
	for off, e := range t.comps {
		idx := t.index(off)
		if !t.independent(idx) || symbolic.IsZero(e) {
			continue
		}
		out = append(out, Component{Index: idx, Expr: e})
	}
	return out
}

func (t *Tensor) independent(idx []int) bool {
	if t.rank < 2 {
		return true
	}
	a, b := idx[t.rank-2], idx[t.rank-1]
	switch t.sym {
	case SymmetricLastPair:
		return b <= a
	case AntisymmetricLastPair:
		return b < a
	}
	return true
}

// IsZero reports whether every component is the literal zero.
func (t *Tensor) IsZero() bool {
	for _, e := range t.comps {
		if !symbolic.IsZero(e) {
			return false
		}
	}
	return true
}
