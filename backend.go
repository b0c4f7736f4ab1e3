package curvature

import "github.com/njchilds90/curvature/symbolic"

// Backend is the symbolic algebra the engine derives tensors with.
// Implementations must be safe for concurrent use when the engine runs with
// more than one worker.
type Backend interface {
	// Inverse returns the exact inverse of m, or an error wrapping
	// symbolic.ErrSingular when none exists.
	Inverse(m *symbolic.Matrix) (*symbolic.Matrix, error)
	// Diff returns the partial derivative of e with respect to v.
	Diff(e symbolic.Expr, v *symbolic.Sym) (symbolic.Expr, error)
	// Simplify returns a form of e in which an identically zero expression
	// is the literal zero.
	Simplify(e symbolic.Expr) (symbolic.Expr, error)
}

type symbolicBackend struct{}

// DefaultBackend returns the backend built on package symbolic. It keeps no
// state between calls.
func DefaultBackend() Backend { return symbolicBackend{} }

func (symbolicBackend) Inverse(m *symbolic.Matrix) (*symbolic.Matrix, error) { return m.Inverse() }

func (symbolicBackend) Diff(e symbolic.Expr, v *symbolic.Sym) (symbolic.Expr, error) {
	return symbolic.Diff(e, v.Name())
}

func (symbolicBackend) Simplify(e symbolic.Expr) (symbolic.Expr, error) {
	return symbolic.Canonicalize(e)
}
