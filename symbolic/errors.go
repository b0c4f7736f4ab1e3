package symbolic

import "errors"

// Sentinel errors returned by the kernel. Callers match them with errors.Is;
// messages carry a "symbolic:" prefix so they stay greppable once wrapped.
var (
	// ErrDivisionByZero is returned when the normal form has to invert an
	// expression that is identically zero.
	ErrDivisionByZero = errors.New("symbolic: division by zero")

	// ErrUnsupported is returned for nil expressions or expression types the
	// kernel does not know how to normalize.
	ErrUnsupported = errors.New("symbolic: unsupported expression")

	// ErrNotDifferentiable is returned by Diff when the expression applies a
	// function with no derivative rule to an argument that depends on the
	// differentiation variable.
	ErrNotDifferentiable = errors.New("symbolic: expression is not differentiable")

	// ErrSingular is returned by Matrix.Inverse when no inverse exists.
	ErrSingular = errors.New("symbolic: matrix is singular")

	// ErrNotSquare is returned when a square matrix was required.
	ErrNotSquare = errors.New("symbolic: matrix is not square")

	// ErrParse is wrapped by every error Parse returns.
	ErrParse = errors.New("symbolic: parse error")
)
