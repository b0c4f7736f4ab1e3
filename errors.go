package curvature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors. Match them with errors.Is.
var (
	// ErrDimensionMismatch is returned by New when the metric is missing, not
	// square, or its size differs from the number of coordinates.
	ErrDimensionMismatch = errors.New("curvature: dimension mismatch")

	// ErrSingularMetric is returned by New when the metric has no inverse.
	ErrSingularMetric = errors.New("curvature: singular metric")

	// ErrInvalidCoordinates is returned by New for nil or repeated coordinates.
	ErrInvalidCoordinates = errors.New("curvature: invalid coordinates")

	// ErrDifferentiation marks a stage failure raised by the backend's
	// differentiation.
	ErrDifferentiation = errors.New("curvature: differentiation failed")

	// ErrSimplification marks a stage failure raised by the backend's
	// simplification.
	ErrSimplification = errors.New("curvature: simplification failed")

	// ErrUnknownQuantity is returned when a quantity name is not recognised.
	ErrUnknownQuantity = errors.New("curvature: unknown quantity")
)

// StageError reports the component a stage was deriving when the backend
// failed. For the derivative tables built ahead of a stage, Index is the
// differentiated entry followed by the coordinate index.
type StageError struct {
	Stage Stage
	Index []int
	Err   error
}

func (e *StageError) Error() string {
	parts := make([]string, len(e.Index))
	for i, v := range e.Index {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("curvature: %s[%s]: %v", e.Stage, strings.Join(parts, ","), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func diffError(stage Stage, err error, idx ...int) error {
	return &StageError{Stage: stage, Index: idx, Err: fmt.Errorf("%w: %w", ErrDifferentiation, err)}
}

func simplifyError(stage Stage, err error, idx ...int) error {
	return &StageError{Stage: stage, Index: idx, Err: fmt.Errorf("%w: %w", ErrSimplification, err)}
}
