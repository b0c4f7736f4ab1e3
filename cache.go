package curvature

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Stage names one derived quantity.
type Stage string

const (
	StageChristoffel Stage = "christoffel"
	StageRiemann     Stage = "riemann"
	StageRicci       Stage = "ricci"
	StageRicciScalar Stage = "ricci_scalar"
	StageEinstein    Stage = "einstein"
)

// memo is a write-once cell. Once published a value is never replaced.
type memo[T any] struct {
	v atomic.Pointer[T]
}

func (m *memo[T]) load() (T, bool) {
	if p := m.v.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

func (m *memo[T]) store(v T) { m.v.CompareAndSwap(nil, &v) }

// memoize returns the cached value of a stage or computes it. Concurrent
// first callers share one computation through the engine's singleflight
// group; the computation runs under the context of the caller that started
// it. Failures are returned to every waiting caller and nothing is cached,
// so a later call starts over. A caller whose own context is still live
// retries once when the shared computation was cancelled by another
// caller's context.
func memoize[T any](ctx context.Context, e *Engine, stage Stage, m *memo[T], size func(T) int, compute func(context.Context) (T, error)) (T, error) {
	if v, ok := m.load(); ok {
		return v, nil
	}

	res, err, shared := runStage(ctx, e, stage, m, size, compute)
	if err != nil && shared && ctx.Err() == nil && isContextErr(err) {
		e.logger.Debug("stage retried after shared cancellation", "stage", stage, "error", err)
		res, err, shared = runStage(ctx, e, stage, m, size, compute)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		e.logger.Debug("stage result shared", "stage", stage)
	}

	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("curvature: unexpected type from stage %s: got %T", stage, res)
	}
	return v, nil
}

// runStage computes a stage inside the engine's singleflight group.
func runStage[T any](ctx context.Context, e *Engine, stage Stage, m *memo[T], size func(T) int, compute func(context.Context) (T, error)) (any, error, bool) {
	return e.flight.Do(string(stage), func() (any, error) {
		// Double-check the cache inside the flight.
		if v, ok := m.load(); ok {
			return v, nil
		}

		ctx, span := startStageSpan(ctx, stage, e.Dim())
		start := time.Now()
		e.logger.Debug("stage started", "stage", stage, "dim", e.Dim())

		v, err := compute(ctx)
		duration := time.Since(start)
		components := 0
		if err == nil {
			components = size(v)
		}
		endStageSpan(span, components, err)
		recordStageMetrics(ctx, stage, duration, components, err)
		if err != nil {
			e.logger.Debug("stage failed", "stage", stage, "duration", duration, "error", err)
			return nil, err
		}

		m.store(v)
		e.logger.Debug("stage computed", "stage", stage, "components", components, "duration", duration)
		return v, nil
	})
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
