// Package curvature derives the curvature tensors of a pseudo-Riemannian
// metric given as closed-form symbolic expressions of the coordinates.
//
// An Engine holds the coordinates, the metric and its inverse. The
// Christoffel symbols, Riemann tensor, Ricci tensor, Ricci scalar and
// Einstein tensor are derived on first request, in that order, and cached
// for the lifetime of the engine:
//
//	coords, metric := curvature.Schwarzschild()
//	eng, err := curvature.New(coords, metric)
//	if err != nil {
//		return err
//	}
//	vacuum, err := eng.IsVacuum(ctx)
//
// Concurrent first calls to an accessor share a single computation, and
// every accessor honours context cancellation between components.
package curvature
