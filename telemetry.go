package curvature

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter. Both are no-ops until the host installs
// global providers.
var (
	tracer = otel.Tracer("curvature")
	meter  = otel.Meter("curvature")
)

var (
	stageDuration   metric.Float64Histogram
	stageTotal      metric.Int64Counter
	stageComponents metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		stageDuration, err = meter.Float64Histogram(
			"curvature_stage_duration_seconds",
			metric.WithDescription("Duration of stage computations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		stageTotal, err = meter.Int64Counter(
			"curvature_stage_total",
			metric.WithDescription("Total number of stage computations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		stageComponents, err = meter.Int64Counter(
			"curvature_stage_components_total",
			metric.WithDescription("Total number of components derived"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startStageSpan(ctx context.Context, stage Stage, dim int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "curvature."+string(stage),
		trace.WithAttributes(
			attribute.String("curvature.stage", string(stage)),
			attribute.Int("curvature.dim", dim),
		),
	)
}

func endStageSpan(span trace.Span, components int, err error) {
	span.SetAttributes(attribute.Int("curvature.components", components))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func recordStageMetrics(ctx context.Context, stage Stage, duration time.Duration, components int, err error) {
	if initErr := initMetrics(); initErr != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("stage", string(stage)),
		attribute.Bool("success", err == nil),
	)
	stageDuration.Record(ctx, duration.Seconds(), attrs)
	stageTotal.Add(ctx, 1, attrs)
	if err == nil {
		stageComponents.Add(ctx, int64(components), metric.WithAttributes(attribute.String("stage", string(stage))))
	}
}
