package quarry

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

// Call describes a transport invocation being traced.
type Call struct {
	// Op is "search" or "scroll".
	Op    string
	Index string
}

// Tracer wraps every transport call so searches and scrolls are observable.
// Implementations must invoke fn exactly once and return its result
// unchanged.
type Tracer interface {
	Trace(ctx context.Context, call Call, fn func(context.Context) (Response, error)) (Response, error)
}

// NopTracer calls through without recording anything.
type NopTracer struct{}

// Trace invokes fn.
func (NopTracer) Trace(ctx context.Context, _ Call, fn func(context.Context) (Response, error)) (Response, error) {
	return fn(ctx)
}

// Package-level tracer and meter. Both resolve against the global providers
// at call time, so installing a provider after NewClient still takes effect.
var (
	tracer = otel.Tracer("github.com/pthm/quarry")
	meter  = otel.Meter("github.com/pthm/quarry")
)

var (
	callLatency metric.Float64Histogram
	callTotal   metric.Int64Counter
	hitsTotal   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		callLatency, err = meter.Float64Histogram(
			"quarry_transport_duration_seconds",
			metric.WithDescription("Duration of search and scroll calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		callTotal, err = meter.Int64Counter(
			"quarry_transport_calls_total",
			metric.WithDescription("Total number of search and scroll calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		hitsTotal, err = meter.Int64Histogram(
			"quarry_transport_hits",
			metric.WithDescription("Number of hits returned per call"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

// OTelTracer records a span and latency/count metrics for every call using
// the global OpenTelemetry providers.
type OTelTracer struct{}

// Trace opens a span named "quarry.<op>" around fn.
func (OTelTracer) Trace(ctx context.Context, call Call, fn func(context.Context) (Response, error)) (Response, error) {
	ctx, span := tracer.Start(ctx, "quarry."+call.Op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "elasticsearch"),
			attribute.String("quarry.op", call.Op),
			attribute.String("quarry.index", call.Index),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := fn(ctx)
	elapsed := time.Since(start)

	hits := len(resp.Hits())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("quarry.hits", hits))
	}

	recordCallMetrics(ctx, call, elapsed, hits, err == nil)
	return resp, err
}

func recordCallMetrics(ctx context.Context, call Call, elapsed time.Duration, hits int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("op", call.Op),
		attribute.Bool("success", success),
	)
	callLatency.Record(ctx, elapsed.Seconds(), attrs)
	callTotal.Add(ctx, 1, attrs)
	if success {
		hitsTotal.Record(ctx, int64(hits), metric.WithAttributes(attribute.String("op", call.Op)))
	}
}

var (
	_ Tracer = NopTracer{}
	_ Tracer = OTelTracer{}
)
