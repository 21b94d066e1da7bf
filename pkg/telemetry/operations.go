package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels recorded by OperationMetrics.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// OperationMetrics counts and times named operations. Instruments are
// "<prefix>.operations" (counter) and "<prefix>.operation.duration"
// (histogram, seconds), both labelled with operation and outcome.
type OperationMetrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewOperationMetrics registers the instruments on the global meter provider.
func NewOperationMetrics(meterName, prefix string) (*OperationMetrics, error) {
	return NewOperationMetricsWith(otel.GetMeterProvider().Meter(meterName), prefix)
}

// NewOperationMetricsWith registers the instruments on meter.
func NewOperationMetricsWith(meter metric.Meter, prefix string) (*OperationMetrics, error) {
	count, err := meter.Int64Counter(prefix+".operations",
		metric.WithDescription("Number of operations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("counter %s.operations: %w", prefix, err)
	}
	duration, err := meter.Float64Histogram(prefix+".operation.duration",
		metric.WithDescription("Operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("histogram %s.operation.duration: %w", prefix, err)
	}
	return &OperationMetrics{count: count, duration: duration}, nil
}

// Record adds one observation for op.
func (m *OperationMetrics) Record(ctx context.Context, op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	m.count.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
