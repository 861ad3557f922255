package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// Outcome labels recorded with every operation.
const (
	OutcomeSuccess        = "success"
	OutcomeNotFound       = "not_found"
	OutcomeValidation     = "validation_error"
	OutcomeDomain         = "domain_error"
	OutcomeInfrastructure = "infrastructure_error"
	OutcomeError          = "error"
)

// Outcome maps an operation result to its status label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return OutcomeError
	}
	switch appErr.Kind {
	case apperrors.KindNotFound:
		return OutcomeNotFound
	case apperrors.KindValidation:
		return OutcomeValidation
	case apperrors.KindDomain:
		return OutcomeDomain
	case apperrors.KindInfrastructure:
		return OutcomeInfrastructure
	default:
		return OutcomeError
	}
}

// BusinessMetrics records use case and identity provider activity.
type BusinessMetrics interface {
	// RecordOperation counts a dispatched request, e.g. ("users", "CreateUserCommand", "success").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records how long a dispatched request took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordExternalCall records a call to an external system such as the identity provider.
	RecordExternalCall(ctx context.Context, system, operation string, duration time.Duration, status string)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	externalHisto    metric.Float64Histogram
}

// NewBusinessMetrics creates the OpenTelemetry instruments, prefixed with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of dispatched commands and queries"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of dispatched commands and queries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	externalHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_external_call_duration_seconds", namespace),
		metric.WithDescription("Duration of calls to external systems in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create external call histogram: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		externalHisto:    externalHisto,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordExternalCall(
	ctx context.Context,
	system, operation string,
	duration time.Duration,
	status string,
) {
	b.externalHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("system", system),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// NoOpBusinessMetrics discards everything. Used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return NoOpBusinessMetrics{}
}

func (NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func (NoOpBusinessMetrics) RecordExternalCall(context.Context, string, string, time.Duration, string) {
}
