package mediator

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/metrics"
	"github.com/allisson/useradmin/internal/validation"
)

// Error raised when a write against the store fails.
const (
	CodeDatabaseSaveFailed    = "Database.SaveFailed"
	MessageDatabaseSaveFailed = "Failed to save data to the database."
)

// ValidationBehavior runs the validators registered for the request. When any
// of them rejects the request the handler is never called.
func ValidationBehavior(validators *Validators, logger *slog.Logger) Behavior {
	return func(ctx context.Context, req any, next Next) (any, error) {
		name := RequestName(req)

		fns := validators.lookup(req)
		if len(fns) == 0 {
			logger.Debug("no validator registered", slog.String("request", name))
			return next(ctx)
		}

		var failures []apperrors.ValidationFailure
		for _, fn := range fns {
			err := fn(ctx, req)
			found, ok := validation.Failures(err)
			if !ok {
				return nil, apperrors.Wrapf(err, "validator for %s failed", name)
			}
			failures = append(failures, found...)
		}

		if len(failures) > 0 {
			err := apperrors.Validation(failures)
			logger.Warn("validation failed",
				slog.String("request", name),
				slog.Int("failures", len(failures)),
				slog.String("details", err.ValidationSummary()),
			)
			return nil, err
		}

		return next(ctx)
	}
}

// InfrastructureErrorBehavior converts store write failures into an
// infrastructure error. Every other error passes through untouched.
func InfrastructureErrorBehavior(logger *slog.Logger) Behavior {
	return func(ctx context.Context, req any, next Next) (any, error) {
		res, err := next(ctx)
		if err == nil {
			return res, nil
		}

		var persistenceErr *database.PersistenceError
		if !apperrors.As(err, &persistenceErr) {
			return res, err
		}

		logger.Error("database save failed",
			slog.String("request", RequestName(req)),
			slog.String("operation", persistenceErr.Op),
			slog.Bool("unique_violation", persistenceErr.UniqueViolation),
			slog.Any("error", err),
		)
		return nil, apperrors.Infrastructure(CodeDatabaseSaveFailed, MessageDatabaseSaveFailed, persistenceErr.Err)
	}
}

// LoggingBehavior logs every dispatch and its outcome.
func LoggingBehavior(logger *slog.Logger) Behavior {
	return func(ctx context.Context, req any, next Next) (any, error) {
		name := RequestName(req)
		start := time.Now()

		res, err := next(ctx)

		attrs := []any{
			slog.String("request", name),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok {
				logger.Info("request rejected", append(attrs,
					slog.String("kind", appErr.Kind.String()),
					slog.String("code", appErr.Code),
				)...)
			} else {
				logger.Error("request failed", append(attrs, slog.Any("error", err))...)
			}
			return res, err
		}

		logger.Debug("request handled", attrs...)
		return res, nil
	}
}

// MetricsBehavior records a count and a duration per request under the given domain.
func MetricsBehavior(domain string, m metrics.BusinessMetrics) Behavior {
	return func(ctx context.Context, req any, next Next) (any, error) {
		start := time.Now()
		res, err := next(ctx)

		status := metrics.Outcome(err)
		operation := RequestName(req)
		m.RecordOperation(ctx, domain, operation, status)
		m.RecordDuration(ctx, domain, operation, time.Since(start), status)

		return res, err
	}
}
