package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// assertBizMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: OutcomeSuccess},
		{name: "not found", err: apperrors.NotFound("x"), want: OutcomeNotFound},
		{name: "validation", err: apperrors.Validation(nil), want: OutcomeValidation},
		{name: "domain", err: apperrors.Domain("c", "m"), want: OutcomeDomain},
		{name: "infrastructure", err: apperrors.Infrastructure("c", "m", nil), want: OutcomeInfrastructure},
		{name: "wrapped", err: apperrors.Wrap(apperrors.NotFound("x"), "ctx"), want: OutcomeNotFound},
		{name: "plain", err: errors.New("boom"), want: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.IsType(t, NoOpBusinessMetrics{}, noOpMetrics)

	noOpMetrics.RecordOperation(context.Background(), "users", "CreateUserCommand", OutcomeSuccess)
	noOpMetrics.RecordDuration(context.Background(), "users", "CreateUserCommand", time.Millisecond, OutcomeSuccess)
	noOpMetrics.RecordExternalCall(context.Background(), "keycloak", "POST users", time.Millisecond, "201")
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "users", "CreateUserCommand", OutcomeSuccess)
	bm.RecordOperation(ctx, "users", "CreateUserCommand", OutcomeSuccess)
	bm.RecordOperation(ctx, "users", "CreateUserCommand", OutcomeDomain)
	bm.RecordOperation(ctx, "users", "GetUsersQuery", OutcomeSuccess)

	bm.RecordDuration(ctx, "users", "CreateUserCommand", 50*time.Millisecond, OutcomeSuccess)
	bm.RecordDuration(ctx, "users", "CreateUserCommand", 60*time.Millisecond, OutcomeSuccess)

	bm.RecordExternalCall(ctx, "keycloak", "POST users", 30*time.Millisecond, "201")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertBizMetricLine(t, output,
		`integration_test_operations_total`,
		`domain="users".*operation="CreateUserCommand".*status="success"`,
		`2`,
	)
	assertBizMetricLine(t, output,
		`integration_test_operations_total`,
		`domain="users".*operation="CreateUserCommand".*status="domain_error"`,
		`1`,
	)
	assertBizMetricLine(t, output,
		`integration_test_operation_duration_seconds_count`,
		`domain="users".*operation="CreateUserCommand".*status="success"`,
		`2`,
	)
	assertBizMetricLine(t, output,
		`integration_test_external_call_duration_seconds_count`,
		`operation="POST users".*status="201".*system="keycloak"`,
		`1`,
	)
}
