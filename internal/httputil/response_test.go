package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

func TestProblemFromError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedTitle  string
		expectedDetail string
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            apperrors.NotFound("User with ID 1 not found."),
			expectedStatus: http.StatusNotFound,
			expectedTitle:  "NotFoundError",
			expectedDetail: "User with ID 1 not found.",
		},
		{
			name:           "domain error",
			err:            apperrors.Wrap(apperrors.Domain("User.AlreadyExists", "The user 'a' already exists."), "ctx"),
			expectedStatus: http.StatusBadRequest,
			expectedTitle:  "DomainError",
			expectedDetail: "The user 'a' already exists.",
		},
		{
			name: "infrastructure error",
			err: apperrors.Infrastructure(
				"Database.SaveFailed",
				"Failed to save data to the database.",
				errors.New("pq: connection refused"),
			),
			expectedStatus: http.StatusInternalServerError,
			expectedTitle:  "InfrastructureError",
			expectedDetail: "Failed to save data to the database.",
			expectedCode:   "Database.SaveFailed",
		},
		{
			name:           "unauthorized",
			err:            apperrors.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
			expectedTitle:  TitleUnauthorized,
			expectedDetail: "Authentication is required",
		},
		{
			name:           "forbidden",
			err:            apperrors.Wrap(apperrors.ErrForbidden, "missing role"),
			expectedStatus: http.StatusForbidden,
			expectedTitle:  TitleForbidden,
			expectedDetail: "You don't have permission to access this resource",
		},
		{
			name:           "unexpected error hides message",
			err:            errors.New("keycloak returned 502"),
			expectedStatus: http.StatusInternalServerError,
			expectedTitle:  TitleInternalError,
			expectedDetail: "An internal error occurred",
			expectedCode:   CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProblemFromError(tt.err)

			assert.Equal(t, tt.expectedStatus, p.Status)
			assert.Equal(t, tt.expectedTitle, p.Title)
			assert.Equal(t, tt.expectedDetail, p.Detail)
			assert.Equal(t, tt.expectedCode, p.Code)
			assert.NotEmpty(t, p.Type)
		})
	}
}

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_ValidationProblemCarriesErrors", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorGin(c, apperrors.Validation([]apperrors.ValidationFailure{
			{PropertyName: "username", ErrorMessage: "cannot be blank"},
		}), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ProblemContentType, w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"type": "https://tools.ietf.org/html/rfc9110#section-15.5.1",
			"title": "ValidationError",
			"status": 400,
			"detail": "One or more validation errors occurred.",
			"errors": [{"propertyName": "username", "errorMessage": "cannot be blank"}]
		}`, w.Body.String())
	})

	t.Run("Success_NilErrorWritesNothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorGin(c, nil, nil)

		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleBadRequestGin(c, errors.New("invalid id parameter"), nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, TitleBadRequest, p.Title)
	assert.Equal(t, "invalid id parameter", p.Detail)
}
