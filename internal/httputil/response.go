// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// ProblemContentType is the media type of every error response.
const ProblemContentType = "application/problem+json"

// Titles of problems that do not come from an AppError.
const (
	TitleBadRequest      = "BadRequest"
	TitleUnauthorized    = "Unauthorized"
	TitleForbidden       = "Forbidden"
	TitleTooManyRequests = "TooManyRequests"
	TitleInternalError   = "InternalServerError"
	CodeInternalError    = "internal_error"
)

// ProblemDetails is an RFC 9457 problem document with the extensions used by
// validation and infrastructure errors.
type ProblemDetails struct {
	Type   string                        `json:"type"`
	Title  string                        `json:"title"`
	Status int                           `json:"status"`
	Detail string                        `json:"detail,omitempty"`
	Errors []apperrors.ValidationFailure `json:"errors,omitempty"`
	Code   string                        `json:"code,omitempty"`
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://tools.ietf.org/html/rfc9110#section-15.5.1",
	http.StatusUnauthorized:        "https://tools.ietf.org/html/rfc9110#section-15.5.2",
	http.StatusForbidden:           "https://tools.ietf.org/html/rfc9110#section-15.5.4",
	http.StatusNotFound:            "https://tools.ietf.org/html/rfc9110#section-15.5.5",
	http.StatusTooManyRequests:     "https://tools.ietf.org/html/rfc6585#section-4",
	http.StatusInternalServerError: "https://tools.ietf.org/html/rfc9110#section-15.6.1",
}

// NewProblem builds a problem with the type matching status.
func NewProblem(status int, title, detail string) ProblemDetails {
	problemType, ok := problemTypes[status]
	if !ok {
		problemType = "about:blank"
	}
	return ProblemDetails{Type: problemType, Title: title, Status: status, Detail: detail}
}

// WriteProblem writes p as application/problem+json.
func WriteProblem(c *gin.Context, p ProblemDetails) {
	c.Header("Content-Type", ProblemContentType)
	c.JSON(p.Status, p)
}

// ProblemFromError maps an error to its problem document.
//
//   - NotFound → 404
//   - Validation → 400 with the field failures under "errors"
//   - Infrastructure → 500 with the error code under "code"
//   - Domain and any other variant → 400
//   - ErrUnauthorized → 401, ErrForbidden → 403
//   - anything else → 500 with the message hidden
func ProblemFromError(err error) ProblemDetails {
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Kind {
		case apperrors.KindNotFound:
			return NewProblem(http.StatusNotFound, appErr.Kind.String(), appErr.Message)
		case apperrors.KindValidation:
			p := NewProblem(http.StatusBadRequest, appErr.Kind.String(), appErr.Message)
			p.Errors = appErr.Failures
			return p
		case apperrors.KindInfrastructure:
			p := NewProblem(http.StatusInternalServerError, appErr.Kind.String(), appErr.Message)
			p.Code = appErr.Code
			return p
		default:
			return NewProblem(http.StatusBadRequest, appErr.Kind.String(), appErr.Message)
		}
	}

	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return NewProblem(http.StatusUnauthorized, TitleUnauthorized, "Authentication is required")
	case apperrors.Is(err, apperrors.ErrForbidden):
		return NewProblem(http.StatusForbidden, TitleForbidden, "You don't have permission to access this resource")
	}

	p := NewProblem(http.StatusInternalServerError, TitleInternalError, "An internal error occurred")
	p.Code = CodeInternalError
	return p
}

// HandleErrorGin writes the problem for err and logs it. Server side failures
// are logged at error level, rejected requests at debug level.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	p := ProblemFromError(err)

	if logger != nil {
		attrs := []any{
			slog.Int("status_code", p.Status),
			slog.String("title", p.Title),
			slog.Any("error", err),
		}
		if p.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Debug("request rejected", attrs...)
		}
	}

	WriteProblem(c, p)
}

// HandleBadRequestGin writes a 400 problem for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	WriteProblem(c, NewProblem(http.StatusBadRequest, TitleBadRequest, err.Error()))
}
