package http

import (
	"errors"
	"fmt"
	"net/http"

	"production/internal/generated/servers"
	"production/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindInvariantViolation:
		return http.StatusUnprocessableEntity
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// problem answers err with the status of its kind. Internal errors are logged
// and their message is not echoed.
func (s *Server) problem(c echo.Context, operation string, err error) error {
	kind := errs.KindOf(err)
	body := servers.Error{
		Code:      statusOf(kind),
		Kind:      kind.String(),
		Message:   err.Error(),
		Retryable: kind.Retryable(),
	}

	var rule *errs.RuleViolationError
	var conflict *errs.ConflictError
	switch {
	case errors.As(err, &rule):
		body.Rule = rule.Rule
	case errors.As(err, &conflict):
		body.Rule = conflict.Reason
	}

	if kind == errs.KindInternal {
		s.logger.ErrorContext(c.Request().Context(), "operation failed",
			"operation", operation, "error", err)
		body.Message = "internal error"
	}
	if s.metrics != nil {
		s.metrics.RecordOperationFailure(operation, kind.String())
	}
	return c.JSON(body.Code, body)
}

// badRequest answers a body that could not be bound or failed validation.
func (s *Server) badRequest(c echo.Context, operation string, err error) error {
	var verrs validator.ValidationErrors
	message := err.Error()
	if errors.As(err, &verrs) && len(verrs) > 0 {
		message = verrs[0].Namespace() + " failed on " + verrs[0].Tag()
	}
	if s.metrics != nil {
		s.metrics.RecordOperationFailure(operation, errs.KindValidation.String())
	}
	return c.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Kind:    errs.KindValidation.String(),
		Message: message,
	})
}

// handleError renders errors that never reached a handler, such as unknown
// routes or malformed path parameters, in the same body as handler errors.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	kind := errs.KindValidation
	switch {
	case he.Code == http.StatusNotFound:
		kind = errs.KindNotFound
	case he.Code >= http.StatusInternalServerError:
		kind = errs.KindInternal
	}

	body := servers.Error{
		Code:    he.Code,
		Kind:    kind.String(),
		Message: fmt.Sprint(he.Message),
	}
	if kind == errs.KindInternal {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"path", c.Request().URL.Path, "error", err)
		body.Message = "internal error"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, body)
	}
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
	}
}
