package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/michi-labs/catapi/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders every domain failure as 500 with its message, whatever its kind.
//   - Hides the cause of unclassified errors behind a generic message.
//   - Keeps the status of Echo's own errors (404, 405, ...).
//
// The one exception to the flat 500 policy is rejected login credentials,
// which render as 401 so clients can tell a bad password from an outage.
// Validation, conflict and not-found failures deliberately stay 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (unknown route, method not allowed, bind failures).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if errors.As(err, &de) {
		ev := log.Warn()
		if de.Kind == domain.KindUnknown || de.Kind == domain.KindUpstream {
			ev = log.Error()
		}
		ev.Err(err).
			Str("kind", string(de.Kind)).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")

		if de.Kind == domain.KindUnauthenticated {
			return http.StatusUnauthorized, de.Message
		}
		return http.StatusInternalServerError, de.Message
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
