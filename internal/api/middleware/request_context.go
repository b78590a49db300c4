package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/michi-labs/catapi/internal/pkg/reqctx"
)

// RequestID assigns every request an id (reusing an inbound X-Request-ID) and
// stores it in the request context so services and the catalog client can
// read it with reqctx.RequestID.
func RequestID() echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(reqctx.WithRequestID(req.Context(), id)))
		},
	})
}
