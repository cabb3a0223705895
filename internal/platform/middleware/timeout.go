package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestTimeout bounds how long a handler may run. Echo's timeout
// middleware wraps the response writer so a handler that finishes
// after the deadline cannot write onto a connection the 503 already
// used. Handlers that legitimately run long (bulk archive builds)
// derive their own deadline from the request context.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: "request timed out",
	})
}
