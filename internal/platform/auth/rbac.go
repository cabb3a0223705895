package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware allowing only callers holding one of
// the given roles. The admin role always passes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequireCompanyScope resolves the company identifier for a request:
// the caller's claim wins, an explicit query parameter is accepted for
// admins, and absence is a 400.
func RequireCompanyScope(c echo.Context) (string, error) {
	scope := ScopeFromContext(c.Request().Context())
	if scope.CompanyID != "" {
		return scope.CompanyID, nil
	}
	if id := c.QueryParam("company_id"); id != "" {
		return id, nil
	}
	return "", echo.NewHTTPError(http.StatusBadRequest, "company_id is required")
}

// RequireDiagnosticScope resolves the diagnostic center identifier for
// a request, same precedence as RequireCompanyScope.
func RequireDiagnosticScope(c echo.Context) (string, error) {
	scope := ScopeFromContext(c.Request().Context())
	if scope.DiagnosticID != "" {
		return scope.DiagnosticID, nil
	}
	if id := c.QueryParam("diagnostic_id"); id != "" {
		return id, nil
	}
	return "", echo.NewHTTPError(http.StatusBadRequest, "diagnostic_id is required")
}
