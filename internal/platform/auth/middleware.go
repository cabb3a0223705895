// Package auth provides JWT authentication and role checks for the
// admin API. Claims carry the caller's roles plus the scope
// identifiers (company, diagnostic center, doctor, staff) that the old
// admin clients used to read out of browser storage; handlers take
// them from the request context instead, so a missing identifier is a
// typed 400, not a silent empty fetch.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
	ScopeKey     contextKey = "scope"
)

// Scope identifies which slice of the platform a request operates on.
// Fields are empty when the caller has no such binding.
type Scope struct {
	CompanyID    string `json:"company_id,omitempty"`
	DiagnosticID string `json:"diagnostic_id,omitempty"`
	DoctorID     string `json:"doctor_id,omitempty"`
	StaffID      string `json:"staff_id,omitempty"`
}

type Claims struct {
	jwt.RegisteredClaims
	Roles        []string `json:"roles"`
	CompanyID    string   `json:"company_id,omitempty"`
	DiagnosticID string   `json:"diagnostic_id,omitempty"`
	DoctorID     string   `json:"doctor_id,omitempty"`
	StaffID      string   `json:"staff_id,omitempty"`
}

type JWTConfig struct {
	Issuer   string
	Audience string
	// SigningKey validates HS256 tokens; required outside development.
	SigningKey []byte
}

// JWTMiddleware validates bearer tokens and stores the caller's
// identity, roles, and scope on the request context.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"HS256"}),
			}
			if cfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(cfg.Issuer))
			}
			if cfg.Audience != "" {
				opts = append(opts, jwt.WithAudience(cfg.Audience))
			}

			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, opts...)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, UserRolesKey, claims.Roles)
			ctx = context.WithValue(ctx, ScopeKey, Scope{
				CompanyID:    claims.CompanyID,
				DiagnosticID: claims.DiagnosticID,
				DoctorID:     claims.DoctorID,
				StaffID:      claims.StaffID,
			})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// DevAuthMiddleware grants admin access to every request. Development
// mode only.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, "dev-user")
			ctx = context.WithValue(ctx, UserRolesKey, []string{"admin"})
			ctx = context.WithValue(ctx, ScopeKey, Scope{})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}

func ScopeFromContext(ctx context.Context) Scope {
	s, _ := ctx.Value(ScopeKey).(Scope)
	return s
}
