package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/salesdesk"
	"github.com/totegamma/salesdesk/internal/domain"
	"github.com/totegamma/salesdesk/internal/infra/metrics"
	"github.com/totegamma/salesdesk/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	config domain.Config
}

func NewAuthMiddleware(config domain.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
	}
}

// IdentifySession makes the request's session token available to handlers.
// It only looks the token up; the backend decides whether it is valid.
func (m *AuthMiddleware) IdentifySession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifySession")
		defer span.End()

		token := m.lookup(c)
		if token != "" {
			c.Set(domain.SessionTokenCtxKey, token)
			ctx = context.WithValue(ctx, domain.SessionTokenCtxKey, token)
		}
		span.SetAttributes(attribute.Bool("HasSession", token != ""))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// Guard redirects page navigations according to session presence.
func (m *AuthMiddleware) Guard(guard *service.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			decision := guard.Decide(path, m.lookup(c) != "")
			if decision.Action == service.GuardRedirect {
				metrics.RecordRedirect(strings.SplitN(decision.Location, "?", 2)[0])
				return c.Redirect(http.StatusTemporaryRedirect, decision.Location)
			}
			return next(c)
		}
	}
}

// lookup reads the session cookie, then an Authorization: Bearer header.
func (m *AuthMiddleware) lookup(c echo.Context) string {
	if cookie, err := c.Cookie(m.config.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, ok := salesdesk.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
		return token
	}
	return ""
}

// SessionToken returns the token found by IdentifySession, or "".
func SessionToken(c echo.Context) string {
	token, _ := c.Get(domain.SessionTokenCtxKey).(string)
	return token
}
