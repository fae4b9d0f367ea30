package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/salesdesk/internal/domain"
	"github.com/totegamma/salesdesk/internal/infra/metrics"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Reply writes a usecase result, applying its session directive first.
func Reply(c echo.Context, config domain.Config, reply domain.Reply) error {
	ApplySession(c, config, reply.Session)
	if reply.Body == nil {
		return c.NoContent(reply.Status)
	}
	return c.JSONBlob(reply.Status, reply.Body)
}

// Error maps a usecase failure to the response the client sees.
func Error(c echo.Context, config domain.Config, err error) error {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.MessageUnauthenticated})
	case errors.Is(err, domain.ErrSessionExpired):
		ApplySession(c, config, domain.ClearSession())
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.MessageSessionExpired})
	case errors.As(err, &upstream):
		ApplySession(c, config, upstream.Session)
		return c.JSON(upstream.Status, errorResponse{Error: upstream.Message})
	default:
		return InternalError(c, err)
	}
}

// ApplySession turns a directive into a Set-Cookie header.
func ApplySession(c echo.Context, config domain.Config, directive domain.SessionDirective) {
	switch directive.Action {
	case domain.SessionSet:
		c.SetCookie(sessionCookie(config, directive.Token, config.CookieMaxAge))
	case domain.SessionClear:
		c.SetCookie(sessionCookie(config, "", -1))
	default:
		return
	}
	metrics.RecordSession(directive.Action.String())
}

func sessionCookie(config domain.Config, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     config.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.DebugContext(
		c.Request().Context(), "bad request",
		slog.String("reason", msg),
		slog.String("module", "presenter"),
	)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func TooManyRequests(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, errorResponse{Error: domain.MessageTooManyRequests})
}

// InternalError logs the cause and answers with a generic message.
func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(
		c.Request().Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("module", "presenter"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: domain.MessageInternalError})
}

// HTTPErrorHandler renders echo's own errors (404, 405, body limit) as {error}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = InternalError(c, err)
		return
	}

	msg := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		msg = m
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, errorResponse{Error: msg})
}
