package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/totegamma/salesdesk/internal/domain"
)

func TestIdentifySessionPrefersCookie(t *testing.T) {
	e := echo.New()
	m := NewAuthMiddleware(domain.Config{CookieName: "token"})

	var seen string
	e.GET("/probe", func(c echo.Context) error {
		seen = SessionToken(c)
		return c.NoContent(http.StatusOK)
	}, m.IdentifySession)

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie only", "c1", "", "c1"},
		{"header only", "", "Bearer h1", "h1"},
		{"both", "c1", "Bearer h1", "c1"},
		{"empty cookie falls back", "", "Bearer h1", "h1"},
		{"malformed header", "", "Token h1", ""},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = "unset"
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			e.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := echo.New()
	rl := NewRateLimiter(ctx, rate.Limit(1), 1)
	e.GET("/limited", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, rl.Middleware())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2"))
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders(true))
	e.GET("/api/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/page", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
