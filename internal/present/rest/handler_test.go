package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/totegamma/salesdesk/internal/domain"
	"github.com/totegamma/salesdesk/internal/config"
	infracache "github.com/totegamma/salesdesk/internal/infra/cache"
	"github.com/totegamma/salesdesk/internal/infra/gateway"
	"github.com/totegamma/salesdesk/internal/present/rest/middleware"
	"github.com/totegamma/salesdesk/internal/present/rest/presenter"
	"github.com/totegamma/salesdesk/internal/service"
	"github.com/totegamma/salesdesk/internal/usecase"
)

type backendLog struct {
	calls     atomic.Int32
	lastAuth  atomic.Value
	lastQuery atomic.Value
	revoked   atomic.Bool
}

// fakeBackend accepts the token "abc" and rejects everything else.
func fakeBackend(log *backendLog) http.Handler {
	mux := http.NewServeMux()
	authorized := func(r *http.Request) bool {
		return !log.revoked.Load() && r.Header.Get("Authorization") == "Bearer abc"
	}
	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Email ou senha incorretos"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"access_token":"abc","token_type":"bearer","user":{"id":1,"email":"ana@example.com"}}`)
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"abc","token_type":"bearer","user":{"id":2,"email":"bia@example.com"}}`)
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":1,"email":"ana@example.com"}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.calls.Add(1)
		log.lastAuth.Store(r.Header.Get("Authorization"))
		log.lastQuery.Store(r.URL.RawQuery)
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, `{"detail":"Token expirado"}`)
			return
		}
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			writeJSON(w, http.StatusOK, `{"id":"new"}`)
		default:
			writeJSON(w, http.StatusOK, `[{"id":"1","nome":"Ana"}]`)
		}
	})
	return mux
}

type testServer struct {
	e       *echo.Echo
	backend *backendLog
}

func newTestServer(t *testing.T, backendURL string, log *backendLog, limit rate.Limit, burst int) *testServer {
	t.Helper()

	if backendURL == "" {
		srv := httptest.NewServer(fakeBackend(log))
		t.Cleanup(srv.Close)
		backendURL = srv.URL
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := domain.Config{CookieName: "token", CookieMaxAge: 86400}
	gw := gateway.NewBackendGateway(backendURL, time.Second)
	identity := infracache.NewMemoryIdentityCache(config.DefaultIdentityTTL)
	handler := NewHandler(cfg, usecase.NewAuthUsecase(gw, identity), usecase.NewProxyUsecase(gw, identity))

	e := echo.New()
	e.HTTPErrorHandler = presenter.HTTPErrorHandler
	e.Use(middleware.SecurityHeaders(false))
	e.Use(middleware.Metrics())
	auth := middleware.NewAuthMiddleware(cfg)
	e.Use(auth.IdentifySession)

	limiter := middleware.NewRateLimiter(ctx, limit, burst)
	handler.RegisterRoutes(e, limiter.Middleware())
	handler.RegisterPages(e, auth.Guard(service.NewAccessGuard(service.DefaultGuardConfig())))

	return &testServer{e: e, backend: log}
}

func (s *testServer) do(method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func defaultServer(t *testing.T) *testServer {
	return newTestServer(t, "", &backendLog{}, rate.Inf, 1)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

var validToken = &http.Cookie{Name: "token", Value: "abc"}
var staleToken = &http.Cookie{Name: "token", Value: "stale"}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "access_token")
	assert.NotContains(t, rec.Body.String(), "abc")
}

func TestLoginFailureRelaysBackend(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email ou senha incorretos", errorMessage(t, rec))
	assert.Nil(t, sessionCookie(rec))
}

func TestLoginRejectsInvalidJSON(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterReturnsCreated(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodPost, "/api/auth/register", `{"email":"bia@example.com","username":"bia","password":"secret"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, sessionCookie(rec))
	assert.Equal(t, "abc", sessionCookie(rec).Value)
}

func TestLogoutClearsCookie(t *testing.T) {
	s := defaultServer(t)

	for _, cookie := range []*http.Cookie{validToken, nil} {
		rec := s.do(http.MethodPost, "/api/auth/logout", "", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.MessageLoggedOut)

		deleted := sessionCookie(rec)
		require.NotNil(t, deleted)
		assert.Empty(t, deleted.Value)
		assert.Less(t, deleted.MaxAge, 0)
	}
}

func TestMe(t *testing.T) {
	s := defaultServer(t)

	t.Run("no cookie", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.MessageUnauthenticated, errorMessage(t, rec))
		assert.Nil(t, sessionCookie(rec))
	})

	t.Run("stale cookie", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/auth/me", "", staleToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.MessageSessionExpired, errorMessage(t, rec))
		deleted := sessionCookie(rec)
		require.NotNil(t, deleted)
		assert.Less(t, deleted.MaxAge, 0)
	})

	t.Run("valid cookie", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/auth/me", "", validToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"email":"ana@example.com"}`, rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMeAfterRevocation(t *testing.T) {
	log := &backendLog{}
	s := newTestServer(t, "", log, rate.Inf, 1)

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	rec = s.do(http.MethodGet, "/api/auth/me", "", &http.Cookie{Name: "token", Value: cookie.Value})
	require.Equal(t, http.StatusOK, rec.Code)

	log.revoked.Store(true)

	rec = s.do(http.MethodGet, "/api/auth/me", "", &http.Cookie{Name: "token", Value: cookie.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.MessageSessionExpired, errorMessage(t, rec))
	deleted := sessionCookie(rec)
	require.NotNil(t, deleted)
	assert.Empty(t, deleted.Value)
	assert.Less(t, deleted.MaxAge, 0)
}

func TestForwardListWithQuery(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodGet, "/api/clientes?skip=0&limit=10", "", validToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"1","nome":"Ana"}]`, rec.Body.String())
	assert.Equal(t, "skip=0&limit=10", s.backend.lastQuery.Load())
	assert.Equal(t, "Bearer abc", s.backend.lastAuth.Load())
	assert.Equal(t, "no-store, no-cache, must-revalidate, private", rec.Header().Get("Cache-Control"))
}

func TestForwardWithoutCookie(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodGet, "/api/vendas", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.MessageUnauthenticated, errorMessage(t, rec))
	assert.Equal(t, int32(0), s.backend.calls.Load())
}

func TestForwardExpiredSession(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodGet, "/api/clientes", "", staleToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token expirado", errorMessage(t, rec))

	deleted := sessionCookie(rec)
	require.NotNil(t, deleted)
	assert.Empty(t, deleted.Value)
	assert.Less(t, deleted.MaxAge, 0)
}

func TestForwardCreateAndDelete(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodPost, "/api/vendas", `{"valor":100}`, validToken)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"new"}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/api/clientes/42", "", validToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(http.MethodPatch, "/api/sugestoes/7/aceitar", "", validToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/clientes/buscar/nome/Ana%20Maria", "", validToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := newTestServer(t, url, &backendLog{}, rate.Inf, 1)

	rec := s.do(http.MethodGet, "/api/clientes", "", validToken)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, domain.MessageInternalError, errorMessage(t, rec))
	assert.Nil(t, sessionCookie(rec))

	rec = s.do(http.MethodPost, "/api/auth/login", `{"email":"a","password":"b"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, "", &backendLog{}, rate.Every(time.Hour), 2)

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"a","password":"secret"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"a","password":"secret"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// data routes are not limited
	rec = s.do(http.MethodGet, "/api/clientes", "", validToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodGet, "/dashboard/clientes", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard%2Fclientes", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/login", "", validToken)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	// presence is enough; the guard never validates the credential
	rec = s.do(http.MethodGet, "/dashboard", "", staleToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/login", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodGet, "/api/unknown", "", validToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
}

func TestHealth(t *testing.T) {
	s := defaultServer(t)

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
