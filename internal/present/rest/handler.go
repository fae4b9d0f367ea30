package rest

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/totegamma/salesdesk/internal/domain"
	"github.com/totegamma/salesdesk/internal/present/rest/middleware"
	"github.com/totegamma/salesdesk/internal/present/rest/presenter"
	"github.com/totegamma/salesdesk/internal/usecase"
)

const apiPrefix = "/api"

type Handler struct {
	config domain.Config
	auth   *usecase.AuthUsecase
	proxy  *usecase.ProxyUsecase
}

func NewHandler(
	config domain.Config,
	auth *usecase.AuthUsecase,
	proxy *usecase.ProxyUsecase,
) *Handler {
	return &Handler{
		config: config,
		auth:   auth,
		proxy:  proxy,
	}
}

// RegisterRoutes mounts the proxy under /api. authMiddleware applies to
// the /api/auth group only.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware ...echo.MiddlewareFunc) {
	e.GET("/health", h.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group(apiPrefix)

	auth := api.Group("/auth", authMiddleware...)
	auth.POST("/login", h.handleLogin)
	auth.POST("/register", h.handleRegister)
	auth.POST("/logout", h.handleLogout)
	auth.GET("/me", h.handleMe)

	api.GET("/user/dashboard", h.forward(usecase.ResourceDashboard.FallbackMessage(http.MethodGet, true)))
	api.GET("/user/dashboard/stats", h.forward(usecase.ResourceStats.FallbackMessage(http.MethodGet, true)))

	for _, r := range []usecase.Resource{
		usecase.ResourceClientes,
		usecase.ResourceChamadas,
		usecase.ResourceVendas,
		usecase.ResourceHistoricoChat,
		usecase.ResourceSugestoes,
	} {
		api.GET(r.Path, h.forward(r.FallbackMessage(http.MethodGet, false)))
		api.POST(r.Path, h.forward(r.FallbackMessage(http.MethodPost, false)))
		api.GET(r.Path+"/:id", h.forward(r.FallbackMessage(http.MethodGet, true)))
		api.PUT(r.Path+"/:id", h.forward(r.FallbackMessage(http.MethodPut, true)))
		api.DELETE(r.Path+"/:id", h.forward(r.FallbackMessage(http.MethodDelete, true)))
	}

	api.DELETE(usecase.ResourceHistoricoChat.Path, h.forward(usecase.ResourceHistoricoChat.FallbackMessage(http.MethodDelete, false)))
	api.GET("/clientes/buscar/nome/:nome", h.forward("Erro ao buscar clientes"))
	api.GET("/clientes/buscar/empresa/:empresa", h.forward("Erro ao buscar clientes"))
	api.PATCH("/sugestoes/:id/aceitar", h.forward("Erro ao aceitar sugestão"))
}

// RegisterPages mounts the page routes behind the access guard.
func (h *Handler) RegisterPages(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.GET("/", h.handlePage, guard)
	e.GET("/login", h.handlePage, guard)
	e.GET("/register", h.handlePage, guard)
	e.GET("/dashboard", h.handlePage, guard)
	e.GET("/dashboard/*", h.handlePage, guard)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := readJSONBody(c)
	if err != nil {
		return presenter.BadRequestMessage(c, err.Error())
	}

	reply, err := h.auth.Login(ctx, body)
	if err != nil {
		return presenter.Error(c, h.config, err)
	}
	return presenter.Reply(c, h.config, reply)
}

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := readJSONBody(c)
	if err != nil {
		return presenter.BadRequestMessage(c, err.Error())
	}

	reply, err := h.auth.Register(ctx, body)
	if err != nil {
		return presenter.Error(c, h.config, err)
	}
	return presenter.Reply(c, h.config, reply)
}

func (h *Handler) handleLogout(c echo.Context) error {
	ctx := c.Request().Context()

	reply, err := h.auth.Logout(ctx, middleware.SessionToken(c))
	if err != nil {
		return presenter.Error(c, h.config, err)
	}
	return presenter.Reply(c, h.config, reply)
}

func (h *Handler) handleMe(c echo.Context) error {
	ctx := c.Request().Context()

	reply, err := h.auth.Me(ctx, middleware.SessionToken(c))
	if err != nil {
		return presenter.Error(c, h.config, err)
	}
	return presenter.Reply(c, h.config, reply)
}

// forward relays the request path (minus /api) and query string verbatim.
func (h *Handler) forward(fallback string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := c.Request()

		var body []byte
		if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
			var err error
			body, err = readJSONBody(c)
			if err != nil {
				return presenter.BadRequestMessage(c, err.Error())
			}
		}

		reply, err := h.proxy.Forward(ctx, usecase.ForwardInput{
			Method:   req.Method,
			Path:     strings.TrimPrefix(req.URL.EscapedPath(), apiPrefix),
			RawQuery: req.URL.RawQuery,
			Token:    middleware.SessionToken(c),
			Body:     body,
			Fallback: fallback,
		})
		if err != nil {
			return presenter.Error(c, h.config, err)
		}
		return presenter.Reply(c, h.config, reply)
	}
}

// readJSONBody returns nil for an empty body.
func readJSONBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body")
	}
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid json body")
	}
	return body, nil
}

// handlePage serves the page's static file from the web root, or a
// placeholder when no web root is configured.
func (h *Handler) handlePage(c echo.Context) error {
	name := path.Clean(c.Request().URL.Path)

	if h.config.WebRoot == "" {
		return c.HTML(http.StatusOK, fmt.Sprintf(
			"<!doctype html><html><head><title>salesdesk</title></head><body><main data-page=\"%s\"></main></body></html>",
			html.EscapeString(name),
		))
	}

	if name == "/" {
		name = "/index"
	}
	candidates := []string{
		filepath.Join(h.config.WebRoot, filepath.FromSlash(name)+".html"),
		filepath.Join(h.config.WebRoot, filepath.FromSlash(name), "index.html"),
	}
	for _, file := range candidates {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return c.File(file)
		}
	}
	return echo.ErrNotFound
}
