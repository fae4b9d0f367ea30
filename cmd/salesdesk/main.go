package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/totegamma/salesdesk"
	"github.com/totegamma/salesdesk/internal/config"
	"github.com/totegamma/salesdesk/internal/domain"
	infracache "github.com/totegamma/salesdesk/internal/infra/cache"
	"github.com/totegamma/salesdesk/internal/infra/database"
	"github.com/totegamma/salesdesk/internal/infra/gateway"
	"github.com/totegamma/salesdesk/internal/infra/telemetry"
	"github.com/totegamma/salesdesk/internal/present/rest"
	appmiddleware "github.com/totegamma/salesdesk/internal/present/rest/middleware"
	"github.com/totegamma/salesdesk/internal/present/rest/presenter"
	"github.com/totegamma/salesdesk/internal/service"
	"github.com/totegamma/salesdesk/internal/usecase"
	"github.com/totegamma/salesdesk/internal/utils/logger"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("SALESDESK_CONFIG"), "path to config yaml")
	flag.Parse()

	logger.Init(os.Stdout, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.InfoContext(
		ctx, "configuration loaded",
		slog.String("backend", cfg.Backend.URL),
		slog.String("addr", cfg.Server.Addr),
		slog.Bool("secureCookie", cfg.Server.SecureCookie),
		slog.Duration("identityTTL", cfg.Cache.IdentityTTLDuration),
	)

	shutdownTrace := telemetry.ShutdownFunc(telemetry.Noop)
	if cfg.Server.EnableTrace {
		shutdownTrace, err = telemetry.SetupTraceProvider(ctx, cfg.Server.TraceEndpoint, cfg.Server.ServiceName, version)
		if err != nil {
			slog.WarnContext(ctx, "failed to initialize tracing, continuing without it", slog.String("error", err.Error()))
			cfg.Server.EnableTrace = false
			shutdownTrace = telemetry.Noop
		}
	}

	var identity usecase.IdentityCache = infracache.NewMemoryIdentityCache(cfg.Cache.IdentityTTLDuration)
	if cfg.Cache.MemcachedAddr != "" {
		mc, err := database.NewMemcached(cfg.Cache.MemcachedAddr)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect memcached", slog.String("error", err.Error()))
			os.Exit(1)
		}
		identity = infracache.NewMemcacheIdentityCache(mc, cfg.Cache.IdentityTTLDuration)
	}

	domainConfig := domain.Config{
		CookieName:   salesdesk.SessionCookieName,
		CookieMaxAge: salesdesk.SessionMaxAge,
		SecureCookie: cfg.Server.SecureCookie,
		WebRoot:      cfg.Server.WebRoot,
	}

	backend := gateway.NewBackendGateway(cfg.Backend.URL, cfg.Backend.TimeoutDuration)
	authUsecase := usecase.NewAuthUsecase(backend, identity)
	proxyUsecase := usecase.NewProxyUsecase(backend, identity)
	handler := rest.NewHandler(domainConfig, authUsecase, proxyUsecase)

	authMiddleware := appmiddleware.NewAuthMiddleware(domainConfig)
	guard := service.NewAccessGuard(service.DefaultGuardConfig())
	authLimiter := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit.AuthPerMinute/60.0), cfg.RateLimit.AuthBurst)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = presenter.HTTPErrorHandler

	e.Use(appmiddleware.SecurityHeaders(cfg.Server.SecureCookie))
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware(cfg.Server.ServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		})))
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health" || c.Request().URL.Path == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(
					rctx, "request completed",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
				)
			} else {
				slog.ErrorContext(
					rctx, "request failed",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
					slog.String("error", v.Error.Error()),
				)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(appmiddleware.Metrics())
	e.Use(authMiddleware.IdentifySession)

	handler.RegisterRoutes(e, authLimiter.Middleware())
	handler.RegisterPages(e, authMiddleware.Guard(guard))

	slog.InfoContext(ctx, "starting salesdesk server", slog.String("addr", cfg.Server.Addr), slog.String("version", version))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTrace(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("server exited properly")
}
