package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	jwttoken "profiles/internal/jwt_token"
	"profiles/internal/platform/config"
	"profiles/internal/platform/httpserver"
	"profiles/internal/platform/logger"
	"profiles/internal/platform/metrics"
	profilehandler "profiles/internal/profile/handler"
	ratelimitadmin "profiles/internal/ratelimit/admin"
	"profiles/pkg/platform/httputil"
	"profiles/pkg/platform/middleware/admin"
	authmw "profiles/pkg/platform/middleware/auth"
	"profiles/pkg/platform/middleware/metadata"
	"profiles/pkg/platform/middleware/request"
	"profiles/pkg/platform/middleware/requesttime"
)

// main wires dependencies, exposes the HTTP router and drains background
// work on shutdown. Business logic lives in internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	app.start(ctx)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	if cfg.DemoMode {
		if err := seedDemo(ctx, app, tokens, log); err != nil {
			log.Error("failed to seed demo accounts", "error", err)
			os.Exit(1)
		}
	}

	router, err := newRouter(cfg, app, tokens, log)
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting profiles service", "addr", cfg.Addr, "demo_mode", cfg.DemoMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	app.close(log)
}

func newRouter(cfg config.Server, app *application, validator authmw.JWTValidator, log *slog.Logger) (http.Handler, error) {
	httpMetrics := metrics.New()

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(httpMetrics.Middleware)
	r.Use(chimiddleware.Timeout(25 * time.Second))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, body := app.healthStatus(r.Context())
		if status != http.StatusOK {
			log.WarnContext(r.Context(), "health check failed", "error", body["error"])
			delete(body, "error")
		}
		httputil.WriteJSON(w, status, body)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuth(validator, log))
		profilehandler.New(app.profiles, log).Register(r)
	})

	// Operator endpoints stay unmounted without a configured token.
	if cfg.AdminToken != "" {
		resets, err := ratelimitadmin.New(app.limiter,
			ratelimitadmin.WithLogger(log),
			ratelimitadmin.WithAuditPublisher(app.audit),
		)
		if err != nil {
			return nil, err
		}
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, log))
			resets.Register(r)
		})
	}
	return r, nil
}
