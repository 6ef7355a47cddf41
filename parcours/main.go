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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/parcour-labs/parcour-go/internal/platform/auditlog"
	"github.com/parcour-labs/parcour-go/internal/platform/auth"
	"github.com/parcour-labs/parcour-go/internal/platform/env"
	"github.com/parcour-labs/parcour-go/internal/platform/httpserver"
	"github.com/parcour-labs/parcour-go/internal/platform/metrics"
	"github.com/parcour-labs/parcour-go/internal/platform/postgres"
	"github.com/parcour-labs/parcour-go/internal/platform/ratelimit"
	repopg "github.com/parcour-labs/parcour-go/internal/repo/postgres"
	"github.com/parcour-labs/parcour-go/internal/service/identity"
	parcoursvc "github.com/parcour-labs/parcour-go/internal/service/parcours"
	runsvc "github.com/parcour-labs/parcour-go/internal/service/runs"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := env.String("PARCOUR_HTTP_ADDR", ":8080")
	shutdownTimeout, err := env.Duration("PARCOUR_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	dbCfg, err := postgres.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(2)
	}
	if err := postgres.Migrate(dbCfg.URL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid auth config", "error", err)
		os.Exit(2)
	}

	runStore := repopg.NewRunStore(db)
	parcourStore := repopg.NewParcourStore(db)
	userStore := repopg.NewUserStore(db)

	resolver := identity.NewResolver(userStore, logger)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	runService := runsvc.New(runStore, parcourStore, logger).
		WithAudit(db).
		WithMetrics(collector)
	parcourService := parcoursvc.New(parcourStore)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", httpserver.Healthz("parcours"))
	mux.HandleFunc(
		"GET /readyz",
		httpserver.ReadyzWithChecks(
			"parcours",
			httpserver.ReadinessCheck{
				Name: "postgres",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return db.PingContext(checkCtx)
				},
			},
		),
	)
	mux.Handle("GET /metrics", metrics.Handler(reg))

	var authenticator auth.Authenticator
	switch authCfg.Mode {
	case auth.ModeDev:
		authenticator = auth.NewDevAuthenticator(authCfg)
	default:
		oidcService, err := auth.NewOIDCService(ctx, authCfg)
		if err != nil {
			logger.Error("oidc setup failed", "error", err)
			os.Exit(1)
		}
		authenticator = oidcService

		login, err := oidcService.LoginHandler()
		if err != nil {
			logger.Error("oidc login handler", "error", err)
			os.Exit(2)
		}
		callback, err := oidcService.CallbackHandler()
		if err != nil {
			logger.Error("oidc callback handler", "error", err)
			os.Exit(2)
		}
		mux.HandleFunc("GET /auth/login", login)
		mux.HandleFunc("GET /auth/callback", callback)
		mux.HandleFunc("POST /auth/logout", oidcService.LogoutHandler())
		mux.HandleFunc("GET /auth/session", oidcService.SessionHandler())
	}

	api := newParcoursAPI(logger, parcourService, runService, userStore)
	api.register(mux)

	limiter := ratelimit.New(logger, ratelimit.DefaultConfig())
	defer limiter.Stop()

	handler := auth.Middleware{
		Logger:        logger,
		Authenticator: authenticator,
		ResolveUser:   resolver.Resolve,
		Audit: func(ctx context.Context, event auth.DenyEvent) error {
			auditCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
			defer cancel()
			return auditlog.InsertAuthDeny(auditCtx, db, "parcours", event)
		},
		SkipPrefixes: []string{"/healthz", "/readyz", "/metrics", "/auth/"},
	}.Wrap(limiter.Middleware(collector.Middleware(mux)))

	cfg := httpserver.Config{
		Service:         "parcours",
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
	}

	if err := httpserver.Run(ctx, logger, cfg, httpserver.Wrap(logger, "parcours", handler)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
