package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/config"
	"github.com/goliatone/go-auth-service/metrics"
	"github.com/goliatone/go-auth-service/middleware/bearer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
)

// Server holds the wired HTTP application and its dependencies
type Server struct {
	App      *fiber.App
	Repo     auth.RepositoryManager
	Service  *auth.Service
	Gate     *bearer.Gate
	Registry *prometheus.Registry
}

// ServerOption configures NewServer
type ServerOption func(*serverOptions)

type serverOptions struct {
	accessLog bool
}

// WithAccessLog enables the fiber request logger
func WithAccessLog(enabled bool) ServerOption {
	return func(o *serverOptions) {
		o.accessLog = enabled
	}
}

// NewServer wires the store, service, gate and routes on top of db
func NewServer(cfg *config.Config, db *bun.DB, logger *auth.SlogLogger, opts ...ServerOption) (*Server, error) {
	options := &serverOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	if logger == nil {
		logger = auth.NewSlogLogger(nil)
	}

	repo := auth.NewRepositoryManager(db, cfg.Persistence.Timeout, logger.Named("store"))
	if err := repo.Validate(); err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}

	tokens, err := auth.NewTokenServiceFromConfig(cfg.Auth, logger.Named("tokens"))
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	service := auth.NewService(repo.Accounts(), auth.NewBcryptHasher(cfg.Auth.PasswordCost), tokens).
		WithLogger(logger.Named("service")).
		WithActivitySink(auth.ActivitySinks{
			collector,
			auth.NewLogActivitySink(logger.Named("activity")),
		})

	gate := bearer.New(bearer.Config{
		Verifier:   tokens,
		ContextKey: cfg.Auth.GetContextKey(),
		AuthScheme: cfg.Auth.GetAuthScheme(),
		Logger:     logger.Named("gate"),
	})

	app := fiber.New(fiber.Config{
		AppName:               "authsvc",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(auth.ErrorBody{Msg: fe.Message})
			}
			return auth.WriteError(c, logger, err)
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if options.accessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(collector.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	controller := auth.NewAccountController(service, auth.WithControllerLogger(logger.Named("http")))
	auth.RegisterAccountRoutes(app, controller, gate.Handler(), gate.OwnerOnly("id"))

	return &Server{
		App:      app,
		Repo:     repo,
		Service:  service,
		Gate:     gate,
		Registry: registry,
	}, nil
}

// Shutdown stops the HTTP server and waits for in flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
