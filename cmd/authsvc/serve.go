package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-print"
	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/migrations"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), accessLog)
		},
	}

	cmd.Flags().BoolVar(&accessLog, "access-log", true, "log every HTTP request")

	return cmd
}

func runServe(ctx context.Context, accessLog bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(logFormat)

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	logger.Debug("configuration loaded", "config", print.MaybePrettyJSON(cfg.Redacted()))

	db, err := auth.OpenDB(cfg.Persistence.Driver, cfg.Persistence.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.Persistence.MigrateOnStart {
		group, err := migrations.Run(ctx, db)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", "group", group.String())
	}

	srv, err := NewServer(cfg, db, logger, WithAccessLog(accessLog))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Address)
		errCh <- srv.App.Listen(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping http server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
