package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/config"
)

// Global flags available to all subcommands.
var (
	configFile string
	logFormat  string
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "authsvc",
		Short:        "Account registration, login and bearer token service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json or text)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.WithConfigFile(configFile))
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(format string) *auth.SlogLogger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return auth.NewSlogLogger(logger)
}
