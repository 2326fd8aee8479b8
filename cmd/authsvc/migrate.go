package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/migrations"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply pending account schema migrations, or roll back the last group with --rollback.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runMigrate(ctx, cmd, rollback)
		},
	}

	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")

	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command, rollback bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := auth.OpenDB(cfg.Persistence.Driver, cfg.Persistence.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if rollback {
		group, err := migrations.Rollback(ctx, db)
		if err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
		cmd.Printf("Rolled back %s\n", group)
		return nil
	}

	group, err := migrations.Run(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	cmd.Printf("Migrated to %s\n", group)
	return nil
}
