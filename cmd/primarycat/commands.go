package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"primarycat/internal/database"
)

// NewServeCommand starts the HTTP server.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server. Pending migrations are applied on start and,
in development, the database is seeded with an admin user and sample
categories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// NewMigrateCommand applies pending database migrations and exits.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				if err := database.Migrate(ctx, db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				slog.Info("migrations up to date")
				return nil
			})
		},
	}
	cmd.AddCommand(NewMigrateStatusCommand())
	return cmd
}

// NewMigrateStatusCommand prints each embedded migration and whether it ran.
func NewMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				states, err := database.Status(ctx, db)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tMIGRATION\tAPPLIED")
				for _, s := range states {
					applied := "pending"
					if s.Applied {
						applied = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, s.Name, applied)
				}
				return tw.Flush()
			})
		},
	}
}

// NewSeedCommand migrates and seeds the database. Seeding is idempotent.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the admin user and sample categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				if err := database.Migrate(ctx, db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				if err := database.Seed(ctx, db); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				return nil
			})
		},
	}
}

// withDB loads config, connects, and runs fn with the open pool.
func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	return fn(ctx, db)
}
