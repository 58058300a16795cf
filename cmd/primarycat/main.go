// Package main is the entry point for the PrimaryCat server.
// The serve command loads configuration, connects to services, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"primarycat/internal/config"
)

var version = "dev"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the CLI. Running it without a subcommand serves.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "primarycat",
		Short:         "PrimaryCat - primary categories for a small CMS",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewSeedCommand())
	return rootCmd
}

// loadConfig reads the environment and installs the structured logger:
// text in development, JSON otherwise.
func loadConfig() (*config.Config, error) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return cfg, nil
}
