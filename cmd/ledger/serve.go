package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/server"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference expense service",
		Long: `Serve /api/expenses from a local database so the client commands have
something to talk to.

SQLite is used by default. Set server.driver to postgres and server.dsn to a
connection string to use PostgreSQL instead.

Examples:
  ledger serve
  ledger serve --addr :8080 --dsn ./expenses.db
  LEDGER_SERVER_DRIVER=postgres LEDGER_SERVER_DSN=postgres://localhost/ledger ledger serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().String("driver", "", "database driver: sqlite3 or postgres (overrides server.driver)")
	cmd.Flags().String("dsn", "", "database path or connection string (overrides server.dsn)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	for flag, key := range map[string]string{
		"addr":   config.KeyServerAddr,
		"driver": config.KeyServerDriver,
		"dsn":    config.KeyServerDSN,
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			viper.Set(key, v)
		}
	}

	cfg, err := config.LoadServerConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger := slog.Default()
	db, err := storage.Open(cfg.Driver, cfg.DSN, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("📒 Expense service starting", "addr", cfg.Addr, "driver", cfg.Driver)
	return server.New(db, logger).ListenAndServe(cmd.Context(), cfg.Addr)
}
