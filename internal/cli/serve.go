package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tutu-network/dreambank/internal/api"
	"github.com/tutu-network/dreambank/internal/app/reward"
	"github.com/tutu-network/dreambank/internal/daemon"
	"github.com/tutu-network/dreambank/internal/infra/logger"
	"github.com/tutu-network/dreambank/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd, configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	serveCmd.Flags().String("host", "", "listen host (overrides [api].host)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides [api].port)")
}

// ─── serve ──────────────────────────────────────────────────────────────────

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.API.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.API.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New("dreambank", cfg.Log.Level)
	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	bank, err := reward.Open(cmd.Context(), db, reward.WithLogger(log))
	if err != nil {
		return err
	}

	srv := api.NewServer(bank, log)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}
	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.WithField("addr", cfg.Addr()).WithField("db", db.Path()).Info("dream bank listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// ─── config ─────────────────────────────────────────────────────────────────

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config.toml if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = filepath.Join(daemon.Home(), daemon.ConfigFile)
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := daemon.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}
