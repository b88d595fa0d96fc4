// Package cli implements the dreambank command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tutu-network/dreambank/internal/app/reward"
	"github.com/tutu-network/dreambank/internal/daemon"
	"github.com/tutu-network/dreambank/internal/domain"
	"github.com/tutu-network/dreambank/internal/infra/logger"
	"github.com/tutu-network/dreambank/internal/infra/sqlite"
)

var (
	configPath string
	verbose    bool
	cfg        daemon.Config
)

var rootCmd = &cobra.Command{
	Use:   "dreambank",
	Short: "Earn points for workouts, spend them on treats, save up for shared dreams",
	Long: `dreambank keeps a points ledger per user. Completing an activity earns
points (and a bonus on every level-up), treats are bought from your own
points, and every treat purchase feeds the shared dream pool that any
user can spend on a dream.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := daemon.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $DREAMBANK_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every operation to stderr")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// cliLogger logs warnings only unless --verbose is set.
func cliLogger() *logger.Logger {
	level := "warn"
	if verbose {
		level = cfg.Log.Level
	}
	return logger.New("dreambank-cli", level)
}

// withBank opens the store, runs fn against the engine, and closes the store.
func withBank(cmd *cobra.Command, fn func(ctx context.Context, bank *reward.Engine) error) error {
	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	bank, err := reward.Open(cmd.Context(), db, reward.WithLogger(cliLogger()))
	if err != nil {
		return err
	}
	return fn(cmd.Context(), bank)
}

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", domain.ErrInvalidInput, s)
	}
	return n, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
