package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutu-network/dreambank/internal/app/reward"
	"github.com/tutu-network/dreambank/internal/domain"
	"github.com/tutu-network/dreambank/internal/infra/legacy"
)

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)

	importCmd.Flags().Bool("json", false, "SOURCE is a snapshot written by 'dreambank export'")
	exportCmd.Flags().String("legacy", "", "write users.json and bank.json into this directory instead")
}

// ─── import ─────────────────────────────────────────────────────────────────

var importCmd = &cobra.Command{
	Use:   "import SOURCE",
	Short: "Replace all data with an imported snapshot",
	Long: `Replace all data with an imported snapshot.

By default SOURCE is a directory holding users.json and bank.json from the
original dream bank app. With --json, SOURCE is a JSON file written by
'dreambank export'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		var snap domain.Snapshot
		if asJSON {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("%w: parse snapshot: %v", domain.ErrInvalidInput, err)
			}
		} else {
			s, err := legacy.ReadDir(args[0])
			if err != nil {
				return err
			}
			snap = s
		}

		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.Import(ctx, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users, %d activities, %d treats, %d dreams. Dream pool: %d pts\n",
				len(snap.Users), len(snap.Bank.Activities), len(snap.Bank.Treats), len(snap.Bank.Dreams), bank.Pool())
			return nil
		})
	},
}

// ─── export ─────────────────────────────────────────────────────────────────

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print every user, catalog entry, ledger, and log entry as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("legacy")
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if dir == "" {
				return printJSON(cmd, bank.Export())
			}
			if err := legacy.WriteDir(dir, bank.Export()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s to %s\n", legacy.UsersFile, legacy.BankFile, dir)
			return nil
		})
	},
}
