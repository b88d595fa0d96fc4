package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/dreambank/internal/app/reward"
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userRemoveCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userResetCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

// ─── user add ───────────────────────────────────────────────────────────────

var userAddCmd = &cobra.Command{
	Use:   "add USER",
	Short: "Add a user with an empty ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.AddUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added user %q.\n", args[0])
			return nil
		})
	},
}

// ─── user rm ────────────────────────────────────────────────────────────────

var userRemoveCmd = &cobra.Command{
	Use:     "rm USER",
	Aliases: []string{"remove"},
	Short:   "Delete a user with their ledger and activity log",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %q.\n", args[0])
			return nil
		})
	},
}

// ─── user list ──────────────────────────────────────────────────────────────

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with their balance and level",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			out := cmd.OutOrStdout()
			users := bank.Users()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users yet.")
				fmt.Fprintln(out, "Use 'dreambank user add <name>' to add one.")
				return nil
			}
			fmt.Fprintf(out, "Users (%d):\n", len(users))
			for _, u := range users {
				l, err := bank.Ledger(u)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  • %-16s %6d pts  level %d\n", u, l.Balance, l.Level().Level)
			}
			return nil
		})
	},
}

// ─── user reset ─────────────────────────────────────────────────────────────

var userResetCmd = &cobra.Command{
	Use:   "reset USER",
	Short: "Zero a user's points, clear their log and treat purchases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.ResetUserLedger(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset ledger of %q.\n", args[0])
			return nil
		})
	},
}
