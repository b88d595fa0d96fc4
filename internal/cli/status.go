package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tutu-network/dreambank/internal/app/reward"
)

func init() {
	rootCmd.AddCommand(statusCmd, logCmd, poolCmd)
	logCmd.AddCommand(logListCmd, logRemoveCmd)
	poolCmd.AddCommand(poolShowCmd, poolResetCmd)

	statusCmd.Flags().Bool("json", false, "print the status as JSON")
}

// ─── status ─────────────────────────────────────────────────────────────────

var statusCmd = &cobra.Command{
	Use:   "status USER",
	Short: "Show a user's points, level, and reward progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			st, err := bank.Status(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, st)
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

func printStatus(out io.Writer, st reward.UserStatus) {
	fmt.Fprintf(out, "%s\n", st.User)
	fmt.Fprintf(out, "  Balance:  %d pts (lifetime %d)\n", st.Balance, st.Lifetime)
	fmt.Fprintf(out, "  Level:    %d (%.1f%%, %d pts to next)\n", st.Level.Level, st.LevelPct, st.ToNext)
	fmt.Fprintf(out, "  Pool:     %d pts\n", st.DreamPool)

	fmt.Fprintf(out, "\nTreats: purchased %d/%d (%.1f%%)\n", st.TreatsPurchased, len(st.Treats), st.TreatsPct)
	for _, p := range st.Treats {
		printProgress(out, p)
	}
	fmt.Fprintf(out, "\nDreams: purchased %d/%d (%.1f%%)\n", st.DreamsPurchased, len(st.Dreams), st.DreamsPct)
	for _, p := range st.Dreams {
		printProgress(out, p)
	}
}

func printProgress(out io.Writer, p reward.RewardProgress) {
	switch {
	case p.Purchased:
		fmt.Fprintf(out, "  ✅ %-24s %4d pts  purchased\n", p.Name, p.Cost)
	case p.Affordable:
		fmt.Fprintf(out, "  🛒 %-24s %4d pts  ready to buy\n", p.Name, p.Cost)
	default:
		fmt.Fprintf(out, "  ⏳ %-24s %4d pts  %5.1f%%, %d pts needed\n", p.Name, p.Cost, p.Percent, p.Needed)
	}
}

// ─── log ────────────────────────────────────────────────────────────────────

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect and correct a user's activity log",
}

var logListCmd = &cobra.Command{
	Use:   "list USER",
	Short: "List a user's activity log, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			entries, err := bank.Log(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No activities logged for %s.\n", args[0])
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %-24s %+5d  %s\n",
					e.Timestamp.Local().Format(time.DateTime), e.ID, e.Activity, e.Points, e.Kind)
			}
			return nil
		})
	},
}

var logRemoveCmd = &cobra.Command{
	Use:   "rm USER ENTRY_ID",
	Short: "Delete a log entry and take back its points",
	Long: `Delete a log entry and subtract its points from the user's balance and
lifetime total. Deleting a completion that triggered a level-up also
deletes its bonus entry. Fails if the points were already spent.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			r, err := bank.DeleteLogEntry(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s (-%d pts). Balance: %d pts\n",
				len(r.Removed), plural(len(r.Removed), "y", "ies"), r.Points, r.Balance)
			return nil
		})
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// ─── pool ───────────────────────────────────────────────────────────────────

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Show or reset the shared dream pool",
}

var poolShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the dream pool balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Dream pool: %d pts\n", bank.Pool())
			return nil
		})
	},
}

var poolResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set the dream pool to zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.ResetDreamPool(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dream pool reset to 0.")
			return nil
		})
	},
}
