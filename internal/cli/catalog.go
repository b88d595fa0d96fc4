package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/dreambank/internal/app/reward"
)

// ─── Catalog CLI ────────────────────────────────────────────────────────────
// Catalog entries are referenced by ID or by exact name.

func init() {
	rootCmd.AddCommand(activityCmd, treatCmd, dreamCmd)

	activityCmd.AddCommand(activityAddCmd, activityEditCmd, activityRemoveCmd, activityListCmd, activityCompleteCmd)
	treatCmd.AddCommand(treatAddCmd, treatEditCmd, treatRemoveCmd, treatListCmd, treatBuyCmd)
	dreamCmd.AddCommand(dreamAddCmd, dreamEditCmd, dreamRemoveCmd, dreamListCmd, dreamBuyCmd)
}

// ─── activity ───────────────────────────────────────────────────────────────

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage activities and log completions",
}

var activityAddCmd = &cobra.Command{
	Use:   "add NAME POINTS",
	Short: "Add an activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			a, err := bank.AddActivity(ctx, args[0], points)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity %q (%d pts) [%s]\n", a.Name, a.Points, a.ID)
			return nil
		})
	},
}

var activityEditCmd = &cobra.Command{
	Use:   "edit REF NAME POINTS",
	Short: "Rename or re-point an activity; logged completions keep their points",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			a, err := bank.EditActivity(ctx, args[0], args[1], points)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %q (%d pts)\n", a.Name, a.Points)
			return nil
		})
	},
}

var activityRemoveCmd = &cobra.Command{
	Use:   "rm REF",
	Short: "Remove an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.RemoveActivity(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed activity %q.\n", args[0])
			return nil
		})
	},
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			out := cmd.OutOrStdout()
			activities := bank.Activities()
			if len(activities) == 0 {
				fmt.Fprintln(out, "No activities.")
				return nil
			}
			fmt.Fprintf(out, "Activities (%d):\n", len(activities))
			for _, a := range activities {
				fmt.Fprintf(out, "  • %-24s %4d pts  [%s]\n", a.Name, a.Points, a.ID)
			}
			return nil
		})
	},
}

var activityCompleteCmd = &cobra.Command{
	Use:     "complete USER REF",
	Aliases: []string{"done"},
	Short:   "Credit an activity's points to a user",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			c, err := bank.CompleteActivity(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s completed %q: +%d pts\n", args[0], c.Entry.Activity, c.Points)
			if c.LeveledUp {
				fmt.Fprintf(out, "🎉 Level %d reached! Bonus +%d pts\n", c.Level.Level, c.Bonus)
			}
			fmt.Fprintf(out, "Balance: %d pts\n", c.Balance)
			return nil
		})
	},
}

// ─── treat ──────────────────────────────────────────────────────────────────

var treatCmd = &cobra.Command{
	Use:   "treat",
	Short: "Manage treats bought with a user's own points",
}

var treatAddCmd = &cobra.Command{
	Use:   "add NAME COST",
	Short: "Add a treat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			t, err := bank.AddTreat(ctx, args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added treat %q (%d pts) [%s]\n", t.Name, t.Cost, t.ID)
			return nil
		})
	},
}

var treatEditCmd = &cobra.Command{
	Use:   "edit REF NAME COST",
	Short: "Rename or re-price a treat; purchases are kept",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			t, err := bank.EditTreat(ctx, args[0], args[1], cost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated treat %q (%d pts)\n", t.Name, t.Cost)
			return nil
		})
	},
}

var treatRemoveCmd = &cobra.Command{
	Use:   "rm REF",
	Short: "Remove a treat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.RemoveTreat(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed treat %q.\n", args[0])
			return nil
		})
	},
}

var treatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List treats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			out := cmd.OutOrStdout()
			treats := bank.Treats()
			if len(treats) == 0 {
				fmt.Fprintln(out, "No treats.")
				return nil
			}
			fmt.Fprintf(out, "Treats (%d):\n", len(treats))
			for _, t := range treats {
				fmt.Fprintf(out, "  • %-24s %4d pts  [%s]\n", t.Name, t.Cost, t.ID)
			}
			return nil
		})
	},
}

var treatBuyCmd = &cobra.Command{
	Use:   "buy USER REF",
	Short: "Spend a user's points on a treat; the cost goes to the dream pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			p, err := bank.PurchaseTreat(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bought %q for %d pts. Balance: %d pts, dream pool: %d pts\n",
				p.User, p.Reward, p.Cost, p.Balance, p.Pool)
			return nil
		})
	},
}

// ─── dream ──────────────────────────────────────────────────────────────────

var dreamCmd = &cobra.Command{
	Use:   "dream",
	Short: "Manage shared dreams bought from the dream pool",
}

var dreamAddCmd = &cobra.Command{
	Use:   "add NAME COST",
	Short: "Add a dream",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			d, err := bank.AddDream(ctx, args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added dream %q (%d pts) [%s]\n", d.Name, d.Cost, d.ID)
			return nil
		})
	},
}

var dreamEditCmd = &cobra.Command{
	Use:   "edit REF NAME COST",
	Short: "Rename or re-price a dream; purchasers are kept",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			d, err := bank.EditDream(ctx, args[0], args[1], cost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated dream %q (%d pts)\n", d.Name, d.Cost)
			return nil
		})
	},
}

var dreamRemoveCmd = &cobra.Command{
	Use:   "rm REF",
	Short: "Remove a dream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			if err := bank.RemoveDream(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dream %q.\n", args[0])
			return nil
		})
	},
}

var dreamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dreams and who bought them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			out := cmd.OutOrStdout()
			dreams := bank.Dreams()
			if len(dreams) == 0 {
				fmt.Fprintln(out, "No dreams.")
				return nil
			}
			fmt.Fprintf(out, "Dreams (%d), pool %d pts:\n", len(dreams), bank.Pool())
			for _, d := range dreams {
				fmt.Fprintf(out, "  • %-24s %4d pts  [%s]", d.Name, d.Cost, d.ID)
				if len(d.Purchasers) > 0 {
					fmt.Fprintf(out, "  bought by %v", d.Purchasers)
				}
				fmt.Fprintln(out)
			}
			return nil
		})
	},
}

var dreamBuyCmd = &cobra.Command{
	Use:   "buy USER REF",
	Short: "Spend the shared dream pool on a dream for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBank(cmd, func(ctx context.Context, bank *reward.Engine) error {
			p, err := bank.PurchaseDream(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s bought %q for %d pts. Dream pool: %d pts\n",
				p.User, p.Reward, p.Cost, p.Pool)
			return nil
		})
	},
}
