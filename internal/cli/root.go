// Package cli implements the budgetlink command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the budgetlink command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "budgetlink",
		Short: "Shared household budgets with debt settlement",
		Long: `BudgetLink tracks a shared household budget: who paid for what, how
spending compares to the plan, and the fewest transfers that settle up.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSettleCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
