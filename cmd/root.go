package cmd

import (
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli/column"
	"github.com/thenoetrevino/kanrank/internal/cli/issue"
)

var rootCmd = &cobra.Command{
	Use:   "kanrank",
	Short: "Kanrank - ordered Kanban columns from the command line",
	Long: `Kanrank keeps the issues of each Kanban column in a user-defined order.

Every issue carries a fixed-width rank; moving an issue rewrites only its own
rank unless its neighbors have run out of room, in which case the column is
rebalanced in the same transaction.`,
	// Commands report their own errors through the output formatter
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(issue.IssueCmd())
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
