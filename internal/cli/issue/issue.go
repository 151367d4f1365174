package issue

import (
	"github.com/spf13/cobra"
)

// IssueCmd returns the issue parent command
func IssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Create, place and list issues",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(PlaceCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}
