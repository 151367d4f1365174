package issue

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/services/placement"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// PlaceCmd returns the issue place subcommand
func PlaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Move an issue to a position in a column",
		Long: `Move an issue to a zero-based position in a column.

--index counts the other issues in the destination column, so moving an
issue to the bottom of its own column uses the number of issues minus one.
Placing an issue where it already is changes nothing.

Examples:
  # Move issue 7 to the top of column 2
  kanrank issue place --id=7 --column=2 --index=0

  # JSON output for agents
  kanrank issue place --id=7 --column=2 --index=3 --json
`,
		RunE: runPlace,
	}

	// Required flags
	cmd.Flags().Int("id", 0, "Issue ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	cmd.Flags().Int("column", 0, "Destination column ID (required)")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	cmd.Flags().Int("index", 0, "Target position (required)")
	if err := cmd.MarkFlagRequired("index"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runPlace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	issueID, _ := cmd.Flags().GetInt("id")
	columnID, _ := cmd.Flags().GetInt("column")
	index, _ := cmd.Flags().GetInt("index")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	// Initialize CLI
	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.InitError(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	id := types.IssueIDFromInt(issueID)
	result, err := cliInstance.App.PlacementService.PlaceIssue(ctx, placement.PlaceIssueRequest{
		IssueID:     &id,
		ColumnID:    types.ColumnIDFromInt(columnID),
		TargetIndex: index,
	})
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	return formatter.Success(result)
}
