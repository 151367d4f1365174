package issue

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/services/placement"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// CreateCmd returns the issue create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new issue in a column",
		Long: `Create a new issue at a position in a column.

--index is zero-based and counts the issues already in the column.
Without --index the issue is appended at the bottom.

Examples:
  # Append to the bottom of column 1
  kanrank issue create --column=1 --title="Fix login redirect"

  # Insert at the top
  kanrank issue create --column=1 --title="Hotfix" --index=0

  # Quiet mode for bash capture
  ISSUE_ID=$(kanrank issue create --column=1 --title="Write docs" --quiet)
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().Int("column", 0, "Column ID (required)")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	cmd.Flags().String("title", "", "Issue title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Optional flags
	cmd.Flags().String("description", "", "Issue description")
	cmd.Flags().Int("index", -1, "Target position (-1 = append to the bottom)")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	columnID, _ := cmd.Flags().GetInt("column")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
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

	svc := cliInstance.App.PlacementService
	column := types.ColumnIDFromInt(columnID)

	if !cmd.Flags().Changed("index") {
		issues, err := svc.ColumnOrder(ctx, column)
		if err != nil {
			return cli.HandleError(formatter, err)
		}
		index = len(issues)
	}

	issue, err := svc.CreateIssue(ctx, placement.CreateIssueRequest{
		ColumnID:    column,
		TargetIndex: index,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	return formatter.Success(issue)
}
