package issue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/cli/styles"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// ListCmd returns the issue list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the issues of a column in order",
		Long: `List a column's issues sorted by rank.

Examples:
  kanrank issue list --column=1
  kanrank issue list --column=1 --json
  kanrank issue list --column=1 --quiet
`,
		RunE: runList,
	}

	// Required flags
	cmd.Flags().Int("column", 0, "Column ID (required)")
	if err := cmd.MarkFlagRequired("column"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	columnID, _ := cmd.Flags().GetInt("column")
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

	issues, err := cliInstance.App.PlacementService.ColumnOrder(ctx, types.ColumnIDFromInt(columnID))
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	// Output based on mode
	if quietMode {
		for _, issue := range issues {
			fmt.Printf("%d\n", issue.ID)
		}
		return nil
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"issues":  issues,
		})
	}

	// Human-readable output
	if len(issues) == 0 {
		fmt.Printf("No issues in column %d\n", columnID)
		return nil
	}
	for i, issue := range issues {
		fmt.Println(styles.RenderIssueLine(i, issue))
	}
	return nil
}
