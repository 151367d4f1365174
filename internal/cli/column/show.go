package column

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/cli/styles"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// ShowCmd returns the column show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a column and its issues in order",
		Long: `Show a column with its issues sorted by rank.

Examples:
  # Human-readable card
  kanrank column show --id=1

  # JSON output for agents
  kanrank column show --id=1 --json
`,
		RunE: runShow,
	}

	// Required flags
	cmd.Flags().Int("id", 0, "Column ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (issue IDs in order)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	columnID, _ := cmd.Flags().GetInt("id")
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

	column, err := cliInstance.App.ColumnService.GetColumnByID(ctx, types.ColumnIDFromInt(columnID))
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	issues, err := cliInstance.App.PlacementService.ColumnOrder(ctx, column.ID)
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
			"column":  column,
			"issues":  issues,
		})
	}

	// Human-readable output
	var b strings.Builder
	b.WriteString(styles.RenderColumnHeader(column))
	b.WriteString("\n")
	if len(issues) == 0 {
		b.WriteString(styles.SubtitleStyle.Render("No issues"))
	}
	for i, issue := range issues {
		b.WriteString("\n")
		b.WriteString(styles.RenderIssueLine(i, issue))
	}
	fmt.Println(styles.RenderCard(b.String()))
	return nil
}
