package column

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/cli/styles"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List columns",
		Long: `List all columns with their issue counts.

Examples:
  # Human-readable list
  kanrank column list

  # JSON output for agents
  kanrank column list --json

  # Quiet mode (one ID per line)
  kanrank column list --quiet
`,
		RunE: runList,
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	columns, err := cliInstance.App.ColumnService.GetColumns(ctx)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	// Output based on mode
	if quietMode {
		for _, col := range columns {
			fmt.Printf("%d\n", col.ID)
		}
		return nil
	}

	if jsonOutput {
		columnList := make([]map[string]interface{}, len(columns))
		for i, col := range columns {
			columnList[i] = map[string]interface{}{
				"id":          col.ID,
				"name":        col.Name,
				"issue_count": col.IssueCount,
			}
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"columns": columnList,
		})
	}

	// Human-readable output
	if len(columns) == 0 {
		fmt.Println("No columns found")
		return nil
	}

	fmt.Println("Columns:")
	for _, col := range columns {
		fmt.Printf("  %s\n", styles.RenderColumnHeader(col))
	}
	return nil
}
