package column

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// RebalanceCmd returns the column rebalance subcommand
func RebalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Respace every rank in a column",
		Long: `Rewrite every rank in a column so neighbors are evenly spaced.
The order of the issues does not change. Placements rebalance automatically
when a gap runs out, so this is only needed for maintenance.

Examples:
  kanrank column rebalance --id=1
  kanrank column rebalance --id=1 --json
`,
		RunE: runRebalance,
	}

	// Required flags
	cmd.Flags().Int("id", 0, "Column ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output")

	return cmd
}

func runRebalance(cmd *cobra.Command, args []string) error {
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

	rewritten, err := cliInstance.App.PlacementService.RebalanceColumn(ctx, types.ColumnIDFromInt(columnID))
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	// Output based on mode
	if quietMode {
		return nil
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success":   true,
			"column_id": columnID,
			"rewritten": rewritten,
		})
	}

	fmt.Printf("✓ Column %d rebalanced (%d ranks rewritten)\n", columnID, rewritten)
	return nil
}
