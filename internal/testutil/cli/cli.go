package cli

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanrank/internal/app"
	clipkg "github.com/thenoetrevino/kanrank/internal/cli"
	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/testutil"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// SetupCLITest creates an in-memory store and returns both the store and App instance.
// This function is only for CLI tests and is isolated in a separate package
// to avoid import cycles when the cli package's own tests import testutil.
func SetupCLITest(t *testing.T) (*database.Store, *app.App) {
	t.Helper()
	store := testutil.SetupTestStore(t)

	// EventPublisher is nil - event publishing is tested elsewhere
	appInstance := app.New(store, rank.DefaultEngine(), app.WithRetry(3, time.Millisecond))
	return store, appInstance
}

// ExecuteCLICommand executes a CLI command with a test app instance.
// The app is passed through the context so commands use the test store.
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	ctx := clipkg.WithApp(context.Background(), testApp)

	cmd.SetArgs(args)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var executeErr error
	output := testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctx)
	})
	return output, executeErr
}

// CreateTestColumn wraps testutil.CreateTestColumn for CLI tests
func CreateTestColumn(t *testing.T, store *database.Store, name string) types.ColumnID {
	t.Helper()
	return testutil.CreateTestColumn(t, store, name)
}

// CreateTestIssue wraps testutil.CreateTestIssue for CLI tests
func CreateTestIssue(t *testing.T, store *database.Store, columnID types.ColumnID, r rank.Rank, title string) types.IssueID {
	t.Helper()
	return testutil.CreateTestIssue(t, store, columnID, r, title)
}

// ColumnOrder wraps testutil.ColumnOrder for CLI tests
func ColumnOrder(t *testing.T, store *database.Store, columnID types.ColumnID) []types.IssueID {
	t.Helper()
	return testutil.ColumnOrder(t, store, columnID)
}
