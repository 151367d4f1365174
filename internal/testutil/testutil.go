// Package testutil holds helpers shared by tests that need a real store
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// CaptureOutput captures stdout during function execution
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	// Save original stdout
	oldStdout := os.Stdout

	// Create pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	// Replace stdout with pipe writer
	os.Stdout = w

	// Channel to collect output
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	// Execute function
	fn()

	// Close writer and restore stdout
	_ = w.Close()
	os.Stdout = oldStdout

	// Get captured output
	return <-outC
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// SetupTestStore creates an in-memory SQLite store with the full schema.
// The store is closed when the test ends.
func SetupTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.InitDB(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		URL:    ":memory:",
	})
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// CreateTestColumn creates a column and returns its ID
func CreateTestColumn(t *testing.T, store *database.Store, name string) types.ColumnID {
	t.Helper()
	column, err := store.CreateColumn(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create column %q: %v", name, err)
	}
	return column.ID
}

// CreateTestIssue inserts an issue with an explicit rank and returns its ID
func CreateTestIssue(t *testing.T, store *database.Store, columnID types.ColumnID, r rank.Rank, title string) types.IssueID {
	t.Helper()
	ctx := context.Background()

	var id types.IssueID
	err := store.RunInTx(ctx, func(tx database.OrderingTx) error {
		issue, err := tx.InsertIssue(ctx, &models.Issue{ColumnID: columnID, Rank: r, Title: title})
		if err != nil {
			return err
		}
		id = issue.ID
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to create issue %q: %v", title, err)
	}
	return id
}

// ColumnOrder returns the IDs of a column's issues sorted by rank
func ColumnOrder(t *testing.T, store *database.Store, columnID types.ColumnID) []types.IssueID {
	t.Helper()
	issues, err := store.GetIssuesByColumn(context.Background(), columnID)
	if err != nil {
		t.Fatalf("Failed to list column %d: %v", columnID, err)
	}
	ids := make([]types.IssueID, len(issues))
	for i, issue := range issues {
		ids[i] = issue.ID
	}
	return ids
}
