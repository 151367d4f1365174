package column

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/kanrank/internal/database"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupTestService creates a column service over an in-memory store
func setupTestService(t *testing.T) Service {
	t.Helper()
	store, err := database.InitDB(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		URL:    ":memory:",
	})
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store)
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateColumn(t *testing.T) {
	svc := setupTestService(t)

	column, err := svc.CreateColumn(context.Background(), CreateColumnRequest{Name: "  In Progress "})
	if err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}

	if column.ID <= 0 {
		t.Errorf("Expected positive ID, got %d", column.ID)
	}
	if column.Name != "In Progress" {
		t.Errorf("Expected trimmed name, got %q", column.Name)
	}
	if column.IssueCount != 0 {
		t.Errorf("Expected empty column, got %d issues", column.IssueCount)
	}
}

func TestCreateColumn_Validation(t *testing.T) {
	svc := setupTestService(t)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrEmptyName},
		{"whitespace", "   ", ErrEmptyName},
		{"too long", strings.Repeat("c", 51), ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateColumn(context.Background(), CreateColumnRequest{Name: tt.input})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetColumnByID(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateColumn(ctx, CreateColumnRequest{Name: "Todo"})
	if err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}

	column, err := svc.GetColumnByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetColumnByID failed: %v", err)
	}
	if column.Name != "Todo" {
		t.Errorf("Expected Todo, got %q", column.Name)
	}

	if _, err := svc.GetColumnByID(ctx, 999); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
	if _, err := svc.GetColumnByID(ctx, 0); !errors.Is(err, ErrInvalidColumnID) {
		t.Errorf("Expected ErrInvalidColumnID, got %v", err)
	}
}

func TestGetColumns(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Todo", "Doing", "Done"} {
		if _, err := svc.CreateColumn(ctx, CreateColumnRequest{Name: name}); err != nil {
			t.Fatalf("CreateColumn(%s) failed: %v", name, err)
		}
	}

	columns, err := svc.GetColumns(ctx)
	if err != nil {
		t.Fatalf("GetColumns failed: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(columns))
	}
	if columns[0].Name != "Todo" || columns[2].Name != "Done" {
		t.Errorf("Expected columns in creation order, got %s..%s", columns[0].Name, columns[2].Name)
	}
}
