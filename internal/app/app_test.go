package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/events"
	"github.com/thenoetrevino/kanrank/internal/rank"
	columnservice "github.com/thenoetrevino/kanrank/internal/services/column"
	"github.com/thenoetrevino/kanrank/internal/services/placement"
)

func setupTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.InitDB(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		URL:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNew(t *testing.T) {
	store := setupTestStore(t)

	app := New(store, rank.DefaultEngine())

	require.NotNil(t, app)
	assert.NotNil(t, app.PlacementService, "Expected PlacementService to be initialized")
	assert.NotNil(t, app.ColumnService, "Expected ColumnService to be initialized")
	assert.NotNil(t, app.Metrics)
	assert.Same(t, store, app.Store())
}

func TestClose(t *testing.T) {
	store := setupTestStore(t)
	app := New(store, rank.DefaultEngine())

	assert.NoError(t, app.Close())
}

func TestServicesShareMetrics(t *testing.T) {
	store := setupTestStore(t)
	app := New(store, rank.DefaultEngine(), WithRetry(1, time.Millisecond))
	ctx := context.Background()

	column, err := app.ColumnService.CreateColumn(ctx, columnservice.CreateColumnRequest{Name: "Todo"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := app.PlacementService.CreateIssue(ctx, placement.CreateIssueRequest{
			ColumnID:    column.ID,
			TargetIndex: 0,
			Title:       "issue",
		})
		require.NoError(t, err)
	}

	assert.EqualValues(t, 3, app.Metrics.GetSnapshot().Placements)
}

func TestWithEventPublisher(t *testing.T) {
	store := setupTestStore(t)
	s := miniredis.RunT(t)

	publisher, err := events.NewRedisPublisher(context.Background(), "redis://"+s.Addr(), "test")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	received, err := publisher.Listen(ctx)
	require.NoError(t, err)

	app := New(store, rank.DefaultEngine(), WithEventPublisher(publisher))

	column, err := app.ColumnService.CreateColumn(ctx, columnservice.CreateColumnRequest{Name: "Todo"})
	require.NoError(t, err)
	issue, err := app.PlacementService.CreateIssue(ctx, placement.CreateIssueRequest{ColumnID: column.ID, Title: "announce me"})
	require.NoError(t, err)

	event := <-received
	assert.Equal(t, events.EventIssuePlaced, event.Type)
	assert.Equal(t, issue.ID, event.IssueID)
	assert.Equal(t, column.ID, event.ColumnID)

	cancel()
	assert.NoError(t, app.Close())
}
