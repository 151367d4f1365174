// Package placement assigns ranks to issues when they are created in or moved
// between columns, rebalancing a column when its rank space runs out.
package placement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/models"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// PlaceRequest describes where an issue should end up.
// TargetIndex is zero-based and counts only the other issues already in the
// destination column.
type PlaceRequest struct {
	IssueID     *types.IssueID // nil when placing a new issue
	ColumnID    types.ColumnID
	TargetIndex int
}

// Coordinator computes and persists placements through a caller-owned
// transaction. It never opens or commits a transaction itself.
type Coordinator struct {
	engine *rank.Engine
	logger *slog.Logger
}

// NewCoordinator creates a coordinator for the given rank engine
func NewCoordinator(engine *rank.Engine, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{engine: engine, logger: logger}
}

// Place validates the request, allocates a rank between the target
// neighbors and writes it through tx. When the gap is exhausted the
// destination column is rebalanced first and allocation is retried once.
//
// For a new issue nothing is written for the issue itself; the caller inserts
// it with the returned column and rank inside the same transaction.
func (c *Coordinator) Place(ctx context.Context, tx database.OrderingTx, req PlaceRequest) (*models.Placement, error) {
	// Validate
	if req.TargetIndex < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, req.TargetIndex)
	}
	if req.ColumnID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrColumnNotFound, req.ColumnID)
	}

	var moving *models.RankedIssue
	sourceColumn := req.ColumnID
	if req.IssueID != nil {
		if *req.IssueID <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrIssueNotFound, *req.IssueID)
		}
		issue, columnID, err := tx.GetIssueForUpdate(ctx, *req.IssueID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrIssueNotFound, *req.IssueID)
		}
		if err != nil {
			return nil, err
		}
		moving = issue
		sourceColumn = columnID
	}

	if err := c.lockColumns(ctx, tx, req.ColumnID, sourceColumn); err != nil {
		return nil, err
	}

	ranked, err := tx.ListColumnRanks(ctx, req.ColumnID)
	if err != nil {
		return nil, err
	}

	others := ranked
	currentIndex := -1
	if moving != nil && sourceColumn == req.ColumnID {
		others = make([]models.RankedIssue, 0, len(ranked))
		for i, issue := range ranked {
			if issue.ID == moving.ID {
				currentIndex = i
				continue
			}
			others = append(others, issue)
		}
	}

	if req.TargetIndex > len(others) {
		return nil, fmt.Errorf("%w: %d (column %d holds %d other issues)",
			ErrInvalidPosition, req.TargetIndex, req.ColumnID, len(others))
	}

	if currentIndex == req.TargetIndex {
		return &models.Placement{
			IssueID:  moving.ID,
			ColumnID: req.ColumnID,
			Rank:     moving.Rank,
		}, nil
	}

	// Allocate
	var updates []models.RankUpdate
	newRank, err := c.allocate(others, req.TargetIndex)
	if errors.Is(err, rank.ErrExhausted) {
		// Rebalance
		updates, err = c.rebalance(req.ColumnID, others)
		if err != nil {
			return nil, err
		}
		newRank, err = c.allocate(others, req.TargetIndex)
		if errors.Is(err, rank.ErrExhausted) {
			c.logger.Error("rank space exhausted after rebalance",
				"column_id", req.ColumnID,
				"target_index", req.TargetIndex,
				"issues", len(others),
				"error", err)
			return nil, fmt.Errorf("%w: column %d: %v", ErrRebalanceFailed, req.ColumnID, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate rank in column %d: %w", req.ColumnID, err)
	}

	// Persist
	placement := &models.Placement{
		ColumnID:   req.ColumnID,
		Rank:       newRank,
		Changed:    true,
		Rebalanced: updates != nil,
		Rewritten:  len(updates),
	}
	if moving != nil {
		placement.IssueID = moving.ID
		updates = append(updates, models.RankUpdate{
			IssueID:  moving.ID,
			ColumnID: req.ColumnID,
			Rank:     newRank,
		})
	}
	if len(updates) > 0 {
		if err := tx.WriteRanks(ctx, updates); err != nil {
			return nil, err
		}
	}
	return placement, nil
}

// Rebalance rewrites every rank in a column through tx and returns how many
// issues changed rank
func (c *Coordinator) Rebalance(ctx context.Context, tx database.OrderingTx, columnID types.ColumnID) (int, error) {
	if columnID <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrColumnNotFound, columnID)
	}
	if err := c.lockColumns(ctx, tx, columnID, columnID); err != nil {
		return 0, err
	}

	ranked, err := tx.ListColumnRanks(ctx, columnID)
	if err != nil {
		return 0, err
	}

	updates, err := c.rebalance(columnID, ranked)
	if err != nil {
		return 0, err
	}
	if len(updates) > 0 {
		if err := tx.WriteRanks(ctx, updates); err != nil {
			return 0, err
		}
	}
	return len(updates), nil
}

// lockColumns locks the destination and source columns in ascending id
// order so two cross-column moves cannot wait on each other
func (c *Coordinator) lockColumns(ctx context.Context, tx database.OrderingTx, destination, source types.ColumnID) error {
	ids := []types.ColumnID{destination}
	if source != destination {
		ids = append(ids, source)
		slices.Sort(ids)
	}

	for _, id := range ids {
		err := tx.LockColumn(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrColumnNotFound, id)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// allocate asks the allocator for a rank at index among ranked
func (c *Coordinator) allocate(ranked []models.RankedIssue, index int) (rank.Rank, error) {
	var prev, next *rank.Rank
	if index > 0 {
		prev = &ranked[index-1].Rank
	}
	if index < len(ranked) {
		next = &ranked[index].Rank
	}
	return c.engine.Allocator.Between(prev, next)
}

// rebalance respaces ranked in place and returns the updates for every issue
// whose rank changed
func (c *Coordinator) rebalance(columnID types.ColumnID, ranked []models.RankedIssue) ([]models.RankUpdate, error) {
	current := make([]rank.Rank, len(ranked))
	for i, issue := range ranked {
		current[i] = issue.Rank
	}

	respaced, err := c.engine.Rebalancer.Rebalance(current)
	if err != nil {
		c.logger.Error("failed to rebalance column",
			"column_id", columnID,
			"issues", len(ranked),
			"error", err)
		return nil, fmt.Errorf("%w: column %d: %v", ErrRebalanceFailed, columnID, err)
	}

	updates := make([]models.RankUpdate, 0, len(ranked))
	for i := range ranked {
		if ranked[i].Rank == respaced[i] {
			continue
		}
		ranked[i].Rank = respaced[i]
		updates = append(updates, models.RankUpdate{
			IssueID:  ranked[i].ID,
			ColumnID: columnID,
			Rank:     respaced[i],
		})
	}

	c.logger.Info("rebalanced column",
		"column_id", columnID,
		"issues", len(ranked),
		"rewritten", len(updates))
	return updates, nil
}
