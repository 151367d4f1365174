package events

import (
	"time"

	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// EventType indicates what kind of ordering change occurred
type EventType string

const (
	// EventIssuePlaced is sent after an issue was created in or moved to a column position
	EventIssuePlaced EventType = "issue_placed"

	// EventColumnRebalanced is sent after every rank of a column was rewritten
	EventColumnRebalanced EventType = "column_rebalanced"
)

// Event represents a committed change to a column's order
type Event struct {
	Type        EventType      `json:"type"`
	OperationID string         `json:"operation_id"`
	ColumnID    types.ColumnID `json:"column_id"`
	IssueID     types.IssueID  `json:"issue_id,omitempty"`
	Rank        rank.Rank      `json:"rank,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	SequenceID  int64          `json:"sequence_id"` // Monotonically increasing per publisher
}
