package models

import (
	"time"

	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// Issue represents a single card on the board.
// Only ColumnID and Rank take part in ordering; the rest is payload.
type Issue struct {
	ID          types.IssueID  `json:"id"`
	ColumnID    types.ColumnID `json:"column_id"`
	Rank        rank.Rank      `json:"rank"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// GetID returns the issue ID for quiet CLI output
func (i *Issue) GetID() int {
	return i.ID.ToInt()
}

// RankedIssue is the ordering view of an issue: just enough to sort a column
type RankedIssue struct {
	ID   types.IssueID
	Rank rank.Rank
}

// RankUpdate is a pending write of an issue's column and rank
type RankUpdate struct {
	IssueID  types.IssueID
	ColumnID types.ColumnID
	Rank     rank.Rank
}

// Placement is the ordering-relevant result of placing an issue
type Placement struct {
	IssueID  types.IssueID  `json:"issue_id,omitempty"`
	ColumnID types.ColumnID `json:"column_id"`
	Rank     rank.Rank      `json:"rank"`

	// Changed is false when the request was a no-op and nothing was written
	Changed bool `json:"changed"`

	// Rebalanced reports whether the destination column was rebalanced
	Rebalanced bool `json:"rebalanced"`

	// Rewritten counts the other issues whose rank the rebalance changed
	Rewritten int `json:"rewritten,omitempty"`
}

// GetID returns the placed issue ID for quiet CLI output
func (p *Placement) GetID() int {
	return p.IssueID.ToInt()
}
