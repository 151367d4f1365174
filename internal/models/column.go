package models

import (
	"time"

	"github.com/thenoetrevino/kanrank/internal/types"
)

// Column represents an ordered list of issues (e.g., "Todo", "In Progress", "Done")
type Column struct {
	ID         types.ColumnID `json:"id"`
	Name       string         `json:"name"`
	IssueCount int            `json:"issue_count"`
	CreatedAt  time.Time      `json:"created_at"`
}

// GetID returns the column ID for quiet CLI output
func (c *Column) GetID() int {
	return c.ID.ToInt()
}
