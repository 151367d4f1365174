package placement

import "errors"

// Placement errors
var (
	// ErrInvalidPosition indicates a target index outside [0, N]
	ErrInvalidPosition = errors.New("invalid position: target index out of range")

	// ErrColumnNotFound indicates the destination column does not exist
	ErrColumnNotFound = errors.New("column not found")

	// ErrIssueNotFound indicates the issue being moved does not exist
	ErrIssueNotFound = errors.New("issue not found")

	// ErrRebalanceFailed indicates the rank space was still exhausted after a
	// rebalance. It is never retried.
	ErrRebalanceFailed = errors.New("rebalance failed: no rank available after rebalancing column")

	// ErrConcurrencyConflict indicates a concurrent write to the same column
	// kept winning until the retry budget ran out
	ErrConcurrencyConflict = errors.New("concurrent change to column order, try again")
)

// Issue validation errors
var (
	ErrEmptyTitle   = errors.New("issue title cannot be empty")
	ErrTitleTooLong = errors.New("issue title cannot exceed 255 characters")
)
