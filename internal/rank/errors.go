package rank

import "errors"

// Rank errors
var (
	// ErrInvalidWidth indicates a codec width outside 1..MaxWidth
	ErrInvalidWidth = errors.New("invalid rank width")

	// ErrInvalidRank indicates a string that is not a well-formed rank
	ErrInvalidRank = errors.New("invalid rank")

	// ErrRankOverflow indicates an integer too large for the rank width
	ErrRankOverflow = errors.New("rank overflow")

	// ErrExhausted indicates there is no free rank between two neighbors.
	// Callers must rebalance the column and allocate again.
	ErrExhausted = errors.New("rank space exhausted")

	// ErrOutOfOrder indicates neighbors or a rank sequence that are not strictly increasing
	ErrOutOfOrder = errors.New("ranks out of order")
)
