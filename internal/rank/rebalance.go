package rank

import (
	"errors"
	"fmt"
)

// DefaultChunk is the spacing between neighbors after a rebalance
const DefaultChunk = Base

// Rebalancer spreads a column's ranks evenly over the rank space
type Rebalancer struct {
	codec Codec
	chunk uint64
}

// NewRebalancer creates a rebalancer that spaces ranks chunk apart
func NewRebalancer(codec Codec, chunk uint64) (Rebalancer, error) {
	if chunk < 2 {
		return Rebalancer{}, errors.New("rebalance chunk must be at least 2")
	}
	return Rebalancer{codec: codec, chunk: chunk}, nil
}

// Rebalance returns a replacement for an ascending rank sequence.
// The result has the same length and order, and element i is (i+1)*chunk,
// so there is a full chunk of room before the head as well as between
// every pair of neighbors. The input is never modified.
func (r Rebalancer) Rebalance(ranks []Rank) ([]Rank, error) {
	for i := 1; i < len(ranks); i++ {
		if ranks[i-1] >= ranks[i] {
			return nil, fmt.Errorf("%w: %s before %s at %d", ErrOutOfOrder, ranks[i-1], ranks[i], i)
		}
	}

	count := uint64(len(ranks))
	if count > 0 && count > r.codec.Max()/r.chunk {
		return nil, fmt.Errorf("%w: %d ranks with chunk %d", ErrRankOverflow, count, r.chunk)
	}

	out := make([]Rank, len(ranks))
	for i := range ranks {
		encoded, err := r.codec.Encode(uint64(i+1) * r.chunk)
		if err != nil {
			return nil, err
		}
		out[i] = encoded
	}
	return out, nil
}
