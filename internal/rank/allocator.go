package rank

import (
	"errors"
	"fmt"
)

// DefaultStep is the gap left after the last issue on a tail append
const DefaultStep = 1000

// Allocator computes a new rank between two optional neighbors
type Allocator struct {
	codec Codec
	step  uint64
}

// NewAllocator creates an allocator that appends at the tail in steps of step
func NewAllocator(codec Codec, step uint64) (Allocator, error) {
	if step == 0 {
		return Allocator{}, errors.New("rank step must be positive")
	}
	return Allocator{codec: codec, step: step}, nil
}

// Between returns a rank strictly between prev and next.
// A nil prev means insert at the head, a nil next means append at the tail,
// and both nil means the column is empty.
// Returns ErrExhausted when no integer is left between the neighbors.
func (a Allocator) Between(prev, next *Rank) (Rank, error) {
	switch {
	case prev == nil && next == nil:
		return a.codec.Initial(), nil

	case prev == nil:
		n, err := a.codec.Decode(*next)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", fmt.Errorf("%w: nothing below %s", ErrExhausted, *next)
		}
		return a.codec.Encode(n / 2)

	case next == nil:
		p, err := a.codec.Decode(*prev)
		if err != nil {
			return "", err
		}
		if p > a.codec.Max()-a.step {
			return "", fmt.Errorf("%w: no room after %s", ErrExhausted, *prev)
		}
		return a.codec.Encode(p + a.step)

	default:
		p, err := a.codec.Decode(*prev)
		if err != nil {
			return "", err
		}
		n, err := a.codec.Decode(*next)
		if err != nil {
			return "", err
		}
		if p >= n {
			return "", fmt.Errorf("%w: %s >= %s", ErrOutOfOrder, *prev, *next)
		}
		if n-p <= 1 {
			return "", fmt.Errorf("%w: between %s and %s", ErrExhausted, *prev, *next)
		}
		// p + (n-p)/2 avoids overflowing p+n near the top of the range
		return a.codec.Encode(p + (n-p)/2)
	}
}
