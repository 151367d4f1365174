// Package rank implements the fixed-width base-36 ranks that order issues
// within a column. A rank is an opaque string: callers outside this package
// only ever compare ranks lexicographically.
package rank

import (
	"fmt"
	"strconv"
	"strings"
)

// Rank is a fixed-width, lexicographically sortable position token
type Rank string

const (
	// Alphabet lists the rank digits in ascending order
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// Base is the number of symbols in Alphabet
	Base = 36

	// DefaultWidth is the number of digits in every rank
	DefaultWidth = 10

	// MaxWidth is the widest rank whose integer value still fits in a uint64
	MaxWidth = 12

	padSymbol     = '0'
	initialSymbol = 'a'
)

// String returns the rank as a plain string
func (r Rank) String() string {
	return string(r)
}

// Less reports whether r sorts before other
func (r Rank) Less(other Rank) bool {
	return r < other
}

// Codec converts between ranks and their integer values.
// Ranks are written most-significant digit first and padded with '0' to the
// codec width, so string order and integer order agree.
type Codec struct {
	width int
	max   uint64
}

// NewCodec creates a codec for ranks of the given width
func NewCodec(width int) (Codec, error) {
	if width < 1 || width > MaxWidth {
		return Codec{}, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidWidth, width, MaxWidth)
	}

	max := uint64(1)
	for i := 0; i < width; i++ {
		max *= uint64(Base)
	}

	return Codec{width: width, max: max - 1}, nil
}

// DefaultCodec returns the codec for DefaultWidth ranks
func DefaultCodec() Codec {
	codec, _ := NewCodec(DefaultWidth)
	return codec
}

// Width returns the number of digits in every rank
func (c Codec) Width() int {
	return c.width
}

// Max returns the largest integer a rank can hold
func (c Codec) Max() uint64 {
	return c.max
}

// Encode formats n as a fixed-width rank
func (c Codec) Encode(n uint64) (Rank, error) {
	if n > c.max {
		return "", fmt.Errorf("%w: %d exceeds %d", ErrRankOverflow, n, c.max)
	}

	digits := strconv.FormatUint(n, Base)
	return Rank(strings.Repeat(string(padSymbol), c.width-len(digits)) + digits), nil
}

// Decode parses a fixed-width rank back into its integer value
func (c Codec) Decode(r Rank) (uint64, error) {
	if len(r) != c.width {
		return 0, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidRank, r, len(r), c.width)
	}

	// strconv accepts upper case digits too, which would break ordering
	for i := 0; i < len(r); i++ {
		if strings.IndexByte(Alphabet, r[i]) < 0 {
			return 0, fmt.Errorf("%w: %q contains %q", ErrInvalidRank, r, r[i])
		}
	}

	n, err := strconv.ParseUint(string(r), Base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidRank, r, err)
	}
	return n, nil
}

// Initial returns the rank given to the first issue of an empty column:
// the symbol 'a' right-padded with '0' to the codec width.
func (c Codec) Initial() Rank {
	return Rank(string(initialSymbol) + strings.Repeat(string(padSymbol), c.width-1))
}

// Valid reports whether r is a well-formed rank for this codec
func (c Codec) Valid(r Rank) bool {
	_, err := c.Decode(r)
	return err == nil
}
