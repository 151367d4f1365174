package rank

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(r Rank) *Rank {
	return &r
}

func mustEncode(t *testing.T, c Codec, n uint64) Rank {
	t.Helper()
	r, err := c.Encode(n)
	require.NoError(t, err)
	return r
}

func mustDecode(t *testing.T, c Codec, r Rank) uint64 {
	t.Helper()
	n, err := c.Decode(r)
	require.NoError(t, err)
	return n
}

// ============================================================================
// CODEC
// ============================================================================

func TestCodec_EncodeFormat(t *testing.T) {
	c := DefaultCodec()

	tests := []struct {
		name string
		n    uint64
		want Rank
	}{
		{"zero", 0, "0000000000"},
		{"one", 1, "0000000001"},
		{"last single digit", 35, "000000000z"},
		{"first two digits", 36, "0000000010"},
		{"tail step", 1000, "00000000rs"},
		{"max", c.Max(), "zzzzzzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, DefaultWidth)
		})
	}
}

func TestAlphabet_MatchesBase(t *testing.T) {
	assert.Len(t, Alphabet, Base)
	assert.True(t, sort.StringsAreSorted(strings.Split(Alphabet, "")))
}

func TestCodec_RoundTrip(t *testing.T) {
	c := DefaultCodec()
	values := []uint64{0, 1, 35, 36, 500, 1000, 1 << 32, c.Max() / 2, c.Max() - 1, c.Max()}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		values = append(values, uint64(rng.Int63n(int64(c.Max()))))
	}

	for _, n := range values {
		r := mustEncode(t, c, n)
		assert.Equal(t, n, mustDecode(t, c, r), "round trip of %d via %s", n, r)
	}
}

func TestCodec_StringOrderMatchesIntegerOrder(t *testing.T) {
	c := DefaultCodec()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		a := uint64(rng.Int63n(int64(c.Max())))
		b := uint64(rng.Int63n(int64(c.Max())))
		ra, rb := mustEncode(t, c, a), mustEncode(t, c, b)
		assert.Equal(t, a < b, ra < rb, "%d=%s vs %d=%s", a, ra, b, rb)
	}
}

func TestCodec_Overflow(t *testing.T) {
	c := DefaultCodec()
	_, err := c.Encode(c.Max() + 1)
	assert.ErrorIs(t, err, ErrRankOverflow)
}

func TestCodec_DecodeRejectsMalformed(t *testing.T) {
	c := DefaultCodec()

	for _, r := range []Rank{"", "a", "00000000000", "00000000A0", "0000-00000", "a00000000~"} {
		_, err := c.Decode(r)
		assert.ErrorIs(t, err, ErrInvalidRank, "rank %q", r)
		assert.False(t, c.Valid(r))
	}
}

func TestCodec_Initial(t *testing.T) {
	c := DefaultCodec()
	initial := c.Initial()

	assert.Equal(t, Rank("a000000000"), initial)
	assert.True(t, c.Valid(initial))
	assert.Equal(t, uint64(10)*mustDecode(t, c, "1000000000"), mustDecode(t, c, initial))
}

func TestNewCodec_Width(t *testing.T) {
	_, err := NewCodec(0)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	_, err = NewCodec(MaxWidth + 1)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	c, err := NewCodec(MaxWidth)
	require.NoError(t, err)
	assert.Equal(t, Rank("zzzzzzzzzzzz"), mustEncode(t, c, c.Max()))
}

// ============================================================================
// ALLOCATOR
// ============================================================================

func newAllocator(t *testing.T) (Allocator, Codec) {
	t.Helper()
	c := DefaultCodec()
	a, err := NewAllocator(c, DefaultStep)
	require.NoError(t, err)
	return a, c
}

func TestAllocator_EmptyColumn(t *testing.T) {
	a, c := newAllocator(t)

	got, err := a.Between(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, c.Initial(), got)
}

func TestAllocator_HeadInsertHalves(t *testing.T) {
	a, c := newAllocator(t)
	next := mustEncode(t, c, 1000)

	got, err := a.Between(nil, &next)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), mustDecode(t, c, got))
	assert.Less(t, string(got), string(next))
}

func TestAllocator_HeadInsertBelowZeroIsExhausted(t *testing.T) {
	a, c := newAllocator(t)

	_, err := a.Between(nil, ptr(mustEncode(t, c, 0)))
	assert.ErrorIs(t, err, ErrExhausted)

	got, err := a.Between(nil, ptr(mustEncode(t, c, 1)))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), mustDecode(t, c, got))
}

func TestAllocator_TailAppendSteps(t *testing.T) {
	a, c := newAllocator(t)
	prev := mustEncode(t, c, 4000)

	got, err := a.Between(&prev, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), mustDecode(t, c, got))
	assert.Greater(t, string(got), string(prev))
}

func TestAllocator_TailAppendNearMaxIsExhausted(t *testing.T) {
	a, c := newAllocator(t)

	_, err := a.Between(ptr(mustEncode(t, c, c.Max()-DefaultStep+1)), nil)
	assert.ErrorIs(t, err, ErrExhausted)

	got, err := a.Between(ptr(mustEncode(t, c, c.Max()-DefaultStep)), nil)
	require.NoError(t, err)
	assert.Equal(t, c.Max(), mustDecode(t, c, got))
}

func TestAllocator_TailAppendChain(t *testing.T) {
	a, c := newAllocator(t)

	var ranks []Rank
	var prev *Rank
	for i := 0; i < 5; i++ {
		r, err := a.Between(prev, nil)
		require.NoError(t, err)
		ranks = append(ranks, r)
		prev = &ranks[len(ranks)-1]
	}

	for i := 1; i < len(ranks); i++ {
		assert.Less(t, string(ranks[i-1]), string(ranks[i]))
		assert.Equal(t, uint64(DefaultStep), mustDecode(t, c, ranks[i])-mustDecode(t, c, ranks[i-1]))
	}
}

func TestAllocator_Midpoint(t *testing.T) {
	a, c := newAllocator(t)

	tests := []struct {
		name       string
		prev, next uint64
		want       uint64
	}{
		{"even gap", 1000, 2000, 1500},
		{"odd gap floors", 5, 8, 6},
		{"gap of two", 5, 7, 6},
		{"top of range", c.Max() - 2, c.Max(), c.Max() - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, next := mustEncode(t, c, tt.prev), mustEncode(t, c, tt.next)
			got, err := a.Between(&prev, &next)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustDecode(t, c, got))
			assert.Less(t, string(prev), string(got))
			assert.Less(t, string(got), string(next))
		})
	}
}

func TestAllocator_AdjacentNeighborsExhausted(t *testing.T) {
	a, c := newAllocator(t)
	prev, next := mustEncode(t, c, 5), mustEncode(t, c, 6)

	_, err := a.Between(&prev, &next)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestAllocator_RejectsOutOfOrderNeighbors(t *testing.T) {
	a, c := newAllocator(t)
	lo, hi := mustEncode(t, c, 5), mustEncode(t, c, 60)

	_, err := a.Between(&hi, &lo)
	assert.ErrorIs(t, err, ErrOutOfOrder)

	_, err = a.Between(&lo, &lo)
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestAllocator_RejectsMalformedNeighbor(t *testing.T) {
	a, _ := newAllocator(t)

	_, err := a.Between(nil, ptr("bogus"))
	assert.ErrorIs(t, err, ErrInvalidRank)
}

func TestAllocator_RepeatedBisectionEventuallyExhausts(t *testing.T) {
	a, c := newAllocator(t)
	prev, next := mustEncode(t, c, 0), mustEncode(t, c, 1<<10)

	// Always insert directly after prev; each step halves the gap
	inserts := 0
	for {
		r, err := a.Between(&prev, &next)
		if errors.Is(err, ErrExhausted) {
			break
		}
		require.NoError(t, err)
		next = r
		inserts++
	}
	assert.Equal(t, 10, inserts)
}

// ============================================================================
// REBALANCER
// ============================================================================

func TestRebalancer_EvenSpacing(t *testing.T) {
	c := DefaultCodec()
	r, err := NewRebalancer(c, DefaultChunk)
	require.NoError(t, err)

	input := []Rank{
		mustEncode(t, c, 5),
		mustEncode(t, c, 6),
		mustEncode(t, c, 7),
		c.Initial(),
		mustEncode(t, c, c.Max()),
	}
	original := append([]Rank(nil), input...)

	out, err := r.Rebalance(input)
	require.NoError(t, err)
	require.Len(t, out, len(input))

	if diff := cmp.Diff(original, input); diff != "" {
		t.Errorf("input was modified (-want +got):\n%s", diff)
	}

	for i := range out {
		assert.Equal(t, uint64(i+1)*DefaultChunk, mustDecode(t, c, out[i]))
		if i > 0 {
			assert.Less(t, string(out[i-1]), string(out[i]))
			assert.GreaterOrEqual(t, mustDecode(t, c, out[i])-mustDecode(t, c, out[i-1]), uint64(Base))
		}
	}
}

func TestRebalancer_RandomSequencesKeepOrder(t *testing.T) {
	c := DefaultCodec()
	r, err := NewRebalancer(c, DefaultChunk)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(99))

	for round := 0; round < 50; round++ {
		seen := map[Rank]bool{}
		size := rng.Intn(200)
		var input []Rank
		for len(input) < size {
			candidate := mustEncode(t, c, uint64(rng.Int63n(int64(c.Max()))))
			if !seen[candidate] {
				seen[candidate] = true
				input = append(input, candidate)
			}
		}
		sort.Slice(input, func(i, j int) bool { return input[i] < input[j] })

		out, err := r.Rebalance(input)
		require.NoError(t, err)
		require.Len(t, out, len(input))
		assert.True(t, sort.SliceIsSorted(out, func(i, j int) bool { return out[i] < out[j] }))

		distinct := map[Rank]bool{}
		for _, rk := range out {
			distinct[rk] = true
		}
		assert.Len(t, distinct, len(out))
	}
}

func TestRebalancer_Empty(t *testing.T) {
	r, err := NewRebalancer(DefaultCodec(), DefaultChunk)
	require.NoError(t, err)

	out, err := r.Rebalance(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRebalancer_RejectsUnsortedInput(t *testing.T) {
	c := DefaultCodec()
	r, err := NewRebalancer(c, DefaultChunk)
	require.NoError(t, err)

	_, err = r.Rebalance([]Rank{mustEncode(t, c, 9), mustEncode(t, c, 3)})
	assert.ErrorIs(t, err, ErrOutOfOrder)

	_, err = r.Rebalance([]Rank{mustEncode(t, c, 3), mustEncode(t, c, 3)})
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestRebalancer_Overflow(t *testing.T) {
	c, err := NewCodec(1)
	require.NoError(t, err)
	r, err := NewRebalancer(c, 10)
	require.NoError(t, err)

	_, err = r.Rebalance([]Rank{"1", "2", "3"})
	require.NoError(t, err)

	_, err = r.Rebalance([]Rank{"1", "2", "3", "4"})
	assert.ErrorIs(t, err, ErrRankOverflow)
}

func TestRebalance_ThenAllocateBetweenFormerlyAdjacentRanks(t *testing.T) {
	e := DefaultEngine()
	prev, next := mustEncode(t, e.Codec, 5), mustEncode(t, e.Codec, 6)

	_, err := e.Allocator.Between(&prev, &next)
	require.ErrorIs(t, err, ErrExhausted)

	out, err := e.Rebalancer.Rebalance([]Rank{prev, next})
	require.NoError(t, err)

	got, err := e.Allocator.Between(&out[0], &out[1])
	require.NoError(t, err)
	assert.Less(t, string(out[0]), string(got))
	assert.Less(t, string(got), string(out[1]))

	// The head keeps a chunk of room after a rebalance
	head, err := e.Allocator.Between(nil, &out[0])
	require.NoError(t, err)
	assert.Less(t, string(head), string(out[0]))
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{Width: 0, Step: 1, Chunk: 36})
	assert.ErrorIs(t, err, ErrInvalidWidth)

	_, err = NewEngine(Config{Width: 10, Step: 0, Chunk: 36})
	assert.Error(t, err)

	_, err = NewEngine(Config{Width: 10, Step: 1000, Chunk: 1})
	assert.Error(t, err)
}
