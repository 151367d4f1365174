package column

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"github.com/thenoetrevino/kanrank/internal/testutil/cli"
	"github.com/thenoetrevino/kanrank/internal/types"
)

func mustEncode(t *testing.T, codec rank.Codec, n uint64) rank.Rank {
	t.Helper()
	r, err := codec.Encode(n)
	require.NoError(t, err)
	return r
}

func namesInOrder(t *testing.T, store *database.Store, columnID types.ColumnID, names map[int]string) []string {
	t.Helper()
	var out []string
	for _, id := range cli.ColumnOrder(t, store, columnID) {
		out = append(out, names[int(id)])
	}
	return out
}
