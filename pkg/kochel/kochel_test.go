package kochel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw    string
		value  int
		suffix string
	}{
		{"K. 525", 525, ""},
		{"K. 525b", 525, "b"},
		{"K 331", 331, ""},
		{"KV 466", 466, ""},
		{"kv 6a", 6, "a"},
		{"626", 626, ""},
		{"  K. 123c  ", 123, "c"},
	}
	for _, tc := range cases {
		n, err := Parse(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.value, n.Value, tc.raw)
		require.Equal(t, tc.suffix, n.Suffix, tc.raw)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "K.", "K. abc", "K. 12-3"} {
		_, err := Parse(raw)
		require.Error(t, err, raw)
	}
}

func TestCompare_SuffixAfterBareNumber(t *testing.T) {
	bare, _ := Parse("K. 525")
	a, _ := Parse("K. 525a")
	b, _ := Parse("K. 525b")
	next, _ := Parse("K. 526")

	require.Negative(t, Compare(bare, a))
	require.Negative(t, Compare(a, b))
	require.Negative(t, Compare(b, next))
	require.Zero(t, Compare(a, a))
	require.Positive(t, Compare(next, bare))
}

func TestSortRaw(t *testing.T) {
	raws := []string{"K. 551", "K. 6b", "K. 525", "broken", "K. 6a", "K. 6"}
	SortRaw(raws)
	require.Equal(t, []string{"K. 6", "K. 6a", "K. 6b", "K. 525", "K. 551", "broken"}, raws)
}
