package graph_test

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/graph"
	"github.com/stretchr/testify/require"
)

func hashKinds(t *testing.T, kinds graph.Kinds) uint64 {
	digest := xxhash.New()
	require.NoError(t, kinds.HashInto(digest))

	return digest.Sum64()
}

func TestKindsHashInto(t *testing.T) {
	t.Run("hash is the same for out-of-order kinds", func(t *testing.T) {
		require.Equal(t,
			hashKinds(t, graph.Kinds{graph.StringKind("A"), graph.StringKind("B"), graph.StringKind("C")}),
			hashKinds(t, graph.Kinds{graph.StringKind("C"), graph.StringKind("B"), graph.StringKind("A")}),
		)
	})

	t.Run("hash differs when kinds have ambiguous boundaries e.g. [a, bc] vs [ab, c]", func(t *testing.T) {
		require.NotEqual(t,
			hashKinds(t, graph.Kinds{graph.StringKind("A"), graph.StringKind("BC")}),
			hashKinds(t, graph.Kinds{graph.StringKind("AB"), graph.StringKind("C")}),
		)
	})
}

func TestStringKind(t *testing.T) {
	compound := graph.StringKind("compound")

	require.Equal(t, compound, graph.StringKind("compound"))
	require.True(t, compound.Is(graph.StringKind("reaction"), graph.StringKind("compound")))
	require.False(t, compound.Is(graph.StringKind("reaction"), nil))
	require.Equal(t, "compound", compound.String())
}

func TestKinds(t *testing.T) {
	kinds := graph.StringsToKinds([]string{"reaction", "compound"}).Add(graph.StringKind("compound"), graph.StringKind("protein"))

	require.Len(t, kinds, 3)
	require.Equal(t, "reaction,compound,protein", kinds.Formatted())
	require.Equal(t, []string{"compound", "protein", "reaction"}, kinds.Sorted().Strings())
	require.True(t, kinds.ContainsOneOf(graph.StringKind("protein")))
	require.False(t, kinds.ContainsOneOf(graph.StringKind("pathway")))
}
