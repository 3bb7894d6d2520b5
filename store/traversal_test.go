package store_test

import (
	"testing"

	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/store"
	"github.com/stretchr/testify/require"
)

func TestArcs(t *testing.T) {
	graphStore, ids := glycolysis(t)

	outbound, err := graphStore.Arcs(ids["hk"], graph.DirectionOutbound)
	require.NoError(t, err)
	require.Len(t, outbound, 1)
	require.Equal(t, store.NewArcKey(ids["hk"], catalysedBy, ids["hexokinase"]), outbound[0].Key())

	inbound, err := graphStore.Arcs(ids["hk"], graph.DirectionInbound, isLeftOf)
	require.NoError(t, err)
	require.Len(t, inbound, 2)

	for _, arc := range inbound {
		require.True(t, arc.Kind().Is(isLeftOf))
	}

	both, err := graphStore.Arcs(ids["hk"], graph.DirectionBoth, catalyses, catalysedBy)
	require.NoError(t, err)
	require.Len(t, both, 2)

	_, err = graphStore.Arcs(99, graph.DirectionBoth)
	require.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestNeighbors(t *testing.T) {
	graphStore, ids := glycolysis(t)

	substrates, err := graphStore.Neighbors(ids["hk"], graph.DirectionInbound, isLeftOf)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["glucose"], ids["atp"]}, substrates.IDs())

	// The enzyme is reached through two arcs but appears once
	everything, err := graphStore.Neighbors(ids["hk"], graph.DirectionBoth)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["glucose"], ids["atp"], ids["g6p"], ids["adp"], ids["hexokinase"]}, everything.IDs())

	none, err := graphStore.Neighbors(ids["glucose"], graph.DirectionInbound)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestHasArc(t *testing.T) {
	graphStore, ids := glycolysis(t)

	require.True(t, graphStore.HasArcOfKind(ids["glucose"], isLeftOf))
	require.False(t, graphStore.HasArcOfKind(ids["glucose"], isRightOf))
	require.False(t, graphStore.HasArcOfKind(ids["hk"], isLeftOf))
	require.False(t, graphStore.HasArcOfKind(99, isLeftOf))

	require.True(t, graphStore.HasArcTo(ids["glucose"], isLeftOf, ids["hk"]))
	require.False(t, graphStore.HasArcTo(ids["hk"], isLeftOf, ids["glucose"]))
}

func TestReachable(t *testing.T) {
	graphStore, ids := glycolysis(t)

	// hexokinase -> hk -> hexokinase is a cycle so the start node is reached again
	reached, err := graphStore.Reachable(ids["hexokinase"], graph.DirectionOutbound, 0)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["hk"], ids["hexokinase"]}, reached.IDs())

	reached, err = graphStore.Reachable(ids["hexokinase"], graph.DirectionOutbound, 1)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["hk"]}, reached.IDs())

	reached, err = graphStore.Reachable(ids["glucose"], graph.DirectionOutbound, 0)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["hk"], ids["hexokinase"]}, reached.IDs())

	// Following only substrate arcs in both directions stays among the substrates and their reaction
	reached, err = graphStore.Reachable(ids["glucose"], graph.DirectionBoth, 0, isLeftOf)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["glucose"], ids["atp"], ids["hk"]}, reached.IDs())

	reached, err = graphStore.Reachable(ids["glucose"], graph.DirectionBoth, 1, isLeftOf)
	require.NoError(t, err)
	require.Equal(t, graph.IDs{ids["hk"]}, reached.IDs())

	reached, err = graphStore.Reachable(ids["glucose"], graph.DirectionInbound, 0)
	require.NoError(t, err)
	require.Empty(t, reached)

	_, err = graphStore.Reachable(99, graph.DirectionOutbound, 0)
	require.ErrorIs(t, err, graph.ErrNodeNotFound)
}
