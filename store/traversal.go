package store

import (
	"github.com/gammazero/deque"
	"github.com/specterops/tinygraph/cardinality"
	"github.com/specterops/tinygraph/graph"
)

func matchesKinds(arc *Arc, kinds graph.Kinds) bool {
	return len(kinds) == 0 || arc.key.Kind.Is(kinds...)
}

func (s *Store) eachAdjacentArc(node *Node, direction graph.Direction, kinds graph.Kinds, delegate func(arc *Arc) bool) {
	node.handles(direction).Each(func(handle uint64) bool {
		if arc := s.arcs[handle]; matchesKinds(arc, kinds) {
			return delegate(arc)
		}

		return true
	})
}

// Arcs returns the arcs incident to a node in the given direction in creation order. When kinds are given only arcs
// of one of those kinds are returned.
func (s *Store) Arcs(id graph.ID, direction graph.Direction, kinds ...graph.Kind) ([]*Arc, error) {
	node, err := s.GetNode(id)
	if err != nil {
		return nil, err
	}

	var arcs []*Arc

	s.eachAdjacentArc(node, direction, kinds, func(arc *Arc) bool {
		arcs = append(arcs, arc)
		return true
	})

	return arcs, nil
}

// Neighbors returns the far endpoints of every arc incident to a node in the given direction.
func (s *Store) Neighbors(id graph.ID, direction graph.Direction, kinds ...graph.Kind) (NodeSet, error) {
	node, err := s.GetNode(id)
	if err != nil {
		return nil, err
	}

	neighbors := NodeSet{}

	s.eachAdjacentArc(node, direction, kinds, func(arc *Arc) bool {
		neighbors.Add(s.nodes[arc.Other(id)])
		return true
	})

	return neighbors, nil
}

// HasArcOfKind reports whether the node has an outgoing arc of the given kind. Missing nodes have no arcs.
func (s *Store) HasArcOfKind(id graph.ID, kind graph.Kind) bool {
	found := false

	if node, exists := s.nodes[id]; exists {
		s.eachAdjacentArc(node, graph.DirectionOutbound, graph.Kinds{kind}, func(arc *Arc) bool {
			found = true
			return false
		})
	}

	return found
}

// HasArcTo reports whether an arc with the given key exists.
func (s *Store) HasArcTo(from graph.ID, kind graph.Kind, to graph.ID) bool {
	_, found := s.arcsByKey[NewArcKey(from, kind, to)]
	return found
}

type reachableSegment struct {
	node  graph.ID
	depth int
}

// Reachable walks the graph breadth first from the given node and returns every node reached, not counting the
// start node unless a cycle leads back to it. A maxDepth of zero or less does not bound the walk. When kinds are
// given only arcs of one of those kinds are followed.
func (s *Store) Reachable(id graph.ID, direction graph.Direction, maxDepth int, kinds ...graph.Kind) (NodeSet, error) {
	if _, err := s.GetNode(id); err != nil {
		return nil, err
	}

	var (
		traversals deque.Deque[reachableSegment]
		visited    = cardinality.NewBitmap64()
		reached    = NodeSet{}
	)

	traversals.PushBack(reachableSegment{
		node: id,
	})

	for traversals.Len() > 0 {
		var (
			nextSegment   = traversals.PopFront()
			nextDepth     = nextSegment.depth + 1
			depthExceeded = maxDepth > 0 && nextDepth > maxDepth
		)

		if depthExceeded {
			continue
		}

		s.eachAdjacentArc(s.nodes[nextSegment.node], direction, kinds, func(arc *Arc) bool {
			if nextID := arc.Other(nextSegment.node); visited.CheckedAdd(nextID.Uint64()) {
				reached.Add(s.nodes[nextID])

				traversals.PushBack(reachableSegment{
					node:  nextID,
					depth: nextDepth,
				})
			}

			return true
		})
	}

	return reached, nil
}
