package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specterops/tinygraph/cardinality"
	"github.com/specterops/tinygraph/graph"
)

var ErrInvalidSelector = errors.New("invalid node selector")

// GetNode returns the node with the given identifier or an error wrapping graph.ErrNodeNotFound.
func (s *Store) GetNode(id graph.ID) (*Node, error) {
	if node, found := s.nodes[id]; !found {
		return nil, fmt.Errorf("%w: %d", graph.ErrNodeNotFound, id)
	} else {
		return node, nil
	}
}

// GetArc returns the arc with the given key or an error wrapping graph.ErrArcNotFound.
func (s *Store) GetArc(key ArcKey) (*Arc, error) {
	if id, found := s.arcsByKey[NewArcKey(key.From, key.Kind, key.To)]; !found {
		return nil, fmt.Errorf("%w: %s", graph.ErrArcNotFound, key)
	} else {
		return s.arcs[id], nil
	}
}

// ArcByID resolves an arc handle.
func (s *Store) ArcByID(id ArcID) (*Arc, error) {
	if uint64(id) >= uint64(len(s.arcs)) {
		return nil, fmt.Errorf("%w: handle %d", graph.ErrArcNotFound, id)
	}

	return s.arcs[id], nil
}

func (s *Store) nodeSet(ids cardinality.Duplex[uint64]) NodeSet {
	nodes := NodeSet{}

	if ids != nil {
		ids.Each(func(value uint64) bool {
			nodes[graph.ID(value)] = s.nodes[graph.ID(value)]
			return true
		})
	}

	return nodes
}

// propertyIDs returns the union of every value bitmap for the named property. The result is a new bitmap.
func (s *Store) propertyIDs(name string) cardinality.Duplex[uint64] {
	var (
		values = s.nodesByProperty[name]
		sets   = make([]cardinality.Duplex[uint64], 0, len(values))
	)

	for _, ids := range values {
		sets = append(sets, ids)
	}

	return cardinality.Or(cardinality.NewBitmap64, sets...)
}

func (s *Store) propertyValueIDs(name, value string) cardinality.Duplex[uint64] {
	if values, found := s.nodesByProperty[name]; found {
		return values[value]
	}

	return nil
}

// AllNodes returns every node of the store.
func (s *Store) AllNodes() NodeSet {
	nodes := make(NodeSet, len(s.nodes))

	for id, node := range s.nodes {
		nodes[id] = node
	}

	return nodes
}

func sortArcs(arcs []*Arc) []*Arc {
	slices.SortFunc(arcs, func(a, b *Arc) int {
		return a.key.Compare(b.key)
	})

	return arcs
}

// AllArcs returns every arc of the store ordered by key.
func (s *Store) AllArcs() []*Arc {
	return sortArcs(slices.Clone(s.arcs))
}

// kindIDs returns the kind index entry for the given kind. A nil kind matches no node.
func (s *Store) kindIDs(kind graph.Kind) cardinality.Duplex[uint64] {
	if kind == nil {
		return nil
	}

	return s.nodesByKind[kind.String()]
}

// NodesOfKind returns the nodes of the given kind. An unknown or nil kind yields an empty set.
func (s *Store) NodesOfKind(kind graph.Kind) NodeSet {
	return s.nodeSet(s.kindIDs(kind))
}

// NodesOfKindWithProperty returns the nodes of the given kind that carry the named property with any value.
func (s *Store) NodesOfKindWithProperty(kind graph.Kind, name string) NodeSet {
	return s.nodeSet(cardinality.And(cardinality.NewBitmap64, s.kindIDs(kind), s.propertyIDs(name)))
}

// NodesOfKindWithPropertyValue returns the nodes of the given kind whose named property holds exactly value.
func (s *Store) NodesOfKindWithPropertyValue(kind graph.Kind, name, value string) NodeSet {
	return s.nodeSet(cardinality.And(cardinality.NewBitmap64, s.kindIDs(kind), s.propertyValueIDs(name, value)))
}

// NodesWithProperty returns the nodes that carry the named property with any value.
func (s *Store) NodesWithProperty(name string) NodeSet {
	return s.nodeSet(s.propertyIDs(name))
}

// NodesWithPropertyValue returns the nodes whose named property holds exactly value.
func (s *Store) NodesWithPropertyValue(name, value string) NodeSet {
	return s.nodeSet(s.propertyValueIDs(name, value))
}

// Select resolves a node selector of the form "(kind)" or "(kind)id". A kind-only selector returns every node of
// that kind. An id selector returns the node when it exists and has the given kind, or an empty set otherwise.
func (s *Store) Select(selector string) (NodeSet, error) {
	var (
		trimmed  = strings.TrimSpace(selector)
		kindEnd  = strings.Index(trimmed, ")")
		kindName string
		idText   string
	)

	if !strings.HasPrefix(trimmed, "(") || kindEnd < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}

	kindName = strings.TrimSpace(trimmed[1:kindEnd])
	idText = strings.TrimSpace(trimmed[kindEnd+1:])

	if kindName == "" {
		return nil, fmt.Errorf("%w: empty kind in %q", ErrInvalidSelector, selector)
	}

	kind := graph.StringKind(kindName)

	if idText == "" {
		return s.NodesOfKind(kind), nil
	}

	if id, err := graph.ParseID(idText); err != nil {
		return nil, fmt.Errorf("%w: id %q in %q", ErrInvalidSelector, idText, selector)
	} else if node, found := s.nodes[id]; found && node.kind.Is(kind) {
		return NodeSet{id: node}, nil
	}

	return NodeSet{}, nil
}

// SimilarNodes returns the nodes, other than the given one, that share at least minShared property name and value
// pairs with it. A minShared below one is treated as one.
func (s *Store) SimilarNodes(id graph.ID, minShared int) (NodeSet, error) {
	node, err := s.GetNode(id)
	if err != nil {
		return nil, err
	}

	var (
		shared  = map[graph.ID]int{}
		similar = NodeSet{}
	)

	if minShared < 1 {
		minShared = 1
	}

	for name, value := range node.properties {
		if ids := s.propertyValueIDs(name, value); ids != nil {
			ids.Each(func(candidate uint64) bool {
				if graph.ID(candidate) != id {
					shared[graph.ID(candidate)]++
				}

				return true
			})
		}
	}

	for candidate, count := range shared {
		if count >= minShared {
			similar[candidate] = s.nodes[candidate]
		}
	}

	return similar, nil
}
