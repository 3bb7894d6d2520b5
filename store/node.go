package store

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/cardinality"
	"github.com/specterops/tinygraph/format"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/util/size"
)

// Node is a typed, identified entity owned by a Store. Its identity and kind never change after creation. Incident
// arcs are tracked as arc handles that resolve through the owning store.
type Node struct {
	id         graph.ID
	kind       graph.Kind
	properties graph.Properties
	incoming   cardinality.Duplex[uint64]
	outgoing   cardinality.Duplex[uint64]
}

func newNode(id graph.ID, kind graph.Kind, properties graph.Properties) *Node {
	return &Node{
		id:         id,
		kind:       kind,
		properties: properties.Clone(),
		incoming:   cardinality.NewBitmap64(),
		outgoing:   cardinality.NewBitmap64(),
	}
}

func (s *Node) ID() graph.ID {
	return s.id
}

func (s *Node) Kind() graph.Kind {
	return s.kind
}

// Property returns the value of the named property or an error wrapping graph.ErrPropertyNotFound.
func (s *Node) Property(name string) (string, error) {
	if value, err := s.properties.Get(name); err != nil {
		return "", fmt.Errorf("node %d: %w", s.id, err)
	} else {
		return value, nil
	}
}

// Properties returns a copy of the node's properties.
func (s *Node) Properties() graph.Properties {
	return s.properties.Clone()
}

func (s *Node) HasProperty(name string) bool {
	return s.properties.Exists(name)
}

func (s *Node) HasPropertyValue(name, value string) bool {
	return s.properties.Matches(name, value)
}

func arcIDs(handles cardinality.Duplex[uint64]) []ArcID {
	ids := make([]ArcID, 0, handles.Cardinality())

	handles.Each(func(value uint64) bool {
		ids = append(ids, ArcID(value))
		return true
	})

	return ids
}

// Incoming returns the handles of arcs ending at this node in creation order.
func (s *Node) Incoming() []ArcID {
	return arcIDs(s.incoming)
}

// Outgoing returns the handles of arcs starting at this node in creation order.
func (s *Node) Outgoing() []ArcID {
	return arcIDs(s.outgoing)
}

// handles returns the incident arc handles for the given direction. The result must not be modified.
func (s *Node) handles(direction graph.Direction) cardinality.Duplex[uint64] {
	switch direction {
	case graph.DirectionInbound:
		return s.incoming

	case graph.DirectionOutbound:
		return s.outgoing

	default:
		return cardinality.Or(cardinality.NewBitmap64, s.incoming, s.outgoing)
	}
}

// Degree returns the number of incident arcs in the given direction. A self loop counts once for DirectionBoth.
func (s *Node) Degree(direction graph.Direction) int {
	return int(s.handles(direction).Cardinality())
}

func (s *Node) record() format.NodeRecord {
	return format.NodeRecord{
		ID:         s.id,
		Kind:       s.kind,
		Properties: s.properties,
	}
}

func (s *Node) SizeOf() size.Size {
	return size.Of(*s) +
		size.OfString(s.kind.String()) +
		s.properties.SizeOf() +
		size.Size(s.incoming.SizeInBytes()+s.outgoing.SizeInBytes())
}

// HashInto writes the node's identity, kind and properties into the digest. Arc handles are not part of the hash
// since they depend on arc creation order.
func (s *Node) HashInto(h *xxhash.Digest) error {
	var idBuffer [8]byte
	binary.BigEndian.PutUint64(idBuffer[:], s.id.Uint64())

	if _, err := h.Write(idBuffer[:]); err != nil {
		return err
	} else if err := graph.HashString(h, s.kind.String()); err != nil {
		return err
	}

	return s.properties.HashInto(h)
}

func (s *Node) String() string {
	return fmt.Sprintf("(%s)%d", s.kind, s.id)
}

// NodeSet is a mapped index of Node instances and their ID fields.
type NodeSet map[graph.ID]*Node

func (s NodeSet) Len() int {
	return len(s)
}

func (s NodeSet) Get(id graph.ID) *Node {
	return s[id]
}

func (s NodeSet) Contains(id graph.ID) bool {
	_, found := s[id]
	return found
}

func (s NodeSet) Add(nodes ...*Node) {
	for _, node := range nodes {
		s[node.id] = node
	}
}

// IDs returns the identifiers in this set in ascending order.
func (s NodeSet) IDs() graph.IDs {
	ids := make(graph.IDs, 0, len(s))

	for id := range s {
		ids = append(ids, id)
	}

	return ids.Sort()
}

// Slice returns the nodes in this set ordered by ID.
func (s NodeSet) Slice() []*Node {
	nodes := make([]*Node, 0, len(s))

	for _, node := range s {
		nodes = append(nodes, node)
	}

	slices.SortFunc(nodes, func(a, b *Node) int {
		return compareIDs(a.id, b.id)
	})

	return nodes
}

func compareIDs(a, b graph.ID) int {
	if a < b {
		return -1
	}

	if a > b {
		return 1
	}

	return 0
}
