// Package store implements an in-memory, policy constrained property graph.
//
// A Store owns every node and arc it holds. Nodes are kept in an id keyed table and arcs in an append-only arena
// addressed by ArcID handles; nodes refer to their incident arcs through those handles. Two secondary indices, nodes
// by kind and nodes by property name and value, are updated within the same call as the mutation that affects them.
//
// A Store is not safe for concurrent use.
package store

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/specterops/tinygraph/cardinality"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/policy"
	"github.com/specterops/tinygraph/util"
)

// Config is the basic configuration struct for a Store.
type Config struct {
	// Logger receives warnings about rejected lines during loads and timing records for load and save. When nil the
	// process default logger is used.
	Logger *slog.Logger
}

type Store struct {
	logger          *slog.Logger
	policy          *policy.Policy
	nodes           map[graph.ID]*Node
	maxID           graph.ID
	arcs            []*Arc
	arcsByKey       map[ArcKey]ArcID
	nodesByKind     map[string]cardinality.Duplex[uint64]
	nodesByProperty map[string]map[string]cardinality.Duplex[uint64]
}

// New creates an empty store governed by a copy of the given policy.
func New(schema *policy.Policy, config Config) *Store {
	return &Store{
		logger:          util.LoggerOrDefault(config.Logger),
		policy:          schema.Clone(),
		nodes:           map[graph.ID]*Node{},
		arcsByKey:       map[ArcKey]ArcID{},
		nodesByKind:     map[string]cardinality.Duplex[uint64]{},
		nodesByProperty: map[string]map[string]cardinality.Duplex[uint64]{},
	}
}

// Policy returns a copy of the policy governing this store.
func (s *Store) Policy() *policy.Policy {
	return s.policy.Clone()
}

func (s *Store) NumNodes() int {
	return len(s.nodes)
}

func (s *Store) NumArcs() int {
	return len(s.arcs)
}

func (s *Store) requireNodeKind(kind graph.Kind) error {
	if !s.policy.IsNodeType(kind) {
		return fmt.Errorf("%w: node type %q", graph.ErrUnknownType, graph.KindName(kind))
	}

	return nil
}

// nextID returns the node count as the next identifier unless it is taken, in which case it returns one past the
// largest identifier in use. When the largest identifier is math.MaxUint64 the lowest free identifier is returned
// instead.
func (s *Store) nextID() graph.ID {
	candidate := graph.ID(len(s.nodes))

	if _, taken := s.nodes[candidate]; !taken {
		return candidate
	}

	if s.maxID < math.MaxUint64 {
		return s.maxID + 1
	}

	// Fewer than math.MaxUint64 nodes can exist so a free identifier is always found
	for candidate = 0; ; candidate++ {
		if _, taken := s.nodes[candidate]; !taken {
			return candidate
		}
	}
}

func (s *Store) insertNode(id graph.ID, kind graph.Kind, properties graph.Properties) *Node {
	node := newNode(id, graph.StringKind(kind.String()), properties)

	if len(s.nodes) == 0 || id > s.maxID {
		s.maxID = id
	}

	s.nodes[id] = node
	s.indexKind(node)

	for name, value := range node.properties {
		s.indexProperty(id, name, value)
	}

	return node
}

// NewNode creates a node of the given kind and returns its identifier. The kind must be a node type of the store's
// policy or an error wrapping graph.ErrUnknownType is returned and the store is left unchanged.
func (s *Store) NewNode(kind graph.Kind, properties graph.Properties) (graph.ID, error) {
	if err := s.requireNodeKind(kind); err != nil {
		return 0, err
	}

	id := s.nextID()
	s.insertNode(id, kind, properties)

	return id, nil
}

// NewNodeWithID creates a node with a caller supplied identifier. If a node with that identifier already exists the
// call does nothing and returns no error. The kind is checked first, even for existing identifiers.
func (s *Store) NewNodeWithID(id graph.ID, kind graph.Kind, properties graph.Properties) error {
	if err := s.requireNodeKind(kind); err != nil {
		return err
	}

	if _, exists := s.nodes[id]; !exists {
		s.insertNode(id, kind, properties)
	}

	return nil
}

// AddArc creates an arc of the given kind between two existing nodes and returns it. Both endpoints must exist and
// the (from kind, arc kind, to kind) triple must be declared by the policy. Adding an arc whose key already exists
// returns the existing arc unchanged; the given properties are not merged into it.
func (s *Store) AddArc(from graph.ID, kind graph.Kind, to graph.ID, properties graph.Properties) (*Arc, error) {
	fromNode, hasFrom := s.nodes[from]
	if !hasFrom {
		return nil, fmt.Errorf("%w: arc start %d", graph.ErrNodeNotFound, from)
	}

	toNode, hasTo := s.nodes[to]
	if !hasTo {
		return nil, fmt.Errorf("%w: arc end %d", graph.ErrNodeNotFound, to)
	}

	if !s.policy.IsValid(fromNode.kind, kind, toNode.kind) {
		constraint := graph.Constraint{From: fromNode.kind, Arc: kind, To: toNode.kind}

		if !s.policy.IsArcType(kind) {
			return nil, fmt.Errorf("%w: %w: arc type %q in %s", graph.ErrPolicyViolation, graph.ErrUnknownType, graph.KindName(kind), constraint)
		}

		return nil, fmt.Errorf("%w: %s", graph.ErrPolicyViolation, constraint)
	}

	key := NewArcKey(from, kind, to)

	if existing, exists := s.arcsByKey[key]; exists {
		return s.arcs[existing], nil
	}

	arc := &Arc{
		id:         ArcID(len(s.arcs)),
		key:        key,
		properties: properties.Clone(),
	}

	s.arcs = append(s.arcs, arc)
	s.arcsByKey[key] = arc.id

	fromNode.outgoing.Add(uint64(arc.id))
	toNode.incoming.Add(uint64(arc.id))

	return arc, nil
}

// SetNodeProperty sets a property on an existing node and updates the property index.
func (s *Store) SetNodeProperty(id graph.ID, name, value string) error {
	node, found := s.nodes[id]
	if !found {
		return fmt.Errorf("%w: %d", graph.ErrNodeNotFound, id)
	}

	if previous, hasPrevious := node.properties[name]; hasPrevious {
		if previous == value {
			return nil
		}

		s.unindexProperty(id, name, previous)
	}

	node.properties[name] = value
	s.indexProperty(id, name, value)

	return nil
}

// SetArcProperty sets a property on an existing arc.
func (s *Store) SetArcProperty(key ArcKey, name, value string) error {
	if arc, err := s.GetArc(key); err != nil {
		return err
	} else {
		arc.properties[name] = value
		return nil
	}
}

func (s *Store) indexKind(node *Node) {
	kindName := node.kind.String()

	if ids, found := s.nodesByKind[kindName]; found {
		ids.Add(node.id.Uint64())
	} else {
		s.nodesByKind[kindName] = cardinality.NewBitmap64With(node.id.Uint64())
	}
}

func (s *Store) indexProperty(id graph.ID, name, value string) {
	values, found := s.nodesByProperty[name]

	if !found {
		values = map[string]cardinality.Duplex[uint64]{}
		s.nodesByProperty[name] = values
	}

	if ids, found := values[value]; found {
		ids.Add(id.Uint64())
	} else {
		values[value] = cardinality.NewBitmap64With(id.Uint64())
	}
}

func (s *Store) unindexProperty(id graph.ID, name, value string) {
	if values, found := s.nodesByProperty[name]; found {
		if ids, found := values[value]; found {
			ids.Remove(id.Uint64())

			if ids.Cardinality() == 0 {
				delete(values, value)
			}
		}

		if len(values) == 0 {
			delete(s.nodesByProperty, name)
		}
	}
}
