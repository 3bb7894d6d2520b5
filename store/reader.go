package store

import (
	"io"

	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/policy"
)

// Reader is the read only view of a Store.
type Reader interface {
	Policy() *policy.Policy
	NumNodes() int
	NumArcs() int
	GetNode(id graph.ID) (*Node, error)
	GetArc(key ArcKey) (*Arc, error)
	ArcByID(id ArcID) (*Arc, error)
	AllNodes() NodeSet
	AllArcs() []*Arc
	NodesOfKind(kind graph.Kind) NodeSet
	NodesOfKindWithProperty(kind graph.Kind, name string) NodeSet
	NodesOfKindWithPropertyValue(kind graph.Kind, name, value string) NodeSet
	NodesWithProperty(name string) NodeSet
	NodesWithPropertyValue(name, value string) NodeSet
	Select(selector string) (NodeSet, error)
	SimilarNodes(id graph.ID, minShared int) (NodeSet, error)
	Arcs(id graph.ID, direction graph.Direction, kinds ...graph.Kind) ([]*Arc, error)
	Neighbors(id graph.ID, direction graph.Direction, kinds ...graph.Kind) (NodeSet, error)
	HasArcOfKind(id graph.ID, kind graph.Kind) bool
	HasArcTo(from graph.ID, kind graph.Kind, to graph.ID) bool
	Reachable(id graph.ID, direction graph.Direction, maxDepth int, kinds ...graph.Kind) (NodeSet, error)
	Encode(output io.Writer) error
	PrintNode(output io.Writer, id graph.ID) error
	Hash() (uint64, error)
	Stats() Stats
}

var _ Reader = (*Store)(nil)
