// Package tinygraph is the entry point for a schema constrained, in-memory property graph. Every node kind and
// every (from kind, arc kind, to kind) triple must be declared by a policy before matching data can be created.
package tinygraph

import (
	"io"

	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/policy"
	"github.com/specterops/tinygraph/store"
)

// Config is the basic configuration struct for a tinygraph database.
type Config = store.Config

// Database is the full set of operations offered by a graph store.
type Database interface {
	store.Reader

	NewNode(kind graph.Kind, properties graph.Properties) (graph.ID, error)
	NewNodeWithID(id graph.ID, kind graph.Kind, properties graph.Properties) error
	AddArc(from graph.ID, kind graph.Kind, to graph.ID, properties graph.Properties) (*store.Arc, error)
	SetNodeProperty(id graph.ID, name, value string) error
	SetArcProperty(key store.ArcKey, name, value string) error
	Save(path string) error
	Print() error
}

var _ Database = (*store.Store)(nil)

// New creates an empty database governed by a copy of the given policy.
func New(schema *policy.Policy, config Config) *store.Store {
	return store.New(schema, config)
}

// Open loads the document at the given path. Lines that could not be applied are described by the returned report.
func Open(path string, config Config) (*store.Store, store.LoadReport, error) {
	return store.Open(path, config)
}

// Read loads a document from the given reader.
func Read(input io.Reader, config Config) (*store.Store, store.LoadReport, error) {
	return store.Read(input, config)
}
