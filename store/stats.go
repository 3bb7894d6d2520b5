package store

import (
	"fmt"

	"github.com/specterops/tinygraph/util/size"
)

type Stats struct {
	NodeTypes     int
	ArcTypes      int
	Constraints   int
	Nodes         int
	Arcs          int
	IndexedKinds  int
	IndexedNames  int
	IndexedValues int
	NodeBytes     size.Size
	ArcBytes      size.Size
	IndexBytes    size.Size
}

// Size returns the combined estimate of node, arc and index memory.
func (s Stats) Size() size.Size {
	return s.NodeBytes + s.ArcBytes + s.IndexBytes
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d arcs, %d constraints, %.2f MiB", s.Nodes, s.Arcs, s.Constraints, s.Size().Mebibytes())
}

// Stats returns counts and an estimate of the memory held by the store.
func (s *Store) Stats() Stats {
	stats := Stats{
		NodeTypes:    len(s.policy.NodeTypes()),
		ArcTypes:     len(s.policy.ArcTypes()),
		Constraints:  s.policy.NumConstraints(),
		Nodes:        len(s.nodes),
		Arcs:         len(s.arcs),
		IndexedKinds: len(s.nodesByKind),
		IndexedNames: len(s.nodesByProperty),
	}

	for _, node := range s.nodes {
		stats.NodeBytes += node.SizeOf()
	}

	for _, arc := range s.arcs {
		stats.ArcBytes += arc.SizeOf()
	}

	for kindName, ids := range s.nodesByKind {
		stats.IndexBytes += size.OfString(kindName) + size.Size(ids.SizeInBytes())
	}

	for name, values := range s.nodesByProperty {
		stats.IndexBytes += size.OfString(name)
		stats.IndexedValues += len(values)

		for value, ids := range values {
			stats.IndexBytes += size.OfString(value) + size.Size(ids.SizeInBytes())
		}
	}

	return stats
}
