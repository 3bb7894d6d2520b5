package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/specterops/tinygraph/format"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/util"
)

// Encode writes the store as a document: the format header, the policy, nodes in ascending id order and arcs in key
// order.
func (s *Store) Encode(output io.Writer) error {
	writer := format.NewWriter(output)

	writer.Header()
	s.policy.Encode(writer)

	writer.Section(format.SectionNodes)

	for _, node := range s.AllNodes().Slice() {
		writer.Node(node.record())
	}

	writer.Section(format.SectionRelations)

	for _, arc := range s.AllArcs() {
		writer.Arc(arc.record())
	}

	return writer.Flush()
}

// defaultFileMode applies to documents saved to a path that does not exist yet.
const defaultFileMode os.FileMode = 0o644

// Save writes the store to the given path. The document is written to a temporary file in the same directory first
// and renamed over the destination once complete. An existing destination keeps its permission bits.
func (s *Store) Save(path string) error {
	measure := util.SLogMeasureFunction(s.logger, "Save", slog.String("path", path))

	output, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	var (
		tempPath = output.Name()
		mode     = defaultFileMode
	)

	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := output.Chmod(mode); err != nil {
		output.Close()
		os.Remove(tempPath)
		return err
	}

	if err := s.Encode(output); err != nil {
		output.Close()
		os.Remove(tempPath)

		util.SLogError(s.logger, "Failed writing graph document", err, slog.String("path", path))
		return err
	}

	if err := output.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}

	measure(slog.Int("nodes", s.NumNodes()), slog.Int("arcs", s.NumArcs()))
	return nil
}

// Print writes the store document to standard output.
func (s *Store) Print() error {
	return s.Encode(os.Stdout)
}

// PrintNode writes the node line of the given node followed by the lines of its outgoing arcs in key order.
func (s *Store) PrintNode(output io.Writer, id graph.ID) error {
	node, err := s.GetNode(id)
	if err != nil {
		return err
	}

	writer := format.NewWriter(output)
	writer.Node(node.record())

	if arcs, err := s.Arcs(id, graph.DirectionOutbound); err != nil {
		return err
	} else {
		for _, arc := range sortArcs(arcs) {
			writer.Arc(arc.record())
		}
	}

	return writer.Flush()
}

// HashInto writes the policy, every node in id order and every arc in key order into the digest.
func (s *Store) HashInto(h *xxhash.Digest) error {
	if err := s.policy.HashInto(h); err != nil {
		return err
	}

	for _, node := range s.AllNodes().Slice() {
		if err := node.HashInto(h); err != nil {
			return err
		}
	}

	for _, arc := range s.AllArcs() {
		if err := arc.HashInto(h); err != nil {
			return err
		}
	}

	return nil
}

// Hash returns a fingerprint of the store content. Two stores holding the same policy, nodes and arcs hash to the
// same value regardless of the order in which they were built.
func (s *Store) Hash() (uint64, error) {
	digest := xxhash.New()

	if err := s.HashInto(digest); err != nil {
		return 0, err
	}

	return digest.Sum64(), nil
}
