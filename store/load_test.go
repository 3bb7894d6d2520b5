package store_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specterops/tinygraph/format"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

func nodeTuples(graphStore *store.Store) []string {
	var tuples []string

	for _, node := range graphStore.AllNodes().Slice() {
		tuples = append(tuples, fmt.Sprintf("%d|%s|%v", node.ID(), node.Kind(), node.Properties()))
	}

	return tuples
}

func arcTuples(graphStore *store.Store) []string {
	var tuples []string

	for _, arc := range graphStore.AllArcs() {
		tuples = append(tuples, fmt.Sprintf("%s|%v", arc.Key(), arc.Properties()))
	}

	return tuples
}

func TestEncode(t *testing.T) {
	graphStore := store.New(metabolismPolicy(), quietConfig)

	water, err := graphStore.NewNode(compound, graph.AsProperties("name", "water"))
	require.NoError(t, err)

	hydrolysis, err := graphStore.NewNode(reaction, nil)
	require.NoError(t, err)

	_, err = graphStore.AddArc(water, isLeftOf, hydrolysis, graph.AsProperties("stoichiometry", "1"))
	require.NoError(t, err)

	var output bytes.Buffer
	require.NoError(t, graphStore.Encode(&output))

	expected := strings.Join([]string{
		format.VersionHeader,
		"Policy",
		"compound\tis left of\treaction",
		"compound\tis right of\treaction",
		"protein\tcatalyses\treaction",
		"reaction\tis catalysed by\tprotein",
		"",
		"Nodes",
		"compound\t0\tname\twater",
		"reaction\t1",
		"",
		"Relations",
		"0\tis left of\t1\tstoichiometry\t1",
		"",
	}, "\n")

	require.Equal(t, expected, output.String())
}

func TestPrintNode(t *testing.T) {
	graphStore, ids := glycolysis(t)

	var output bytes.Buffer
	require.NoError(t, graphStore.PrintNode(&output, ids["hk"]))

	expected := strings.Join([]string{
		"reaction\t4\tname\thexokinase reaction",
		"4\tis catalysed by\t5",
		"",
	}, "\n")

	require.Equal(t, expected, output.String())
	require.ErrorIs(t, graphStore.PrintNode(&output, 99), graph.ErrNodeNotFound)
}

func TestSaveOpenRoundTrip(t *testing.T) {
	var (
		schema   = metabolismPolicy()
		gene     = graph.StringKind("gene")
		oddKind  = graph.StringKind("# odd kind ")
		savePath = filepath.Join(t.TempDir(), "metabolism.tsv")
	)

	// Declared node and arc types with no constraint survive the round trip
	schema.AddNodeType(gene)
	schema.AddNodeType(oddKind)
	schema.AddArcType(graph.StringKind("inhibits"))

	graphStore := store.New(schema, quietConfig)

	require.NoError(t, graphStore.NewNodeWithID(12, compound, graph.AsProperties(
		"name", "water",
		"note", "tab\there\nnewline and \\backslash",
		" padded ", "  # leading hash and spaces  ",
		"empty", "",
	)))

	require.NoError(t, graphStore.NewNodeWithID(3, reaction, graph.AsProperties("name", "hydrolysis")))
	require.NoError(t, graphStore.NewNodeWithID(40, gene, nil))
	require.NoError(t, graphStore.NewNodeWithID(41, oddKind, graph.AsProperties("#", "#")))

	_, err := graphStore.AddArc(12, isLeftOf, 3, graph.AsProperties("stoichiometry", "2", "comment", "\t#\t"))
	require.NoError(t, err)

	_, err = graphStore.AddArc(12, isRightOf, 3, nil)
	require.NoError(t, err)

	require.NoError(t, graphStore.Save(savePath))

	loaded, report, err := store.Open(savePath, quietConfig)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Equal(t, 4, report.Nodes)
	require.Equal(t, 2, report.Arcs)
	require.Equal(t, 4, report.Constraints)

	require.Equal(t, nodeTuples(graphStore), nodeTuples(loaded))
	require.Equal(t, arcTuples(graphStore), arcTuples(loaded))
	require.Equal(t, graphStore.Policy().String(), loaded.Policy().String())
	require.True(t, loaded.Policy().IsNodeType(gene))
	require.True(t, loaded.Policy().IsNodeType(oddKind))
	require.True(t, loaded.Policy().IsArcType(graph.StringKind("inhibits")))

	expectedHash, err := graphStore.Hash()
	require.NoError(t, err)

	loadedHash, err := loaded.Hash()
	require.NoError(t, err)
	require.Equal(t, expectedHash, loadedHash)

	// Saving again over the existing file leaves no temporary files behind
	require.NoError(t, loaded.Save(savePath))

	entries, err := os.ReadDir(filepath.Dir(savePath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSaveUnrepresentable(t *testing.T) {
	var (
		graphStore = store.New(metabolismPolicy(), quietConfig)
		savePath   = filepath.Join(t.TempDir(), "broken.tsv")
	)

	_, err := graphStore.NewNode(compound, graph.Properties{"": "nameless"})
	require.NoError(t, err)

	require.ErrorIs(t, graphStore.Save(savePath), format.ErrUnrepresentable)

	entries, err := os.ReadDir(filepath.Dir(savePath))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestReadPartialSuccess(t *testing.T) {
	var (
		logs   bytes.Buffer
		config = store.Config{
			Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		}
		document = strings.Join([]string{
			"stray",
			"# sections may appear in any order",
			"Relations",
			"0\tis left of\t1",
			"1\tis left of\t0",
			"0\tis left of\t7",
			"",
			"Nodes",
			"compound\t0\tname\twater",
			"reaction\t1",
			"gene\t2",
			"compound\tx",
			"compound",
			"compound\t3\tname",
			"Policy",
			"compound\tis left of\treaction",
			"bad\tline",
		}, "\n")
	)

	graphStore, report, err := store.Read(strings.NewReader(document), config)
	require.NoError(t, err)

	require.Equal(t, 1, report.Constraints)
	require.Equal(t, 2, report.Nodes)
	require.Equal(t, 1, report.Arcs)
	require.Equal(t, 2, graphStore.NumNodes())
	require.Equal(t, 1, graphStore.NumArcs())
	require.True(t, graphStore.HasArcTo(0, isLeftOf, 1))

	require.Equal(t, 8, report.NumRejected())

	for idx, expected := range []error{
		format.ErrNoSection,
		format.ErrMissingField,
		graph.ErrUnknownType,
		format.ErrInvalidID,
		format.ErrMissingField,
		format.ErrIncompleteProperty,
		graph.ErrPolicyViolation,
		graph.ErrNodeNotFound,
	} {
		require.ErrorIs(t, report.Rejected[idx], expected, "rejection %d", idx)
	}

	require.Contains(t, report.Rejected[2].Error(), "line 11: ")
	require.Contains(t, report.Rejected[6].Error(), "line 5: ")
	require.ErrorIs(t, report.Err(), graph.ErrNodeNotFound)

	assert.Contains(t, logs.String(), "Ignoring line outside of any section")
	assert.Contains(t, logs.String(), "Ignoring malformed policy line")
	assert.Contains(t, logs.String(), "Ignoring node line")
	assert.Contains(t, logs.String(), "line=11")
	assert.Contains(t, logs.String(), "Ignoring relation line")
	assert.Contains(t, logs.String(), "line=6")
}

func TestReadEmpty(t *testing.T) {
	graphStore, report, err := store.Read(strings.NewReader(""), quietConfig)
	require.NoError(t, err)
	require.Zero(t, report.NumRejected())
	require.NoError(t, report.Err())
	require.Equal(t, 0, graphStore.NumNodes())
	require.Equal(t, 0, graphStore.Policy().NumConstraints())
}

func TestReadUnreadable(t *testing.T) {
	_, _, err := store.Read(failingReader{}, quietConfig)
	require.Error(t, err)

	_, _, err = store.Open(filepath.Join(t.TempDir(), "missing.tsv"), quietConfig)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSaveKeepsFileMode(t *testing.T) {
	var (
		graphStore, _ = glycolysis(t)
		directory     = t.TempDir()
		existingPath  = filepath.Join(directory, "shared.tsv")
		newPath       = filepath.Join(directory, "new.tsv")
	)

	require.NoError(t, os.WriteFile(existingPath, []byte("Policy\n"), 0o640))
	require.NoError(t, os.Chmod(existingPath, 0o640))
	require.NoError(t, graphStore.Save(existingPath))

	info, err := os.Stat(existingPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	require.NoError(t, graphStore.Save(newPath))

	info, err = os.Stat(newPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
