package tinygraph_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specterops/tinygraph"
	"github.com/specterops/tinygraph/graph"
	"github.com/specterops/tinygraph/policy"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	var (
		compound = graph.StringKind("compound")
		reaction = graph.StringKind("reaction")
		isLeftOf = graph.StringKind("is left of")
		schema   = policy.New()
		config   = tinygraph.Config{
			Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		}
		savePath = filepath.Join(t.TempDir(), "graph.tsv")
	)

	schema.AddConstraint(compound, isLeftOf, reaction)

	var db tinygraph.Database = tinygraph.New(schema, config)

	water, err := db.NewNode(compound, graph.AsProperties("name", "water"))
	require.NoError(t, err)

	hydrolysis, err := db.NewNode(reaction, nil)
	require.NoError(t, err)

	_, err = db.AddArc(water, isLeftOf, hydrolysis, nil)
	require.NoError(t, err)
	require.NoError(t, db.Save(savePath))

	loaded, report, err := tinygraph.Open(savePath, config)
	require.NoError(t, err)
	require.Zero(t, report.NumRejected())
	require.True(t, loaded.HasArcTo(water, isLeftOf, hydrolysis))

	var output bytes.Buffer
	require.NoError(t, loaded.Encode(&output))

	reread, _, err := tinygraph.Read(strings.NewReader(output.String()), config)
	require.NoError(t, err)
	require.Equal(t, 2, reread.NumNodes())
}
