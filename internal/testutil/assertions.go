package testutil

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/workflow"
)

// AssertStoredValue checks the live field store within a HarnessResult to
// confirm that a slot holds the expected value after the run.
func AssertStoredValue(t *testing.T, result *HarnessResult, node, field string, want fieldval.Value) {
	t.Helper()

	require.NotNil(t, result.App, "cannot read the store of a run that never built an app")
	ref := fieldref.New(node, field)
	got, err := result.App.Session().Store().Get(context.Background(), ref)
	require.NoError(t, err, "field slot '%s' was not found in the store", ref)
	require.Equal(t, want, got, "field slot '%s' holds the wrong value", ref)
}

// AssertExportedField reads the exported workflow document back from disk
// and confirms one field of one node serialized to the expected JSON. It
// abstracts the document layout, making tests resilient to formatting
// changes in the export path.
func AssertExportedField(t *testing.T, result *HarnessResult, nodeID, field, wantJSON string) {
	t.Helper()

	data, err := os.ReadFile(result.ExportPath)
	require.NoError(t, err, "exported workflow document could not be read")

	var doc workflow.Document
	require.NoError(t, json.Unmarshal(data, &doc), "exported workflow document is not valid JSON")

	for _, node := range doc.Nodes {
		if node.ID != nodeID {
			continue
		}
		raw, ok := node.Fields[field]
		require.True(t, ok, "exported node '%s' has no field '%s'", nodeID, field)
		require.JSONEq(t, wantJSON, string(raw))
		return
	}
	t.Fatalf("exported workflow document has no node with id '%s'", nodeID)
}
