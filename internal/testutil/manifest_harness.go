package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/internal/model"
)

// RunManifestParsingTest provides a standardized harness for testing the
// parsing of a node manifest. It encapsulates the boilerplate of setting up
// file maps and running the application loader. The HCL is expected to use
// "test" as the node type label.
// It returns the parsed node type and any error encountered during loading.
func RunManifestParsingTest(t *testing.T, manifestHCL string) (*model.NodeType, error) {
	t.Helper()

	const typeName = "test"

	files := map[string]string{
		"nodes/test.hcl": manifestHCL,
	}

	result := RunIntegrationTest(t, files)
	if result.Err != nil {
		return nil, result.Err
	}

	require.NotNil(t, result.App, "App should not be nil on successful load")
	nodeType, err := result.App.Catalog().Type(typeName)
	require.NoError(t, err, "Parsed node type '%s' not found in catalog", typeName)
	return nodeType, nil
}
