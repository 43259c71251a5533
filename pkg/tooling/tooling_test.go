package tooling

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteWorkflowFromYAML(t *testing.T) {
	require.NoError(t, Initialize(InitOptions{SuppressLog: true, Dumper: "rarenight"}))
	assert.Equal(t, "rarenight", Settings().Dumper)

	path := filepath.Join(t.TempDir(), "full.xci")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0644))

	result, err := ExecuteWorkflowFromYAML(context.Background(), fmt.Sprintf(`
name: classify
steps:
  - name: classify image
    type: classify
    input: %q
`, path))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "FullXCI", result.Variables["kind"])
}

func TestExecuteWorkflowRejectsInvalidWorkflow(t *testing.T) {
	require.NoError(t, Initialize(InitOptions{SuppressLog: true}))

	result, err := ExecuteWorkflowFromYAML(context.Background(), `
name: broken
steps:
  - name: nothing
    type: teleport
`)
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "invalid type 'teleport'")
}
