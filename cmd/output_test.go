package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeJSON(path, map[string]int{"n": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 1}`, string(data))
}

func TestBatchOutputPath(t *testing.T) {
	batchOutputDir = ""
	assert.Equal(t, "projects/rail_analysis.json", batchOutputPath("projects/rail.yaml", "rail"))

	batchOutputDir = "/tmp/results"
	defer func() { batchOutputDir = "" }()
	assert.Equal(t, "/tmp/results/rail_analysis.json", batchOutputPath("projects/rail.yaml", "rail"))
}
