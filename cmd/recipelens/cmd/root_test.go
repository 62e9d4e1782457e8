package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoC-dev/recipelens/internal/extract"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["extract"])
	assert.True(t, names["pdf"])
	assert.True(t, names["serve"])
}

func TestGlobalFlags(t *testing.T) {
	for _, flag := range []string{"config", "verbose", "log-level", "language", "recognizer-url", "version"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestParseField(t *testing.T) {
	field, err := parseField("ingredients")
	require.NoError(t, err)
	assert.Equal(t, extract.FieldIngredients, field)

	_, err = parseField("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestWriteResult(t *testing.T) {
	dir := t.TempDir()
	title := "Tart"
	result := extractResult{Field: "title", Patch: extract.Patch{Title: &title}}

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(dir, "out.json")
		require.NoError(t, writeResult(result, "json", path))

		data, err := os.ReadFile(path) //nolint:gosec // test temp dir
		require.NoError(t, err)
		var got extractResult
		require.NoError(t, json.Unmarshal(data, &got))
		require.NotNil(t, got.Patch.Title)
		assert.Equal(t, "Tart", *got.Patch.Title)
	})

	t.Run("yaml to file", func(t *testing.T) {
		path := filepath.Join(dir, "out.yaml")
		require.NoError(t, writeResult(result, "yaml", path))
		data, err := os.ReadFile(path) //nolint:gosec // test temp dir
		require.NoError(t, err)
		assert.Contains(t, string(data), "field: title")
	})

	t.Run("unknown format", func(t *testing.T) {
		err := writeResult(result, "csv", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})
}
