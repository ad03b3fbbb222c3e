package refpage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/vkdoc/errors"
)

func TestBuildManifest(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"vkCmdDraw.md":       "---\nparent: VK_VERSION_1_0,VK_EXT_debug_report\ntitle: vkCmdDraw\ntype: protos\n---\n",
		"VkExtent2D.md":      "---\ntitle: VkExtent2D\ntype: structs\n---\n",
		"vkCmdDraw.json":     "{}",
		"nested/VkRect2D.md": "no header",
	})

	entries, err := BuildManifest(dir, ".md")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{ID: "VkExtent2D", Type: "structs"},
		{ID: "vkCmdDraw", Parent: []string{"VK_VERSION_1_0", "VK_EXT_debug_report"}, Type: "protos"},
	}, entries)

	path, err := WriteManifest(dir, entries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestName), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"id":"VkExtent2D","type":"structs"},{"id":"vkCmdDraw","parent":["VK_VERSION_1_0","VK_EXT_debug_report"],"type":"protos"}]`,
		string(data))
}

func TestBuildManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		contains string
	}{
		{"title differs from file name", "---\ntitle: vkCmdDrawIndexed\n---\n", `title "vkCmdDrawIndexed" does not match`},
		{"missing title", "---\ntype: protos\n---\n", `title "" does not match`},
		{"no header", "# vkCmdDraw\n", "has no front-matter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, map[string]string{"vkCmdDraw.md": tt.page})
			_, err := BuildManifest(dir, ".md")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUnexpectedShape))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestBuildManifestMissingDir(t *testing.T) {
	_, err := BuildManifest(filepath.Join(t.TempDir(), "absent"), ".md")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestWriteManifestEmpty(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteManifest(dir, nil)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
