package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	vktest "github.com/teranos/vkdoc/internal/testing"
)

func TestIndexerBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vkCmdDraw.md"), []byte(commandPage), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untitled.md"), []byte("just text\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(commandPage), 0644))

	store := NewStore(vktest.CreateTestDB(t), nil)
	ix := NewIndexer(store, ".md", zaptest.NewLogger(t).Sugar())

	summary, err := ix.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 3, summary.Documents)
	assert.Equal(t, []string{filepath.Join(dir, "untitled.md")}, summary.Untitled)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	docs, err := store.Search(context.Background(), "non-indexed", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "vkCmdDraw-2", docs[0].ID)
	assert.Equal(t, []string{"VK_VERSION_1_0", "VK_EXT_debug_report"}, docs[0].Parents)
}

func TestIndexerMissingDir(t *testing.T) {
	ix := NewIndexer(NewStore(vktest.CreateTestDB(t), nil), "", nil)
	_, err := ix.Build(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
