package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/vkdoc/errors"
	vktest "github.com/teranos/vkdoc/internal/testing"
	"github.com/teranos/vkdoc/registry"
)

func TestResolveCommand(t *testing.T) {
	idx := vktest.CreateTestIndex(t)

	res, err := idx.ResolveCommand("vkCmdSetCullModeEXT")
	require.NoError(t, err)
	assert.Equal(t, "vkCmdSetCullModeEXT", res.Requested)
	assert.Equal(t, "vkCmdSetCullMode", res.Definition.Name)
	assert.Equal(t, "both", res.Definition.RenderPass)
	assert.Equal(t, 1, res.Hops())

	res, err = idx.ResolveCommand("vkCmdDraw")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Hops())
	assert.Same(t, mustCommand(t, idx, "vkCmdDraw"), res.Definition)
}

func mustCommand(t *testing.T, idx *registry.Index, name string) *registry.Command {
	t.Helper()
	c, err := idx.Command(name)
	require.NoError(t, err)
	return c
}

func TestResolveType(t *testing.T) {
	idx := vktest.CreateTestIndex(t)

	res, err := idx.ResolveType("VkAccessFlagBits2KHR")
	require.NoError(t, err)
	assert.Equal(t, "VkAccessFlagBits2", res.Definition.Name)
	assert.Equal(t, []string{"VkAccessFlagBits2KHR", "VkAccessFlagBits2"}, res.Chain)

	_, err = idx.ResolveType("VkLoopA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCycleDetected))
	assert.Contains(t, err.Error(), "VkLoopA -> VkLoopB -> VkLoopA")

	_, err = idx.ResolveType("VkMissing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestResolveChain(t *testing.T) {
	reg := &registry.Registry{Types: []registry.Type{
		{Name: "VkC", Category: registry.CategoryStruct},
		{Name: "VkB", Alias: "VkC"},
		{Name: "VkA", Alias: "VkB"},
		{Name: "VkDangling", Alias: "VkGone"},
	}}
	idx, err := registry.Build(reg, registry.Options{})
	require.NoError(t, err)

	res, err := idx.ResolveType("VkA")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Hops())
	assert.Equal(t, "VkA", res.Requested)
	assert.Equal(t, "VkC", res.Definition.Name)

	_, err = idx.ResolveType("VkDangling")
	require.Error(t, err)
	var symErr *registry.SymbolError
	require.True(t, errors.As(err, &symErr))
	assert.Equal(t, "VkGone", symErr.Name)
}

func TestResolveConstant(t *testing.T) {
	idx := vktest.CreateTestIndex(t)

	res, err := idx.ResolveConstant("VK_LUID_SIZE_KHR")
	require.NoError(t, err)
	assert.Equal(t, "VK_LUID_SIZE", res.Definition.Name)
	assert.Equal(t, "8", res.Definition.Value)

	res, err = idx.ResolveConstant("VK_WHOLE_SIZE")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Hops())
}
