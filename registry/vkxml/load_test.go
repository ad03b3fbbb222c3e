package vkxml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/vkdoc/errors"
	vktest "github.com/teranos/vkdoc/internal/testing"
	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/registry/vkxml"
)

func findType(t *testing.T, reg *registry.Registry, name string) registry.Type {
	t.Helper()
	for _, typ := range reg.Types {
		if typ.Name == name {
			return typ
		}
	}
	t.Fatalf("type %s not loaded", name)
	return registry.Type{}
}

func findGroup(t *testing.T, reg *registry.Registry, name string) *registry.EnumGroup {
	t.Helper()
	for i := range reg.Enums {
		if reg.Enums[i].Name == name {
			return &reg.Enums[i]
		}
	}
	t.Fatalf("enum group %s not loaded", name)
	return nil
}

func TestLoadSections(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	assert.Len(t, reg.Tags, 4)
	assert.Equal(t, "NVX", reg.Tags[3].Name)
	assert.Len(t, reg.Features, 3)
	assert.Len(t, reg.Extensions, 4)
	assert.Equal(t, 315, reg.Extensions[2].Number)
	assert.Equal(t, "vulkan,vulkansc", reg.Features[0].API)
}

func TestLoadMembers(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	info := findType(t, reg, "VkInstanceCreateInfo")
	require.Len(t, info.Members, 5)

	pNext := info.Members[1]
	assert.Equal(t, "const void*", pNext.RawType)
	assert.Equal(t, "void", pNext.BaseType)
	assert.Equal(t, "pNext", pNext.Name)

	layers := info.Members[4]
	assert.Equal(t, "const char* const*", layers.RawType)
	assert.Equal(t, "Ordered list of layer names to be enabled", layers.TrailingComment)
	assert.Equal(t, "enabledLayerCount,null-terminated", layers.Len)

	props := findType(t, reg, "VkPhysicalDeviceProperties")
	assert.Equal(t, []string{"VK_MAX_PHYSICAL_DEVICE_NAME_SIZE"}, props.Members[1].Dims)
	assert.Equal(t, []string{"3", "4"}, props.Members[3].Dims)
	assert.Equal(t, "vulkansc", props.Members[4].API)

	instance := findType(t, reg, "VkAccelerationStructureInstanceKHR")
	require.Len(t, instance.Members, 4)
	assert.True(t, instance.Members[0].IsComment())
	assert.Equal(t, "24", instance.Members[1].Bitfield)
	assert.Equal(t, ":24", instance.Members[1].Suffix())
}

func TestLoadTextualBodies(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	flags := findType(t, reg, "VkAccessFlags")
	assert.Equal(t, registry.CategoryBitmask, flags.Category)
	assert.Equal(t, "typedef VkFlags VkAccessFlags;", flags.Code.Text())
	base, ok := flags.Code.First(registry.MarkupType)
	require.True(t, ok)
	assert.Equal(t, "VkFlags", base)

	handle := findType(t, reg, "VkSemaphore")
	assert.Equal(t, "VK_DEFINE_NON_DISPATCHABLE_HANDLE(VkSemaphore)", handle.Code.Text())
	assert.Equal(t, "VkDevice", handle.Parent)

	define := findType(t, reg, "VK_HEADER_VERSION")
	assert.Equal(t, registry.CategoryDefine, define.Category)
	assert.Contains(t, define.Code.Text(), "#define VK_HEADER_VERSION 290")

	alias := findType(t, reg, "VkAccessFlags2KHR")
	assert.True(t, alias.IsAlias())
	assert.Nil(t, alias.Code)
}

func TestLoadFuncPointers(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	legacy := findType(t, reg, "PFN_vkAllocationFunction")
	assert.Nil(t, legacy.Proto)
	assert.Contains(t, legacy.Code.Text(), "typedef void* (VKAPI_PTR *PFN_vkAllocationFunction)(")
	assert.Equal(t, 4, legacy.Code.Count(registry.MarkupType))

	modern := findType(t, reg, "PFN_vkDebugReportCallbackEXT")
	require.NotNil(t, modern.Proto)
	assert.Equal(t, "VkBool32", modern.Proto.RawType)
	assert.Equal(t, "PFN_vkDebugReportCallbackEXT", modern.Proto.Name)
	require.Len(t, modern.Params, 3)
	assert.Equal(t, "const char*", modern.Params[1].RawType)
}

func TestLoadFuncPointerNameInProto(t *testing.T) {
	xml := `<registry><types>
		<type category="funcpointer" requires="VkDebugUtilsMessengerCallbackDataEXT">
			<proto><type>VkBool32</type> (VKAPI_PTR *<name>PFN_vkDebugUtilsMessengerCallbackEXT</name>)</proto>
			<param><type>uint32_t</type> <name>messageTypes</name></param>
			<param><type>void</type>* <name>pUserData</name></param>
		</type>
	</types></registry>`

	reg, err := vkxml.Load(strings.NewReader(xml))
	require.NoError(t, err)
	require.Len(t, reg.Types, 1)

	fn := reg.Types[0]
	assert.Equal(t, "PFN_vkDebugUtilsMessengerCallbackEXT", fn.Name)
	assert.Equal(t, registry.CategoryFuncPointer, fn.Category)
	require.NotNil(t, fn.Proto)
	assert.Equal(t, "VkBool32", fn.Proto.RawType)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "void*", fn.Params[1].RawType)
}

func TestLoadEnums(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	constants := findGroup(t, reg, registry.ConstantsGroup)
	assert.Equal(t, registry.EnumGroupConstants, constants.Kind)
	variants := constants.Variants()
	require.Len(t, variants, 8)
	assert.Equal(t, registry.ValueAlias, variants[3].Kind)
	assert.Equal(t, "(~0U)", variants[5].Value)
	assert.Equal(t, "uint32_t", variants[5].Type)

	result := findGroup(t, reg, "VkResult")
	assert.Equal(t, registry.EnumGroupEnum, result.Kind)
	require.Len(t, result.Items, 6)
	assert.Equal(t, registry.ItemComment, result.Items[0].Kind)
	assert.Equal(t, "Return codes (positive values)", result.Items[0].Comment)
	assert.Equal(t, registry.ItemUnused, result.Items[5].Kind)
	assert.Equal(t, "-14", result.Items[5].Start)

	access2 := findGroup(t, reg, "VkAccessFlagBits2")
	assert.Equal(t, 64, access2.Width())
	assert.Equal(t, uint(32), access2.Variants()[2].Bitpos)
	assert.Equal(t, 32, findGroup(t, reg, "VkAccessFlagBits").Width())
}

func TestLoadRequireBlocks(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	debug := reg.Extensions[0]
	require.Len(t, debug.Requires, 1)
	enums := debug.Requires[0].Enums
	require.Len(t, enums, 4)

	assert.Equal(t, registry.ValueOffset, enums[1].Kind)
	assert.Equal(t, "VkStructureType", enums[1].Extends)
	assert.Equal(t, "aliased", enums[2].Deprecated)
	assert.True(t, enums[3].Negative)
	assert.Equal(t, 1, enums[3].Offset)

	core13 := reg.Features[1]
	assert.Equal(t, 315, core13.Requires[0].Enums[0].ExtNumber)
}

func TestLoadCommands(t *testing.T) {
	reg := vktest.LoadSampleRegistry(t)

	byName := make(map[string]registry.Command)
	for _, c := range reg.Commands {
		byName[c.Name] = c
	}

	create := byName["vkCreateInstance"]
	assert.Equal(t, "VkResult", create.Proto.RawType)
	require.Len(t, create.Params, 3)
	assert.Equal(t, "VkInstance*", create.Params[2].RawType)
	assert.Equal(t, "true", create.Params[1].Optional)

	draw := byName["vkCmdDraw"]
	assert.Equal(t, "primary,secondary", draw.CmdBufferLevel)
	assert.Equal(t, "inside", draw.RenderPass)
	assert.Equal(t, "action", draw.Tasks)

	alias := byName["vkCmdSetCullModeEXT"]
	assert.True(t, alias.IsAlias())
	assert.Equal(t, "vkCmdSetCullMode", alias.Alias)

	assert.Equal(t, "vulkansc", byName["vkGetFaultData"].API)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		sentinel error
	}{
		{
			name:     "no registry root",
			xml:      `<types/>`,
			sentinel: errors.ErrUnexpectedShape,
		},
		{
			name:     "unnamed type",
			xml:      `<registry><types><type category="struct"/></types></registry>`,
			sentinel: errors.ErrUnexpectedShape,
		},
		{
			name:     "bad bitwidth",
			xml:      `<registry><enums name="VkX" type="bitmask" bitwidth="12"/></registry>`,
			sentinel: errors.ErrUnexpectedShape,
		},
		{
			name:     "bad bitpos",
			xml:      `<registry><enums name="VkX" type="bitmask"><enum name="A" bitpos="x"/></enums></registry>`,
			sentinel: errors.ErrUnexpectedShape,
		},
		{
			name:     "command without proto",
			xml:      `<registry><commands><command name="vkX"><param/></command></commands></registry>`,
			sentinel: errors.ErrUnexpectedShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vkxml.Load(strings.NewReader(tt.xml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}

	_, err := vkxml.Load(strings.NewReader(`<registry><types>`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vk.xml")
	require.NoError(t, os.WriteFile(path, []byte(vktest.SampleRegistryXML), 0644))

	reg, err := vkxml.LoadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Types)

	_, err = vkxml.LoadFile(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.NotEmpty(t, errors.GetAllHints(err))
}
