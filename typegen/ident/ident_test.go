package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/vkdoc/errors"
)

func TestNormalize(t *testing.T) {
	n := New()

	tests := []struct {
		group    string
		variant  string
		expected string
	}{
		// vendor tag on both group and variant
		{"VkSampleCountFlagBitsEXT", "VK_SAMPLE_COUNT_1_BIT_EXT", "TYPE_1"},
		{"VkSampleCountFlagBits", "VK_SAMPLE_COUNT_1_BIT", "TYPE_1"},
		{"VkSampleCountFlagBits", "VK_SAMPLE_COUNT_64_BIT", "TYPE_64"},
		{"VkAccessFlagBits", "VK_ACCESS_INDIRECT_COMMAND_READ_BIT", "INDIRECT_COMMAND_READ"},
		// vendor tag only on the variant: _BIT removal works mid-string
		{"VkAccessFlagBits", "VK_ACCESS_TRANSFORM_FEEDBACK_WRITE_BIT_EXT", "TRANSFORM_FEEDBACK_WRITE_EXT"},
		// versioned group names gain an underscore before the digits
		{"VkAccessFlagBits2", "VK_ACCESS_2_NONE", "NONE"},
		{"VkAccessFlagBits2", "VK_ACCESS_2_SHADER_SAMPLED_READ_BIT", "SHADER_SAMPLED_READ"},
		{"VkPipelineCreateFlagBits2KHR", "VK_PIPELINE_CREATE_2_DISABLE_OPTIMIZATION_BIT_KHR", "DISABLE_OPTIMIZATION"},
		// plain enums
		{"VkStructureType", "VK_STRUCTURE_TYPE_APPLICATION_INFO", "APPLICATION_INFO"},
		{"VkStructureType", "VK_STRUCTURE_TYPE_MEMORY_BARRIER_2_KHR", "MEMORY_BARRIER_2_KHR"},
		{"VkImageType", "VK_IMAGE_TYPE_2D", "TYPE_2D"},
		{"VkGeometryInstanceFlagBitsKHR", "VK_GEOMETRY_INSTANCE_TRIANGLE_FACING_CULL_DISABLE_BIT_KHR", "TRIANGLE_FACING_CULL_DISABLE"},
		{"VkGeometryInstanceFlagBitsKHR", "VK_GEOMETRY_INSTANCE_TRIANGLE_CULL_DISABLE_BIT_NV", "TRIANGLE_CULL_DISABLE_NV"},
		// lower-case input is upper-cased first
		{"VkStructureType", "vk_structure_type_application_info", "APPLICATION_INFO"},
		// result codes fall back to the API tag
		{"VkResult", "VK_SUCCESS", "SUCCESS"},
		{"VkResult", "VK_ERROR_OUT_OF_HOST_MEMORY", "ERROR_OUT_OF_HOST_MEMORY"},
		{"VkResult", "VK_ERROR_VALIDATION_FAILED_EXT", "ERROR_VALIDATION_FAILED_EXT"},
		{"VkResult", "VK_RESULT_MAX_ENUM", "MAX_ENUM"},
	}

	for _, tt := range tests {
		t.Run(tt.group+"/"+tt.variant, func(t *testing.T) {
			got, err := n.Normalize(tt.group, tt.variant)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeNeverStartsWithDigit(t *testing.T) {
	n := New()
	for _, variant := range []string{"VK_SAMPLE_COUNT_1_BIT", "VK_SAMPLE_COUNT_2_BIT", "VK_SAMPLE_COUNT_32_BIT_EXT"} {
		got, err := n.Normalize("VkSampleCountFlagBits", variant)
		require.NoError(t, err)
		assert.NotContains(t, "0123456789", got[:1])
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New()
	first, err := n.Normalize("VkSampleCountFlagBitsEXT", "VK_SAMPLE_COUNT_1_BIT_EXT")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := n.Normalize("VkSampleCountFlagBitsEXT", "VK_SAMPLE_COUNT_1_BIT_EXT")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNormalizeLongestVendorSuffix(t *testing.T) {
	// "_X" is a suffix of "_VENDOR_X"; the longer tag must win regardless of order
	n := New(WithVendorTags("_X", "_VENDOR_X"))

	assert.Equal(t, "_VENDOR_X", n.VendorTag("VK_THING_VENDOR_X"))

	got, err := n.Normalize("VkThingFlagBitsVendorX", "VK_THING_FAST_BIT_VENDOR_X")
	require.NoError(t, err)
	assert.Equal(t, "FAST", got)
}

func TestNormalizeErrors(t *testing.T) {
	n := New()

	tests := []struct {
		name    string
		group   string
		variant string
	}{
		{"wrong group prefix", "VkAccessFlagBits", "VK_SHADER_STAGE_VERTEX_BIT"},
		{"stem without separator", "VkAccessFlagBits", "VK_ACCESSOR_READ"},
		{"variant equals stem", "VkStructureType", "VK_STRUCTURE_TYPE"},
		{"result code without api tag", "VkResult", "SUCCESS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.group, tt.variant)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUnresolvableIdentifier))
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestVendorTags(t *testing.T) {
	n := New(WithVendorTags("khr", " NVX ", "", "_AMD", "QCOM"))

	tags := n.Tags()
	assert.Len(t, tags, len(DefaultVendorTags))
	for i := 1; i < len(tags); i++ {
		assert.GreaterOrEqual(t, len(tags[i-1]), len(tags[i]))
	}

	assert.Equal(t, "_NVX", n.VendorTag("VK_FOO_NVX"))
	assert.Equal(t, "_NV", n.VendorTag("VK_FOO_NV"))
	assert.Equal(t, "", n.VendorTag("VK_FOO"))
}

func TestResultEnumOption(t *testing.T) {
	n := New(WithResultEnum("XrResult"), WithAPITag("XR"))

	got, err := n.Normalize("XrResult", "XR_SUCCESS")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", got)

	_, err = n.Normalize("VkResult", "VK_SUCCESS")
	assert.Error(t, err)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "VK_SAMPLE_COUNT_EXT", Stem("VkSampleCountFlagBitsEXT"))
	assert.Equal(t, "VK_ACCESS2", Stem("VkAccessFlagBits2"))
	assert.Equal(t, "VK_RESULT", Stem("VkResult"))
}
