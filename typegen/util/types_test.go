package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testConfig = &TypeConverterConfig{
	TypeMapping: map[string]string{"char": "c_char", "void": "c_void", "float": "f32"},
	Prefix:      "Vk",
	Namespace:   "vk::",
	ConstPrefix: "VK_",
	PointerFormat: func(pointee string, constPointee bool) string {
		if constPointee {
			return "*const " + pointee
		}
		return "*mut " + pointee
	},
	ArrayFormat: func(elem, length string) string { return fmt.Sprintf("[%s; %s]", elem, length) },
}

func TestParseCType(t *testing.T) {
	tests := []struct {
		raw      string
		base     string
		isConst  bool
		pointees []bool
	}{
		{"uint32_t", "uint32_t", false, nil},
		{"const void*", "void", true, []bool{true}},
		{"void*", "void", false, []bool{false}},
		{"const char* const*", "char", true, []bool{true, true}},
		{"char**", "char", false, []bool{false, false}},
		{"struct VkBaseOutStructure*", "VkBaseOutStructure", false, []bool{false}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ct := ParseCType(tt.raw, nil)
			assert.Equal(t, tt.base, ct.Base)
			assert.Equal(t, tt.isConst, ct.Const)
			assert.Equal(t, tt.pointees, ct.Pointees)
		})
	}
}

func TestConvertRaw(t *testing.T) {
	tests := []struct {
		raw      string
		dims     []string
		expected string
	}{
		{"const void*", nil, "*const c_void"},
		{"const char* const*", nil, "*const *const c_char"},
		{"VkInstance*", nil, "*mut vk::Instance"},
		{"VkStructureType", nil, "vk::StructureType"},
		{"float", []string{"3", "4"}, "[[f32; 4]; 3]"},
		{"char", []string{"VK_MAX_PHYSICAL_DEVICE_NAME_SIZE"}, "[c_char; vk::MAX_PHYSICAL_DEVICE_NAME_SIZE]"},
		{"Display", nil, "Display"},
		{"Vk", nil, "Vk"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertRaw(tt.raw, tt.dims, testConfig))
		})
	}
}
