package testing

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/registry/vkxml"
)

// SampleRegistryXML is a trimmed registry covering every type category,
// alias chains, extension offsets and a vulkansc-only profile.
//
//go:embed testdata/vk.xml
var SampleRegistryXML string

// LoadSampleRegistry parses SampleRegistryXML.
func LoadSampleRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := vkxml.Load(strings.NewReader(SampleRegistryXML))
	if err != nil {
		t.Fatalf("Failed to load sample registry: %v", err)
	}
	return reg
}

// CreateTestIndex builds an Index over the sample registry for the vulkan API.
func CreateTestIndex(t *testing.T) *registry.Index {
	t.Helper()

	idx, err := registry.Build(LoadSampleRegistry(t), registry.Options{API: "vulkan"})
	if err != nil {
		t.Fatalf("Failed to index sample registry: %v", err)
	}
	return idx
}

// WriteSampleRegistry writes SampleRegistryXML under a temporary directory and
// returns its path.
func WriteSampleRegistry(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vk.xml")
	if err := os.WriteFile(path, []byte(SampleRegistryXML), 0644); err != nil {
		t.Fatalf("Failed to write sample registry: %v", err)
	}
	return path
}
