package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values, shared by SetDefaults and DefaultConfig
const (
	DefaultRegistryPath = "Vulkan-Docs/xml/vk.xml"
	DefaultAPI          = "vulkan"
	DefaultResultEnum   = "VkResult"
	DefaultAPIPrefix    = "Vk"
	DefaultSourceURL    = "https://github.com/KhronosGroup/Vulkan-Docs.git"
	DefaultSourceRef    = "main"
	DefaultSourceDir    = "Vulkan-Docs"
	DefaultDocsDir      = "dist/man"
	DefaultDocsExt      = ".md"
	DefaultSearchPath   = "dist/search.db"
	DefaultLogTheme     = "everforest"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry.path", DefaultRegistryPath)
	v.SetDefault("registry.api", DefaultAPI)
	v.SetDefault("registry.max_version", "")
	v.SetDefault("registry.result_enum", DefaultResultEnum)
	v.SetDefault("registry.api_prefix", DefaultAPIPrefix)
	v.SetDefault("registry.vendor_tags_from_registry", true)

	v.SetDefault("source.url", DefaultSourceURL)
	v.SetDefault("source.ref", DefaultSourceRef)
	v.SetDefault("source.dir", DefaultSourceDir)
	v.SetDefault("source.depth", 1)

	v.SetDefault("docs.dir", DefaultDocsDir)
	v.SetDefault("docs.extension", DefaultDocsExt)
	v.SetDefault("docs.dry_run", false)

	v.SetDefault("search.path", DefaultSearchPath)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// DefaultConfig returns the configuration produced by defaults alone
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Path:                   DefaultRegistryPath,
			API:                    DefaultAPI,
			ResultEnum:             DefaultResultEnum,
			APIPrefix:              DefaultAPIPrefix,
			VendorTagsFromRegistry: true,
		},
		Source: SourceConfig{
			URL:   DefaultSourceURL,
			Ref:   DefaultSourceRef,
			Dir:   DefaultSourceDir,
			Depth: 1,
		},
		Docs:   DocsConfig{Dir: DefaultDocsDir, Extension: DefaultDocsExt},
		Search: SearchConfig{Path: DefaultSearchPath},
		Log:    LogConfig{Theme: DefaultLogTheme},
	}
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return DefaultLogTheme
	}
	return c.Log.Theme
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Registry: %s (api=%s), Docs: %s, Search: %s}",
		c.Registry.Path, c.Registry.API, c.Docs.Dir, c.Search.Path)
}
