// Package am loads vkdoc configuration.
//
// Sources, lowest to highest precedence: built-in defaults, /etc/vkdoc/config.toml,
// ~/.vkdoc/am.toml, the nearest am.toml or vkdoc.toml walking up from the working
// directory, then VKDOC_* environment variables.
package am

// Config represents the vkdoc configuration
type Config struct {
	Registry RegistryConfig `mapstructure:"registry" toml:"registry"`
	Source   SourceConfig   `mapstructure:"source" toml:"source"`
	Docs     DocsConfig     `mapstructure:"docs" toml:"docs"`
	Search   SearchConfig   `mapstructure:"search" toml:"search"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// RegistryConfig configures how vk.xml is read and indexed
type RegistryConfig struct {
	Path       string `mapstructure:"path" toml:"path"`               // vk.xml location
	API        string `mapstructure:"api" toml:"api"`                 // target API name, e.g. "vulkan"
	MaxVersion string `mapstructure:"max_version" toml:"max_version"` // semver; features above it are not recorded as owners
	ResultEnum string `mapstructure:"result_enum" toml:"result_enum"` // result-code enum whose variants fall back to the API prefix
	APIPrefix  string `mapstructure:"api_prefix" toml:"api_prefix"`   // type-name prefix, e.g. "Vk"

	// Extend the built-in vendor tag table with <tags> from the registry
	VendorTagsFromRegistry bool `mapstructure:"vendor_tags_from_registry" toml:"vendor_tags_from_registry"`
}

// SourceConfig configures the Vulkan-Docs checkout
type SourceConfig struct {
	URL   string `mapstructure:"url" toml:"url"`
	Ref   string `mapstructure:"ref" toml:"ref"`
	Dir   string `mapstructure:"dir" toml:"dir"`
	Depth int    `mapstructure:"depth" toml:"depth"` // 0 = full history
}

// DocsConfig configures the documentation pages to convert
type DocsConfig struct {
	Dir       string `mapstructure:"dir" toml:"dir"`
	Extension string `mapstructure:"extension" toml:"extension"`
	DryRun    bool   `mapstructure:"dry_run" toml:"dry_run"`
}

// SearchConfig configures the search index database
type SearchConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// LogConfig configures console logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Theme string `mapstructure:"theme" toml:"theme"` // everforest, gruvbox
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
