package am

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/vkdoc/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Registry.Path == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "registry.path cannot be empty")
	}
	if c.Registry.API == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "registry.api cannot be empty")
	}
	if c.Registry.MaxVersion != "" {
		if _, err := semver.NewVersion(c.Registry.MaxVersion); err != nil {
			return errors.WithHint(
				errors.Wrapf(errors.ErrInvalidConfig, "registry.max_version %q is not a version", c.Registry.MaxVersion),
				"use a version such as \"1.3\"")
		}
	}

	// Source depth: 0 = full clone, negative = invalid
	if c.Source.Depth < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "source.depth must be >= 0, got %d", c.Source.Depth)
	}

	if c.Docs.Extension != "" && !strings.HasPrefix(c.Docs.Extension, ".") {
		return errors.Wrapf(errors.ErrInvalidConfig, "docs.extension must start with '.', got %q", c.Docs.Extension)
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	return nil
}

// MaxVersion returns the parsed registry.max_version, or nil when unset
func (c *Config) MaxVersion() (*semver.Version, error) {
	if c.Registry.MaxVersion == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(c.Registry.MaxVersion)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "registry.max_version %q", c.Registry.MaxVersion)
	}
	return v, nil
}

// UnknownKeys decodes a config file strictly and returns keys that no Config field
// accepts. Viper ignores such keys, so a typo like "regsitry.path" would otherwise
// silently fall back to the default.
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}
