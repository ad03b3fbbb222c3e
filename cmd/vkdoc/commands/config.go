package commands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/vkdoc/am"
	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/errors"
)

// ConfigCmd manages vkdoc configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vkdoc configuration",
	Long: `Display and manage vkdoc configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (VKDOC_* prefix, e.g. VKDOC_REGISTRY_PATH)
3. Project config (./am.toml or ./vkdoc.toml, searching up directories)
4. User config (~/.vkdoc/am.toml)
5. System config (/etc/vkdoc/config.toml)
6. Default values

Examples:
  vkdoc config show                 # Show current configuration
  vkdoc config show --format yaml   # Show configuration as YAML
  vkdoc config init                 # Write ./am.toml with defaults
  vkdoc config validate             # Validate current configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the configuration merged from all sources",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Long: `Write the default configuration to path (default ./am.toml).
An existing file is only replaced with --force, and is kept as path.back1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long: `Validate the merged configuration, and report keys in the config files
that vkdoc does not recognize.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().Bool("force", false, "Replace an existing file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return display.WriteJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# vkdoc configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# vkdoc configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := argOr(args, "am.toml")
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(errors.Newf("%s already exists", path), "use --force to replace it")
	}

	if err := am.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	paths := am.ConfigPaths()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		paths = []string{path}
	}

	out := cmd.OutOrStdout()
	var unknown int
	for _, path := range paths {
		keys, err := am.UnknownKeys(path)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintf(out, "✗ %s: unknown key %s\n", path, key)
		}
		unknown += len(keys)
	}
	if unknown > 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "%d unknown keys", unknown)
	}

	fmt.Fprintln(out, "✓ Configuration is valid")
	return nil
}
