// Package commands implements the vkdoc command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/am"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
)

// RootCmd is the vkdoc command
var RootCmd = &cobra.Command{
	Use:   "vkdoc",
	Short: "Vulkan reference page generator",
	Long: `vkdoc - Vulkan reference page generator

vkdoc reads the Vulkan API registry (vk.xml) and replaces generated-include
markers in converted reference pages with paired C and Rust declarations.

Examples:
  vkdoc fetch                               # Clone the Vulkan-Docs registry
  vkdoc convert dist/man                    # Substitute markers in every page
  vkdoc convert dist/man --watch            # Reconvert pages as they change
  vkdoc render structs VkExtent2D           # Print one rendered block
  vkdoc inspect vkCmdDraw                   # Show kind, owners and aliases
  vkdoc index && vkdoc search VkExtent2D    # Build and query the search index
  vkdoc refpages manifest                   # Write index.json for the pages`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := verbosity(cmd)
		jsonLogs, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonLogs, v); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Debugw("logger initialized", "verbosity", logger.LevelName(v), "command", cmd.CommandPath())
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv, -vvvv)")
	RootCmd.PersistentFlags().String("config", "", "Config file (default: the am.toml cascade)")
	RootCmd.PersistentFlags().Bool("json", false, "Output results and logs as JSON")

	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(ConvertCmd)
	RootCmd.AddCommand(FetchCmd)
	RootCmd.AddCommand(IndexCmd)
	RootCmd.AddCommand(InspectCmd)
	RootCmd.AddCommand(RefpagesCmd)
	RootCmd.AddCommand(RenderCmd)
	RootCmd.AddCommand(SearchCmd)
	RootCmd.AddCommand(VersionCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig returns the file named by --config, or the merged configuration cascade
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *am.Config
		err error
	)
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetTheme(cfg.GetLogTheme())

	sources := am.ConfigPaths()
	if path != "" {
		sources = []string{path}
	}
	newOutput(cmd, cmd.ErrOrStderr()).ConfigSources(sources)
	return cfg, nil
}
