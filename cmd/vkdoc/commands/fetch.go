package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/source"
)

// FetchCmd clones the registry source
var FetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Clone the Vulkan-Docs registry source",
	Long: `Clone source.url at source.ref into source.dir. An existing checkout is
reused as is.

Examples:
  vkdoc fetch
  vkdoc fetch --ref v1.3.290 --depth 0`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	FetchCmd.Flags().String("url", "", "Repository URL (default: source.url)")
	FetchCmd.Flags().String("ref", "", "Branch to check out (default: source.ref)")
	FetchCmd.Flags().String("dir", "", "Checkout directory (default: source.dir)")
	FetchCmd.Flags().Int("depth", 0, "Clone depth, 0 for full history (default: source.depth)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := source.Options{
		URL:   cfg.Source.URL,
		Ref:   cfg.Source.Ref,
		Dir:   cfg.Source.Dir,
		Depth: cfg.Source.Depth,
	}
	if v, _ := cmd.Flags().GetString("url"); v != "" {
		opts.URL = v
	}
	if v, _ := cmd.Flags().GetString("ref"); v != "" {
		opts.Ref = v
	}
	if v, _ := cmd.Flags().GetString("dir"); v != "" {
		opts.Dir = v
	}
	if cmd.Flags().Changed("depth") {
		opts.Depth, _ = cmd.Flags().GetInt("depth")
	}

	checkout, err := source.Fetch(cmd.Context(), opts, logger.ComponentLogger("source"))
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), checkout)
	}
	newOutput(cmd, cmd.OutOrStdout()).Checkout(checkout)
	return nil
}
