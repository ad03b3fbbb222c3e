package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/refpage"
)

// RefpagesCmd works with the reference pages of the specification
var RefpagesCmd = &cobra.Command{
	Use:   "refpages",
	Short: "List reference pages and write the page manifest",
	Long: `Reference pages are the [open,refpage=...] blocks of the specification
sources in a Vulkan-Docs checkout (chapters/ and appendices/). Each one becomes
a page named after its refpage attribute.

Examples:
  vkdoc refpages list                  # Pages in source.dir
  vkdoc refpages list ../Vulkan-Docs --json
  vkdoc refpages manifest              # Write docs.dir/index.json`,
}

var refpagesListCmd = &cobra.Command{
	Use:   "list [checkout]",
	Short: "List the reference pages of a checkout",
	Long: `Parse every .adoc file under chapters/ and appendices/ of checkout
(default source.dir) and list the reference pages in source order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefpagesList,
}

var refpagesManifestCmd = &cobra.Command{
	Use:   "manifest [dir]",
	Short: "Write index.json describing the converted pages",
	Long: `Read the front-matter of every page directly inside dir (default docs.dir)
and write dir/index.json with the id, parent list and type of each page.
Every page title must equal its file name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefpagesManifest,
}

func init() {
	RefpagesCmd.AddCommand(refpagesListCmd)
	RefpagesCmd.AddCommand(refpagesManifestCmd)
}

func runRefpagesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	root := argOr(args, cfg.Source.Dir)
	pages, err := refpage.Discover(root, logger.ComponentLogger("refpage"))
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		if pages == nil {
			pages = []refpage.Refpage{}
		}
		return display.WriteJSON(cmd.OutOrStdout(), pages)
	}
	newOutput(cmd, cmd.OutOrStdout()).Refpages(root, pages)
	return nil
}

func runRefpagesManifest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := argOr(args, cfg.Docs.Dir)
	entries, err := refpage.BuildManifest(dir, cfg.Docs.Extension)
	if err != nil {
		return err
	}
	path, err := refpage.WriteManifest(dir, entries)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		if entries == nil {
			entries = []refpage.Entry{}
		}
		return display.WriteJSON(cmd.OutOrStdout(), entries)
	}
	newOutput(cmd, cmd.OutOrStdout()).Manifest(path, len(entries))
	return nil
}
