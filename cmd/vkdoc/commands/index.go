package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/am"
	"github.com/teranos/vkdoc/db"
	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/search"
)

// IndexCmd rebuilds the search database from converted pages
var IndexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Build the search index from converted pages",
	Long: `Split every page under dir into blocks and store them in the search database
(search.path). The previous index is replaced. dir defaults to docs.dir.

Pages without a title are reported and left out.

Examples:
  vkdoc index
  vkdoc index dist/man --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

// SearchCmd queries the search database
var SearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed pages",
	Long: `Find indexed blocks whose page title or content contains query.
Title matches are listed first.

Examples:
  vkdoc search VkExtent2D
  vkdoc search "render pass" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	SearchCmd.Flags().Int("limit", search.DefaultLimit, "Maximum number of results")
}

// openStore opens and migrates the configured search database
func openStore(cmd *cobra.Command, cfg *am.Config) (*search.Store, func() error, error) {
	log := logger.ComponentLogger("search")
	path := cfg.Search.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := mkdirAll(dir); err != nil {
			return nil, nil, err
		}
	}
	database, err := db.OpenWithMigrations(path, log)
	if err != nil {
		return nil, nil, err
	}
	trace := logger.ShouldOutput(verbosity(cmd), logger.OutputSQLQueries)
	return search.NewStore(database, log, search.WithSQLTrace(trace)), database.Close, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	indexer := search.NewIndexer(store, cfg.Docs.Extension, logger.ComponentLogger("search"))
	summary, err := indexer.Build(cmd.Context(), argOr(args, cfg.Docs.Dir))
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), summary)
	}
	newOutput(cmd, cmd.OutOrStdout()).Index(summary, cfg.Search.Path)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeDB, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	limit, _ := cmd.Flags().GetInt("limit")
	docs, err := store.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		if docs == nil {
			docs = []search.Document{}
		}
		return display.WriteJSON(cmd.OutOrStdout(), docs)
	}
	newOutput(cmd, cmd.OutOrStdout()).Results(args[0], docs)
	return nil
}
