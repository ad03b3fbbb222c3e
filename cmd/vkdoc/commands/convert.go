package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/convert"
	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
)

// ConvertCmd substitutes generated-include markers in every page under a directory
var ConvertCmd = &cobra.Command{
	Use:   "convert [dir]",
	Short: "Substitute generated-include markers in reference pages",
	Long: `Replace every [{generated}/api/<category>/<name>.adoc] marker under dir with a
C and Rust code group, and add command attributes and parent owners to each
page's front-matter. dir defaults to docs.dir.

Markers with an unrecognized path are left in place and reported as skipped.
A marker naming a symbol missing from the registry stops the run.

Examples:
  vkdoc convert                      # Convert docs.dir
  vkdoc convert dist/man --dry-run   # Report what would change
  vkdoc convert --watch              # Convert, then reconvert pages on change`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	ConvertCmd.Flags().Bool("dry-run", false, "Report changes without writing pages")
	ConvertCmd.Flags().BoolP("watch", "w", false, "Keep running and reconvert pages when they change")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !cmd.Flags().Changed("dry-run") {
		dryRun = cfg.Docs.DryRun
	}
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && dryRun {
		return errors.WithHint(errors.New("--watch cannot be combined with --dry-run"),
			"drop --dry-run, or run a single dry conversion first")
	}

	runner, err := newRunner(cmd, cfg, dryRun)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := argOr(args, cfg.Docs.Dir)
	summary, err := runner.Run(ctx, dir)
	if err != nil {
		return err
	}

	useJSON := display.ShouldOutputJSON(cmd)
	if useJSON {
		if err := display.WriteJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	} else {
		newOutput(cmd, cmd.OutOrStdout()).Convert(summary)
	}

	if !watch {
		return nil
	}
	return watchPages(ctx, cmd, runner, dir, useJSON)
}

// watchPages reconverts pages under dir as they change until ctx is done
func watchPages(ctx context.Context, cmd *cobra.Command, runner *convert.Runner, dir string, useJSON bool) error {
	log := logger.ComponentLogger("watch")
	out := newOutput(cmd, cmd.OutOrStdout())

	w, err := convert.NewWatcher(runner, dir, func(page *convert.PageResult, err error) {
		if err != nil {
			log.Errorw("reconversion failed", logger.FieldError, err)
			return
		}
		if useJSON {
			if err := display.WriteJSON(cmd.OutOrStdout(), page); err != nil {
				log.Warnw("failed to print page result", logger.FieldError, err)
			}
			return
		}
		out.Page(page)
	})
	if err != nil {
		return err
	}
	w.Start()
	log.Infow("watching for changes", logger.FieldPath, dir)

	<-ctx.Done()
	return w.Stop()
}
