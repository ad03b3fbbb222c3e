package commands

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/am"
	"github.com/teranos/vkdoc/convert"
	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/registry/vkxml"
	"github.com/teranos/vkdoc/source"
	"github.com/teranos/vkdoc/typegen"
	"github.com/teranos/vkdoc/typegen/c"
	"github.com/teranos/vkdoc/typegen/ident"
	"github.com/teranos/vkdoc/typegen/rust"
)

// loadIndex reads the configured registry and indexes it for the configured API
func loadIndex(cmd *cobra.Command, cfg *am.Config) (*registry.Index, error) {
	log := logger.ComponentLogger("registry")
	maxVersion, err := cfg.MaxVersion()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reg, err := vkxml.LoadFile(cfg.Registry.Path)
	if err != nil {
		return nil, err
	}
	idx, err := registry.Build(reg, registry.Options{
		API:        cfg.Registry.API,
		MaxVersion: maxVersion,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	newOutput(cmd, cmd.ErrOrStderr()).Timing("Registry indexed", elapsed)

	stats := idx.Stats()
	fields := []interface{}{
		logger.FieldPath, cfg.Registry.Path,
		"types", stats.Types,
		"commands", stats.Commands,
		logger.FieldDurationMS, elapsed.Milliseconds(),
	}
	if checkout, err := source.Open(cfg.Source.Dir); err == nil {
		fields = append(fields, logger.FieldCommit, checkout.Commit)
	}
	log.Infow("registry indexed", fields...)
	return idx, nil
}

// newSynthesizer wires the normalizer and both printers to idx
func newSynthesizer(cfg *am.Config, idx *registry.Index) *typegen.Synthesizer {
	var opts []ident.Option
	if cfg.Registry.VendorTagsFromRegistry {
		opts = append(opts, ident.WithVendorTags(idx.Tags()...))
	}
	opts = append(opts,
		ident.WithResultEnum(cfg.Registry.ResultEnum),
		ident.WithAPITag(strings.ToUpper(cfg.Registry.APIPrefix)))

	return typegen.NewSynthesizer(idx, ident.New(opts...),
		typegen.WithPrinters(c.NewPrinter(), rust.NewPrinter(rust.WithAPIPrefix(cfg.Registry.APIPrefix))),
		typegen.WithLogger(logger.ComponentLogger("typegen")))
}

// newRunner builds the converter stack for the configured docs
func newRunner(cmd *cobra.Command, cfg *am.Config, dryRun bool) (*convert.Runner, error) {
	idx, err := loadIndex(cmd, cfg)
	if err != nil {
		return nil, err
	}
	log := logger.ComponentLogger("convert")
	conv := convert.New(newSynthesizer(cfg, idx), convert.WithLogger(log))
	return convert.NewRunner(conv, cfg.Docs.Extension, dryRun, log), nil
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// newOutput returns a display.Output honouring the -v count of cmd
func newOutput(cmd *cobra.Command, w io.Writer) *display.Output {
	return display.NewOutput(w).WithVerbosity(verbosity(cmd))
}

// argOr returns args[0] when given, else fallback
func argOr(args []string, fallback string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return fallback
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, am.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}
	return nil
}
