package display

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/vkdoc/convert"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/refpage"
	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/search"
	"github.com/teranos/vkdoc/source"
)

// maxListed caps the per-page lines printed under a summary below trace verbosity
const maxListed = 10

// Output prints human-readable summaries
type Output struct {
	w         io.Writer
	verbosity int
	info      pterm.PrefixPrinter
	success   pterm.PrefixPrinter
	warning   pterm.PrefixPrinter
}

// NewOutput returns an Output writing to w, or stdout when w is nil
func NewOutput(w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{
		w:       w,
		info:    *pterm.Info.WithWriter(w),
		success: *pterm.Success.WithWriter(w),
		warning: *pterm.Warning.WithWriter(w),
	}
}

// WithVerbosity sets the -v count that gates optional output categories
func (o *Output) WithVerbosity(verbosity int) *Output {
	o.verbosity = verbosity
	return o
}

func (o *Output) shows(category logger.OutputCategory) bool {
	return logger.ShouldOutput(o.verbosity, category)
}

func (o *Output) listed(n int) int {
	if o.shows(logger.OutputDocuments) {
		return n
	}
	return min(n, maxListed)
}

func (o *Output) line(format string, args ...interface{}) {
	pterm.Fprintln(o.w, pterm.Sprintf(format, args...))
}

// Convert prints the outcome of a conversion run
func (o *Output) Convert(s *convert.RunSummary) {
	if s.DryRun {
		o.warning.Println("DRY RUN MODE: no pages were written")
	}
	verb := "converted"
	if s.DryRun {
		verb = "would change"
	}
	o.success.Printfln("%d of %d pages %s in %s", s.Changed, s.Documents, verb, s.Duration().Round(time.Millisecond))
	if o.shows(logger.OutputSummary) {
		o.line("  Unchanged:       %d", s.Unchanged)
		o.line("  Markers:         %d", s.Markers)
		o.line("  Skipped markers: %d", s.Skipped)
		if s.Untitled > 0 {
			o.line("  Untitled pages:  %d", s.Untitled)
		}
	}

	if len(s.Pages) == 0 {
		return
	}
	o.line("")
	shown := o.listed(len(s.Pages))
	o.info.Printfln("Pages (showing %d of %d):", shown, len(s.Pages))
	for _, p := range s.Pages[:shown] {
		o.line("  %s", o.pageLine(p))
	}
}

func (o *Output) pageLine(p convert.PageResult) string {
	var parts []string
	if p.Markers > 0 {
		parts = append(parts, pterm.Sprintf("%d markers", p.Markers))
	}
	if p.Entries > 0 {
		parts = append(parts, pterm.Sprintf("%d front-matter entries", p.Entries))
	}
	switch {
	case len(p.Skipped) > 0 && o.shows(logger.OutputMarkers):
		parts = append(parts, "skipped "+strings.Join(p.Skipped, ", "))
	case len(p.Skipped) > 0:
		parts = append(parts, pterm.Sprintf("%d skipped", len(p.Skipped)))
	}
	if len(parts) == 0 {
		return p.Path
	}
	return p.Path + " (" + strings.Join(parts, "; ") + ")"
}

// Page prints one page reconverted by the watcher
func (o *Output) Page(p *convert.PageResult) {
	if p == nil {
		return
	}
	if p.Changed {
		o.success.Println(o.pageLine(*p))
		return
	}
	if o.shows(logger.OutputProgress) {
		o.info.Printfln("%s unchanged", p.Path)
	}
}

// Timing prints how long a step took (-vv)
func (o *Output) Timing(step string, d time.Duration) {
	if o.shows(logger.OutputTiming) {
		o.info.Printfln("%s in %s", step, d.Round(time.Millisecond))
	}
}

// ConfigSources prints the config files that were merged (-vv)
func (o *Output) ConfigSources(paths []string) {
	if !o.shows(logger.OutputConfig) {
		return
	}
	if len(paths) == 0 {
		o.info.Println("Configuration: defaults only")
		return
	}
	o.info.Println("Configuration:")
	for _, path := range paths {
		o.line("  %s", path)
	}
}

// Index prints the outcome of a search index build
func (o *Output) Index(s *search.IndexSummary, dbPath string) {
	o.success.Printfln("Indexed %d documents from %d pages in %s",
		s.Documents, s.Pages, s.EndTime.Sub(s.StartTime).Round(time.Millisecond))
	o.line("  Database: %s", dbPath)
	if len(s.Untitled) > 0 {
		o.warning.Printfln("%d pages have no title and were not indexed", len(s.Untitled))
		for _, path := range s.Untitled[:o.listed(len(s.Untitled))] {
			o.line("  %s", path)
		}
	}
}

// Results prints search hits
func (o *Output) Results(query string, docs []search.Document) {
	if len(docs) == 0 {
		o.warning.Printfln("No documents match %q", query)
		return
	}
	o.info.Printfln("%d documents match %q", len(docs), query)
	for _, d := range docs {
		first, _, _ := strings.Cut(d.Content, "\n")
		o.line("  %s #%d  %s", d.Title, d.Position, first)
	}
}

// Refpages prints the reference pages found in a checkout
func (o *Output) Refpages(root string, pages []refpage.Refpage) {
	if len(pages) == 0 {
		o.warning.Printfln("No reference pages found in %s", root)
		return
	}
	o.success.Printfln("%d reference pages in %s", len(pages), root)
	for _, p := range pages[:o.listed(len(pages))] {
		o.line("  %-40s %-12s %s", p.Name, p.Type, p.Desc)
	}
	if shown := o.listed(len(pages)); shown < len(pages) {
		o.line("  ... %d more (-vvv lists all)", len(pages)-shown)
	}
}

// Manifest prints where the page manifest was written
func (o *Output) Manifest(path string, entries int) {
	o.success.Printfln("Wrote %d entries to %s", entries, path)
}

// Checkout prints the registry checkout state
func (o *Output) Checkout(c *source.Checkout) {
	if c.Cloned {
		o.success.Printfln("Cloned %s", c.Dir)
	} else {
		o.info.Printfln("Using existing checkout %s", c.Dir)
	}
	o.line("  Ref:      %s", c.Ref)
	o.line("  Commit:   %s", shortHash(c.Commit))
	o.line("  Registry: %s", source.RegistryPath(c.Dir))
}

// Stats prints registry table sizes
func (o *Output) Stats(api string, s registry.Stats) {
	o.info.Printfln("Registry index (%s)", api)
	o.line("  Types:       %d", s.Types)
	o.line("  Commands:    %d", s.Commands)
	o.line("  Enum groups: %d", s.EnumGroups)
	o.line("  Constants:   %d", s.Constants)
	o.line("  Additions:   %d", s.Additions)
	o.line("  Owned:       %d", s.Owned)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
