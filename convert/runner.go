package convert

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/vkdoc/am"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
)

// Runner converts every page under a directory, one page at a time
type Runner struct {
	conv      *Converter
	extension string
	dryRun    bool
	log       *zap.SugaredLogger
}

// RunSummary is the outcome of one batch run
type RunSummary struct {
	RunID     string       `json:"run_id"`
	Dir       string       `json:"dir"`
	DryRun    bool         `json:"dry_run"`
	Documents int          `json:"documents"`
	Changed   int          `json:"changed"`
	Unchanged int          `json:"unchanged"`
	Markers   int          `json:"markers"`
	Skipped   int          `json:"skipped_markers"`
	Untitled  int          `json:"untitled"`
	Pages     []PageResult `json:"pages,omitempty"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
}

// Duration returns the wall time of the run
func (s *RunSummary) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// PageResult is the outcome for one changed or partially skipped page
type PageResult struct {
	Path    string   `json:"path"`
	Title   string   `json:"title,omitempty"`
	Changed bool     `json:"changed"`
	Markers int      `json:"markers"`
	Skipped []string `json:"skipped,omitempty"`
	Entries int      `json:"frontmatter_entries"`
}

// NewRunner creates a Runner for pages with the given extension (".md")
func NewRunner(conv *Converter, extension string, dryRun bool, log *zap.SugaredLogger) *Runner {
	if extension == "" {
		extension = ".md"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{conv: conv, extension: extension, dryRun: dryRun, log: log}
}

// Pages lists the pages under dir in lexical order
func (r *Runner) Pages(dir string) ([]string, error) {
	return ListPages(dir, r.extension)
}

// ListPages lists files ending in extension under dir in lexical order.
// Hidden directories are not entered.
func ListPages(dir, extension string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithHint(errors.Wrapf(errors.ErrNotFound, "docs directory %s", dir),
				"set docs.dir or pass the directory as an argument")
		}
		return nil, errors.Wrapf(err, "failed to list pages in %s", dir)
	}
	sort.Strings(pages)
	return pages, nil
}

// Run converts every page under dir. A fatal error stops the run at the page
// that raised it; pages already written stay written.
func (r *Runner) Run(ctx context.Context, dir string) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Dir:       dir,
		DryRun:    r.dryRun,
		StartTime: time.Now(),
	}
	log := r.log.With(logger.FieldRunID, summary.RunID)

	pages, err := r.Pages(dir)
	if err != nil {
		return nil, err
	}
	log.Infow("converting pages", logger.FieldPath, dir, logger.FieldCount, len(pages))

	for _, path := range pages {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrap(err, "conversion cancelled")
		}
		page, err := r.ConvertFile(path)
		if err != nil {
			return summary, err
		}
		summary.add(page)
	}

	summary.EndTime = time.Now()
	log.Infow("conversion finished",
		logger.FieldCount, summary.Documents,
		logger.FieldChanged, summary.Changed,
		logger.FieldSkipped, summary.Skipped,
		logger.FieldDurationMS, summary.Duration().Milliseconds())
	return summary, nil
}

func (s *RunSummary) add(page *PageResult) {
	s.Documents++
	s.Markers += page.Markers
	s.Skipped += len(page.Skipped)
	if page.Title == "" {
		s.Untitled++
	}
	if page.Changed {
		s.Changed++
	} else {
		s.Unchanged++
	}
	if page.Changed || len(page.Skipped) > 0 {
		s.Pages = append(s.Pages, *page)
	}
}

// ConvertFile converts one page and writes it back when it changed
func (r *Runner) ConvertFile(path string) (*PageResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	res, err := r.conv.Convert(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "page %s", path)
	}
	page := &PageResult{
		Path:    path,
		Title:   res.Title,
		Changed: res.Changed,
		Markers: res.Rendered,
		Skipped: res.Skipped,
		Entries: len(res.Entries),
	}
	if !res.Changed || r.dryRun {
		return page, nil
	}

	info, err := os.Stat(path)
	mode := os.FileMode(am.DefaultFilePermissions)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(res.Text), mode); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", path)
	}
	r.log.Debugw("page converted", logger.FieldDocument, path, logger.FieldCount, res.Rendered)
	return page, nil
}
