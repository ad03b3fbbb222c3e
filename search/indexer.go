package search

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/vkdoc/convert"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
)

// IndexSummary is the outcome of one index build
type IndexSummary struct {
	RunID     string    `json:"run_id"`
	Dir       string    `json:"dir"`
	Pages     int       `json:"pages"`
	Documents int       `json:"documents"`
	Untitled  []string  `json:"untitled,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Indexer rebuilds the store from a directory of converted pages
type Indexer struct {
	store     *Store
	extension string
	log       *zap.SugaredLogger
}

// NewIndexer creates an Indexer for pages with the given extension
func NewIndexer(store *Store, extension string, log *zap.SugaredLogger) *Indexer {
	if extension == "" {
		extension = ".md"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Indexer{store: store, extension: extension, log: log}
}

// Build splits every page under dir and replaces the index with the result.
// Pages without a title are logged and left out.
func (ix *Indexer) Build(ctx context.Context, dir string) (*IndexSummary, error) {
	summary := &IndexSummary{RunID: uuid.NewString(), Dir: dir, StartTime: time.Now()}
	log := ix.log.With(logger.FieldRunID, summary.RunID)

	pages, err := convert.ListPages(dir, ix.extension)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, path := range pages {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		pageDocs, err := Split(string(data))
		if errors.Is(err, ErrUntitled) {
			log.Warnw("page has no title; not indexed", logger.FieldDocument, path)
			summary.Untitled = append(summary.Untitled, path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "page %s", path)
		}
		summary.Pages++
		docs = append(docs, pageDocs...)
	}

	if err := ix.store.Replace(ctx, summary.RunID, docs); err != nil {
		return nil, err
	}
	summary.Documents = len(docs)
	summary.EndTime = time.Now()
	log.Infow("search index built",
		logger.FieldCount, summary.Documents,
		"pages", summary.Pages,
		logger.FieldDurationMS, summary.EndTime.Sub(summary.StartTime).Milliseconds())
	return summary, nil
}
