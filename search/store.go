package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/vkdoc/errors"
)

const (
	deleteAllSQL = `DELETE FROM documents`
	insertSQL    = `INSERT INTO documents (id, title, description, type, parents, command, content, position, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	searchSQL = `SELECT id, title, description, type, parents, command, content, position
		FROM documents
		WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		ORDER BY CASE WHEN title LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, title, position
		LIMIT ?`
	countSQL = `SELECT COUNT(*) FROM documents`
)

// DefaultLimit caps Search results when no limit is given
const DefaultLimit = 20

// Store reads and writes the documents table
type Store struct {
	db       *sql.DB
	log      *zap.SugaredLogger
	traceSQL bool
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithSQLTrace logs every statement the store runs at debug level
func WithSQLTrace(enabled bool) StoreOption {
	return func(s *Store) {
		s.traceSQL = enabled
	}
}

// NewStore creates a Store over a migrated database
func NewStore(db *sql.DB, log *zap.SugaredLogger, opts ...StoreOption) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{db: db, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) trace(query string, args ...interface{}) {
	if s.traceSQL {
		s.log.Debugw("sql", "statement", strings.Join(strings.Fields(query), " "), "args", args)
	}
}

// Replace swaps the whole index for docs in one transaction
func (s *Store) Replace(ctx context.Context, runID string, docs []Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin index rebuild")
	}

	s.trace(deleteAllSQL)
	if _, err := tx.ExecContext(ctx, deleteAllSQL); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "clear documents")
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "prepare document insert")
	}
	defer stmt.Close()

	s.trace(insertSQL, "rows", len(docs))
	for _, d := range docs {
		parents, command, err := encodeLists(d)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Title, d.Description, d.Type, parents, command, d.Content, d.Position, runID); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert document %s", d.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit index rebuild")
	}
	s.log.Debugw("search index replaced", "documents", len(docs), "run_id", runID)
	return nil
}

func encodeLists(d Document) (string, sql.NullString, error) {
	parents := d.Parents
	if parents == nil {
		parents = []string{}
	}
	p, err := json.Marshal(parents)
	if err != nil {
		return "", sql.NullString{}, errors.Wrapf(err, "encode parents of %s", d.ID)
	}
	if len(d.Command) == 0 {
		return string(p), sql.NullString{}, nil
	}
	c, err := json.Marshal(d.Command)
	if err != nil {
		return "", sql.NullString{}, errors.Wrapf(err, "encode command of %s", d.ID)
	}
	return string(p), sql.NullString{String: string(c), Valid: true}, nil
}

// Search returns documents whose title or content contains query, title matches first
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	pattern := "%" + escapeLike(query) + "%"

	s.trace(searchSQL, pattern, limit)
	rows, err := s.db.QueryContext(ctx, searchSQL, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, errors.Wrap(err, "search documents")
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d       Document
			parents string
			command sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.Type, &parents, &command, &d.Content, &d.Position); err != nil {
			return nil, errors.Wrap(err, "scan document")
		}
		if err := json.Unmarshal([]byte(parents), &d.Parents); err != nil {
			return nil, errors.Wrapf(err, "decode parents of %s", d.ID)
		}
		if len(d.Parents) == 0 {
			d.Parents = nil
		}
		if command.Valid {
			if err := json.Unmarshal([]byte(command.String), &d.Command); err != nil {
				return nil, errors.Wrapf(err, "decode command of %s", d.ID)
			}
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate documents")
	}
	return docs, nil
}

// escapeLike escapes LIKE wildcards; symbol names are full of '_'
func escapeLike(s string) string {
	r := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			r = append(r, '\\')
		}
		r = append(r, s[i])
	}
	return string(r)
}

// Count returns the number of indexed documents
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	s.trace(countSQL)
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count documents")
	}
	return n, nil
}
