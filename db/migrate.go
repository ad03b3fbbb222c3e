package db

import (
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/vkdoc/errors"
)

//go:embed sqlite/migrations/*.sql
var migrationFS embed.FS

const (
	migrationsDir = "sqlite/migrations"

	// bootstrapVersion creates schema_migrations itself
	bootstrapVersion = "000"

	schemaTableSQL   = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`
	appliedSQL       = `SELECT version FROM schema_migrations ORDER BY version`
	recordVersionSQL = `INSERT INTO schema_migrations (version) VALUES (?)`
)

// migration is one embedded "<version>_<name>.sql" file
type migration struct {
	version string
	file    string
}

// migrations lists the embedded migrations in version order
func migrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrationFS, migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list migrations")
	}

	var out []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, errors.Newf("migration %s has no version prefix", e.Name())
		}
		out = append(out, migration{version: version, file: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// AppliedVersions returns the recorded migration versions in order. A database
// that was never migrated has none.
func AppliedVersions(db *sql.DB) ([]string, error) {
	var n int
	if err := db.QueryRow(schemaTableSQL).Scan(&n); err != nil {
		return nil, markClosed(errors.Wrap(err, "failed to look up schema_migrations"))
	}
	if n == 0 {
		return nil, nil
	}

	rows, err := db.Query(appliedSQL)
	if err != nil {
		return nil, markClosed(errors.Wrap(err, "failed to read schema_migrations"))
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "failed to scan migration version")
		}
		versions = append(versions, v)
	}
	return versions, errors.Wrap(rows.Err(), "failed to read schema_migrations")
}

// Migrate applies every embedded migration not yet recorded, each in its own
// transaction. A nil logger is allowed.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	all, err := migrations()
	if err != nil {
		return err
	}
	versions, err := AppliedVersions(db)
	if err != nil {
		return err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	if len(applied) == 0 && len(all) > 0 && all[0].version != bootstrapVersion {
		return errors.Newf("first migration must be %s, got %s", bootstrapVersion, all[0].file)
	}

	var ran int
	for _, m := range all {
		if applied[m.version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return err
		}
		logger.Infow("applied migration", "migration", m.file, "version", m.version)
		ran++
	}

	logger.Debugw("schema up to date", "applied", ran, "total", len(all))
	return nil
}

func apply(db *sql.DB, m migration) error {
	body, err := migrationFS.ReadFile(path.Join(migrationsDir, m.file))
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", m.file)
	}

	tx, err := db.Begin()
	if err != nil {
		return markClosed(errors.Wrapf(err, "failed to begin %s", m.file))
	}
	if _, err := tx.Exec(string(body)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "failed to execute %s", m.file)
	}
	if _, err := tx.Exec(recordVersionSQL, m.version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "failed to record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "failed to commit %s", m.file)
}
