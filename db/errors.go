package db

import (
	"database/sql"
	"strings"

	"github.com/teranos/vkdoc/errors"
)

// ErrDatabaseClosed marks errors caused by using a closed database
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err comes from a closed database, either
// marked with ErrDatabaseClosed or raised by database/sql itself
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	// database/sql reports a closed *DB with an unexported error value
	return strings.Contains(err.Error(), "database is closed")
}

// markClosed tags err with ErrDatabaseClosed when the database was closed
func markClosed(err error) error {
	if err != nil && IsDatabaseClosed(err) && !errors.Is(err, ErrDatabaseClosed) {
		return errors.Mark(err, ErrDatabaseClosed)
	}
	return err
}
