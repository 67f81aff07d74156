package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Storage errors. Callers match them with errors.Is.
var (
	// ErrConstraint is returned when an insert collides with an existing key.
	ErrConstraint = errors.New("constraint violation")
	// ErrTableNotFound is returned when the Student table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrUnavailable is returned when the database file cannot be opened or written.
	ErrUnavailable = errors.New("storage unavailable")
)

// classify maps driver errors onto the storage error sentinels.
// Errors that are already classified, or that match no sentinel, pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConstraint) || errors.Is(err, ErrTableNotFound) || errors.Is(err, ErrUnavailable) {
		return err
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// Extended result codes carry the primary code in the low byte.
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PERM,
			sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_FULL, sqlite3.SQLITE_IOERR:
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "no such table") {
		return fmt.Errorf("%w: %w", ErrTableNotFound, err)
	}
	return err
}
