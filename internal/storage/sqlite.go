// Package storage persists the student roster in a single SQLite table.
//
// Every operation opens its own handle to the database file and closes it
// before returning, so no connection outlives a call.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	_ "modernc.org/sqlite"
)

const (
	// DefaultPath is the database file used when no path is configured.
	DefaultPath = "student.db"
	// TableName is the only table the roster uses.
	TableName = "Student"
)

const (
	dropTable   = "DROP TABLE IF EXISTS " + TableName
	selectAll   = "SELECT * FROM " + TableName
	countAll    = "SELECT COUNT(*) FROM " + TableName
	selectTable = "SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?"
)

// handle holds what both roster variants need to reach the database file.
type handle struct {
	path   string
	logger *log.Logger
}

func newHandle(path string) handle {
	if path == "" {
		path = DefaultPath
	}
	return handle{path: path, logger: log.New(io.Discard, "", 0)}
}

// Path returns the database file path.
func (h *handle) Path() string {
	return h.path
}

// SetLogger routes debug output to l. A nil logger silences it.
func (h *handle) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	h.logger = l
}

// openDB opens the database file and verifies it can be reached.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrUnavailable, path, err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: opening %s: %w", ErrUnavailable, path, err)
	}
	return db, nil
}

// withDB runs fn against a freshly opened database and closes it afterwards,
// whether fn succeeds or not. Errors from fn are classified.
func (h *handle) withDB(ctx context.Context, fn func(db *sql.DB) error) (err error) {
	db, err := openDB(ctx, h.path)
	if err != nil {
		return err
	}
	h.logger.Printf("opened %s", h.path)

	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
		h.logger.Printf("closed %s", h.path)
	}()

	return classify(fn(db))
}

// recreate drops the table and creates it again with ddl.
func (h *handle) recreate(ctx context.Context, ddl string) error {
	return h.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, dropTable); err != nil {
			return fmt.Errorf("dropping table: %w", err)
		}
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
		h.logger.Printf("recreated table %s", TableName)
		return nil
	})
}

// list reads every row in storage order.
func (h *handle) list(ctx context.Context) (*Table, error) {
	var table *Table
	err := h.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, selectAll)
		if err != nil {
			return err
		}
		defer rows.Close()

		table, err = scanTable(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return table, nil
}

// count returns the number of rows in the table.
func (h *handle) count(ctx context.Context) (int, error) {
	var n int
	err := h.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, countAll).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("counting students: %w", err)
	}
	return n, nil
}

// schema returns the CREATE TABLE statement stored in the catalog.
func (h *handle) schema(ctx context.Context) (string, error) {
	var ddl sql.NullString
	err := h.withDB(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, selectTable, TableName).Scan(&ddl)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrTableNotFound, TableName)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}
	return ddl.String, nil
}

// cellString renders a scanned SQLite value as text.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
