package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// The legacy roster keeps a single free-text name per row. Names are not
// unique, so remove and update act on every matching row.
const (
	createNameTable = "CREATE TABLE " + TableName + " (Name varchar(30))"

	insertName = "INSERT INTO " + TableName + " (Name) VALUES (?)"
	countName  = "SELECT COUNT(*) FROM " + TableName + " WHERE name = ?"
	deleteName = "DELETE FROM " + TableName + " WHERE name = ?"
	renameName = "UPDATE " + TableName + " SET name = ? WHERE name = ?"
)

// NameStore is the legacy single-column roster.
type NameStore struct {
	handle
}

// NewNameStore returns a NameStore backed by the database file at path.
// An empty path selects DefaultPath.
func NewNameStore(path string) *NameStore {
	return &NameStore{handle: newHandle(path)}
}

// Init drops the Student table if present and creates the single-column form.
func (n *NameStore) Init(ctx context.Context) error {
	if err := n.recreate(ctx, createNameTable); err != nil {
		return fmt.Errorf("initializing table: %w", err)
	}
	return nil
}

// Add inserts a name. The same name may be added any number of times.
func (n *NameStore) Add(ctx context.Context, name string) error {
	err := n.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, insertName, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("adding student %q: %w", name, err)
	}
	return nil
}

// List returns every row in the engine's natural scan order.
func (n *NameStore) List(ctx context.Context) (*Table, error) {
	return n.list(ctx)
}

// Remove deletes every row named name and returns how many were deleted.
// Zero means nothing matched and nothing was written.
func (n *NameStore) Remove(ctx context.Context, name string) (int, error) {
	var matched int
	err := n.withDB(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, countName, name).Scan(&matched); err != nil {
			return err
		}
		if matched == 0 {
			return nil
		}
		_, err := db.ExecContext(ctx, deleteName, name)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("removing student %q: %w", name, err)
	}
	return matched, nil
}

// Update renames every row named oldName to newName and returns how many
// rows changed. Zero means nothing matched and nothing was written.
func (n *NameStore) Update(ctx context.Context, oldName, newName string) (int, error) {
	var matched int
	err := n.withDB(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, countName, oldName).Scan(&matched); err != nil {
			return err
		}
		if matched == 0 {
			return nil
		}
		_, err := db.ExecContext(ctx, renameName, newName, oldName)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("renaming student %q: %w", oldName, err)
	}
	return matched, nil
}

// Schema returns the table definition as stored in the SQLite catalog.
func (n *NameStore) Schema(ctx context.Context) (string, error) {
	return n.schema(ctx)
}
