package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matsen/studentdb/internal/student"
)

const (
	createStudentTable = `CREATE TABLE ` + TableName + ` (
  id CHAR(5) PRIMARY KEY NOT NULL,
  first_name VARCHAR(10) NOT NULL,
  last_name VARCHAR(10) NOT NULL,
  gender CHAR(1) NOT NULL,
  class CHAR(1) NOT NULL
)`

	insertStudent = "INSERT INTO " + TableName + " (id, first_name, last_name, gender, class) VALUES (?, ?, ?, ?, ?)"
	selectStudent = "SELECT id, first_name, last_name, gender, class FROM " + TableName + " WHERE id = ?"
	deleteStudent = "DELETE FROM " + TableName + " WHERE id = ?"
	updateStudent = "UPDATE " + TableName + " SET first_name = ?, last_name = ?, gender = ?, class = ? WHERE id = ?"
)

// Store is the canonical roster: one row per student, keyed by a unique id.
type Store struct {
	handle
}

// New returns a Store backed by the database file at path.
// An empty path selects DefaultPath.
func New(path string) *Store {
	return &Store{handle: newHandle(path)}
}

// Init drops the Student table if present and creates it empty.
// All existing records are lost.
func (s *Store) Init(ctx context.Context) error {
	if err := s.recreate(ctx, createStudentTable); err != nil {
		return fmt.Errorf("initializing table: %w", err)
	}
	return nil
}

// Add inserts one student. A duplicate id fails with ErrConstraint and
// leaves the table unchanged.
func (s *Store) Add(ctx context.Context, st student.Student) (*student.Student, error) {
	err := s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, insertStudent, st.ID, st.FirstName, st.LastName, st.Gender, st.Class)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adding student %s: %w", st.ID, err)
	}
	s.logger.Printf("inserted %s", st.ID)
	return &st, nil
}

// List returns every row in the engine's natural scan order.
func (s *Store) List(ctx context.Context) (*Table, error) {
	return s.list(ctx)
}

// Count returns the number of students.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.count(ctx)
}

// Get looks up a student by id. It returns nil, nil when no row matches.
func (s *Store) Get(ctx context.Context, id string) (*student.Student, error) {
	var found *student.Student
	err := s.withDB(ctx, func(db *sql.DB) error {
		var err error
		found, err = getStudent(ctx, db, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting student %s: %w", id, err)
	}
	return found, nil
}

// Remove deletes the student with the given id and returns its prior values.
// It returns nil, nil without touching the table when no row matches.
func (s *Store) Remove(ctx context.Context, id string) (*student.Student, error) {
	var removed *student.Student
	err := s.withDB(ctx, func(db *sql.DB) error {
		prior, err := getStudent(ctx, db, id)
		if err != nil || prior == nil {
			return err
		}
		if _, err := db.ExecContext(ctx, deleteStudent, id); err != nil {
			return err
		}
		removed = prior
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("removing student %s: %w", id, err)
	}
	if removed != nil {
		s.logger.Printf("deleted %s", id)
	}
	return removed, nil
}

// Update replaces every non-key field of the student with st.ID and returns
// the new values. It returns nil, nil when no row matches.
func (s *Store) Update(ctx context.Context, st student.Student) (*student.Student, error) {
	var updated *student.Student
	err := s.withDB(ctx, func(db *sql.DB) error {
		prior, err := getStudent(ctx, db, st.ID)
		if err != nil || prior == nil {
			return err
		}
		if _, err := db.ExecContext(ctx, updateStudent, st.FirstName, st.LastName, st.Gender, st.Class, st.ID); err != nil {
			return err
		}
		updated = &st
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating student %s: %w", st.ID, err)
	}
	if updated != nil {
		s.logger.Printf("updated %s", st.ID)
	}
	return updated, nil
}

// Schema returns the table definition as stored in the SQLite catalog.
// It fails with ErrTableNotFound before Init has been run.
func (s *Store) Schema(ctx context.Context) (string, error) {
	return s.schema(ctx)
}

func getStudent(ctx context.Context, db *sql.DB, id string) (*student.Student, error) {
	var st student.Student
	err := db.QueryRowContext(ctx, selectStudent, id).Scan(&st.ID, &st.FirstName, &st.LastName, &st.Gender, &st.Class)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
