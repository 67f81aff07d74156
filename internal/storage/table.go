package storage

import (
	"database/sql"

	"github.com/matsen/studentdb/internal/student"
)

// Table is the result of listing the roster. Columns come from the result
// set, so a schema change shows up without touching the renderer.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Students maps each row onto a canonical record by column name.
func (t *Table) Students() []student.Student {
	students := make([]student.Student, 0, len(t.Rows))
	for _, row := range t.Rows {
		values := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				values[col] = row[i]
			}
		}
		students = append(students, student.FromColumns(values))
	}
	return students
}

// Column returns the values of the named column, or nil if it doesn't exist.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, col := range t.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[idx])
	}
	return values
}

// scanTable reads all rows as text cells.
func scanTable(rows *sql.Rows) (*Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = cellString(v)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, rows.Err()
}
