package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matsen/studentdb/internal/student"
)

// Format identifies a roster file format for export and import.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return FormatJSONL, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q (use .jsonl or .xlsx)", filepath.Ext(path))
	}
}

// Export writes every student in the store to path and returns the count.
func Export(ctx context.Context, s *Store, path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	table, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if table.Column("id") == nil && table.Len() > 0 {
		return 0, fmt.Errorf("table %s has no id column; export needs the five-column roster", TableName)
	}

	switch format {
	case FormatXLSX:
		err = WriteXLSX(path, table)
	default:
		err = WriteJSONL(path, table.Students())
	}
	if err != nil {
		return 0, fmt.Errorf("exporting to %s: %w", path, err)
	}
	return table.Len(), nil
}

// ReadFile reads students from a JSONL or XLSX file, chosen by extension.
func ReadFile(path string) ([]student.Student, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ReadXLSX(path)
	}
	return ReadJSONL(path)
}

// ImportSkip records a student that was not imported and why.
type ImportSkip struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ImportReport summarizes an import.
type ImportReport struct {
	Added   int          `json:"added"`
	Skipped []ImportSkip `json:"skipped"`
}

// Import validates and adds each student in turn. Invalid records and
// duplicate ids are skipped and reported; any other storage failure stops
// the import and is returned along with the partial report.
func Import(ctx context.Context, s *Store, students []student.Student) (*ImportReport, error) {
	report := &ImportReport{Skipped: []ImportSkip{}}

	for _, raw := range students {
		st, err := raw.Validate()
		if err != nil {
			report.Skipped = append(report.Skipped, ImportSkip{ID: raw.ID, Reason: err.Error()})
			continue
		}

		if _, err := s.Add(ctx, st); err != nil {
			if errors.Is(err, ErrConstraint) {
				report.Skipped = append(report.Skipped, ImportSkip{ID: st.ID, Reason: "duplicate id"})
				continue
			}
			return report, err
		}
		report.Added++
	}

	return report, nil
}
