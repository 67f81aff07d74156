package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/studentdb/internal/storage"
	"github.com/matsen/studentdb/internal/student"
)

// Column widths for list output.
const (
	RosterColumnWidth = 12 // Five-column roster
	NameColumnWidth   = 30 // Legacy name roster
)

// noOptionMessage is printed when no operation flag is given.
const noOptionMessage = `Please select an option, use "studentdb -h(--help)" to see usage.`

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		outputJSON(ErrorResponse{Error: msg})
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	os.Exit(code)
}

// exitWithStorageError picks the exit code for a storage failure and exits.
func exitWithStorageError(err error) {
	switch {
	case errors.Is(err, storage.ErrConstraint):
		exitWithError(ExitConstraint, "%v", err)
	case errors.Is(err, storage.ErrTableNotFound):
		exitWithError(ExitTableNotFound, "%v\n\nRun 'studentdb --init' to create the %s table.", err, storage.TableName)
	case errors.Is(err, storage.ErrUnavailable):
		exitWithError(ExitStorageUnavailable, "%v", err)
	default:
		exitWithError(ExitError, "%v", err)
	}
}

// exitWithValidationError reports a rejected field value. It is called
// before any database access.
func exitWithValidationError(err error) {
	exitWithError(ExitDataError, "%v", err)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Table  string `json:"table,omitempty"`
}

// StudentResponse is the response for commands acting on one student.
// Student is nil when no record matched.
type StudentResponse struct {
	Status  string           `json:"status"`
	Student *student.Student `json:"student,omitempty"`
}

// CountResponse is the response for legacy commands that match by name.
type CountResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// TableResponse is the response for list commands.
type TableResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SchemaResponse is the response for the schema command.
type SchemaResponse struct {
	Table string `json:"table"`
	SQL   string `json:"sql"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// describeStudent formats a student as "00001 (Jane Doe, gender F, class A)".
func describeStudent(s student.Student) string {
	return fmt.Sprintf("%s (%s, gender %s, class %s)", s.ID, s.FullName(), s.Gender, s.Class)
}

// printTable writes fixed-width columns with a dashed rule under the header.
func printTable(w io.Writer, table *storage.Table, width int) {
	for _, col := range table.Columns {
		fmt.Fprint(w, padRight(col, width))
	}
	fmt.Fprintln(w)
	for range table.Columns {
		fmt.Fprint(w, strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	for _, row := range table.Rows {
		for _, cell := range row {
			fmt.Fprint(w, padRight(cell, width))
		}
		fmt.Fprintln(w)
	}
}

// outputTable prints a listing in the selected format.
func outputTable(table *storage.Table, width int) {
	if jsonOutput {
		rows := table.Rows
		if rows == nil {
			rows = [][]string{}
		}
		outputJSON(TableResponse{Columns: table.Columns, Rows: rows})
		return
	}
	printTable(os.Stdout, table, width)
}

// padRight pads a string with spaces on the right.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
