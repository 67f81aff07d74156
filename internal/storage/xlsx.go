package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/studentdb/internal/student"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the table to a workbook: a header row of column names on
// a sheet named after the table, then one row per record.
func WriteXLSX(path string, table *Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, TableName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeSheetRow(f, 1, table.Columns); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	// Cells are written as strings so ids keep their leading zeros.
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(TableName, cell, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}

// ReadXLSX reads students from the first sheet of a workbook. The first row
// is a header; columns A through E hold id, first name, last name, gender
// and class. Records are returned as written; validation is left to the caller.
func ReadXLSX(path string) (students []student.Student, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading rows from sheet %s: %w", sheetName, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // Skip header row
		}
		if isBlankRow(row) {
			continue
		}

		cells := make([]string, len(student.Columns))
		copy(cells, row)
		students = append(students, student.Student{
			ID:        cells[0],
			FirstName: cells[1],
			LastName:  cells[2],
			Gender:    cells[3],
			Class:     cells[4],
		})
	}

	return students, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
