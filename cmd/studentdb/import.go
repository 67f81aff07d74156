package main

import (
	"fmt"

	"github.com/matsen/studentdb/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add students from a JSONL or XLSX file",
	Long: `Add students from a file written by 'studentdb export' or by hand.

Each record is validated with the same rules as --add. Invalid records and
ids already in the table are skipped and listed; the rest are added one at a
time. The table must already exist.

Examples:
  studentdb import roster.jsonl
  studentdb import roster.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	students, err := storage.ReadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	report, err := storage.Import(cmd.Context(), openStore(), students)
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		outputJSON(report)
		return nil
	}

	fmt.Printf("Imported %d record(s) into table %s.\n", report.Added, storage.TableName)
	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped %d record(s):\n", len(report.Skipped))
		for _, skip := range report.Skipped {
			fmt.Printf("  %s: %s\n", skip.ID, skip.Reason)
		}
	}
	return nil
}
