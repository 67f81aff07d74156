package main

import (
	"fmt"

	"github.com/matsen/studentdb/internal/storage"
	"github.com/spf13/cobra"
)

// ExportResult is the response for the export command.
type ExportResult struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Exported int    `json:"exported"`
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the roster to a JSONL or XLSX file",
	Long: `Export every student to a file. The format follows the extension:
.jsonl writes one JSON object per line, .xlsx writes a workbook with a
header row.

Examples:
  studentdb export roster.jsonl
  studentdb export roster.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := storage.FormatFromPath(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	n, err := storage.Export(cmd.Context(), openStore(), path)
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		outputJSON(ExportResult{Path: path, Format: string(format), Exported: n})
		return nil
	}
	fmt.Printf("Exported %d record(s) from table %s to %s.\n", n, storage.TableName, path)
	return nil
}
