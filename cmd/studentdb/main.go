// Package main provides the studentdb CLI entry point.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/matsen/studentdb/internal/config"
	"github.com/matsen/studentdb/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent flags shared by every command.
var (
	jsonOutput  bool
	verboseFlag bool
	dbPathFlag  string
)

// cfg is resolved once per invocation before any command runs.
var cfg = &config.Config{}

// logger writes debug output to stderr when --verbose is set.
var logger = log.New(io.Discard, "", 0)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like conflicting flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "studentdb [flags] [values...]",
	Short: "Manage the Student table in a SQLite database",
	Long: `studentdb manages a roster of students stored in the Student table of an
SQLite database file (student.db in the working directory by default).

Select exactly one operation per invocation:
  studentdb -i                              # create an empty Student table
  studentdb -a 00001 Jane Doe F A           # add id first last gender class
  studentdb -l                              # list all students
  studentdb -g 00001                        # show one student
  studentdb -r 00001                        # remove a student by id
  studentdb -u 00001 Janet Doe F A          # replace a student's fields
  studentdb -s                              # print the table definition

Field rules:
  id          exactly 5 digits
  first/last  1 to 10 letters or hyphens
  gender      M or F
  class       one uppercase letter A-Z

--init drops the existing table and every record in it.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              runRoot,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log database activity to stderr")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the SQLite database file (default \"student.db\")")
	rootCmd.Version = Version
}

// loadConfig resolves configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg = loaded

	if cmd.Flags().Changed("db") {
		cfg.DBPath = config.ExpandTilde(dbPathFlag)
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		logger = log.New(os.Stderr, "studentdb: ", log.LstdFlags)
	}
	return nil
}

// openStore returns the canonical roster store for the configured database.
func openStore() *storage.Store {
	s := storage.New(cfg.DBPath)
	s.SetLogger(logger)
	return s
}

// openNameStore returns the legacy single-column store for the configured database.
func openNameStore() *storage.NameStore {
	n := storage.NewNameStore(cfg.DBPath)
	n.SetLogger(logger)
	return n
}
