package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/studentdb/internal/storage"
	"github.com/matsen/studentdb/internal/student"
	"github.com/spf13/cobra"
)

// Operation selectors. At most one may be set per invocation.
var (
	opInit   bool
	opAdd    bool
	opList   bool
	opGet    bool
	opRemove bool
	opUpdate bool
	opSchema bool
)

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&opInit, "init", "i", false, "Create an empty Student table, dropping any existing one")
	f.BoolVarP(&opAdd, "add", "a", false, "Add a student: -a <id> <first> <last> <gender> <class>")
	f.BoolVarP(&opList, "list", "l", false, "List all students")
	f.BoolVarP(&opGet, "get", "g", false, "Show one student: -g <id>")
	f.BoolVarP(&opRemove, "remove", "r", false, "Remove a student: -r <id>")
	f.BoolVarP(&opUpdate, "update", "u", false, "Replace a student's fields: -u <id> <first> <last> <gender> <class>")
	f.BoolVarP(&opSchema, "schema", "s", false, "Print the Student table definition")
	rootCmd.MarkFlagsMutuallyExclusive("init", "add", "list", "get", "remove", "update", "schema")
}

func runRoot(cmd *cobra.Command, args []string) error {
	switch {
	case opInit:
		requireArgs("--init", args, 0, "")
		runInit(cmd)
	case opAdd:
		requireArgs("--add", args, 5, "<id> <first> <last> <gender> <class>")
		runAdd(cmd, args)
	case opList:
		requireArgs("--list", args, 0, "")
		runList(cmd)
	case opGet:
		requireArgs("--get", args, 1, "<id>")
		runGet(cmd, args[0])
	case opRemove:
		requireArgs("--remove", args, 1, "<id>")
		runRemove(cmd, args[0])
	case opUpdate:
		requireArgs("--update", args, 5, "<id> <first> <last> <gender> <class>")
		runUpdate(cmd, args)
	case opSchema:
		requireArgs("--schema", args, 0, "")
		runSchema(cmd)
	default:
		if len(args) > 0 {
			exitWithError(ExitError, "unexpected arguments %q without an option\n\n%s", strings.Join(args, " "), noOptionMessage)
		}
		fmt.Println(noOptionMessage)
	}
	return nil
}

// requireArgs exits unless exactly n positional values were given.
func requireArgs(flag string, args []string, n int, usage string) {
	if len(args) == n {
		return
	}
	if n == 0 {
		exitWithError(ExitError, "%s takes no values, got %d", flag, len(args))
	}
	exitWithError(ExitError, "%s expects %d value(s): %s %s, got %d", flag, n, flag, usage, len(args))
}

func runInit(cmd *cobra.Command) {
	s := openStore()
	if err := s.Init(cmd.Context()); err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		outputJSON(StatusResponse{Status: "initialized", Path: s.Path(), Table: storage.TableName})
		return
	}
	fmt.Printf("Initialized empty table %s in database %s.\n", storage.TableName, s.Path())
}

func runAdd(cmd *cobra.Command, args []string) {
	st, err := student.ParseArgs(args)
	if err != nil {
		exitWithValidationError(err)
	}

	added, err := openStore().Add(cmd.Context(), st)
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		outputJSON(StudentResponse{Status: "added", Student: added})
		return
	}
	fmt.Printf("Student %s added into table %s.\n", describeStudent(*added), storage.TableName)
}

func runList(cmd *cobra.Command) {
	table, err := openStore().List(cmd.Context())
	if err != nil {
		exitWithStorageError(err)
	}
	outputTable(table, RosterColumnWidth)
}

func runGet(cmd *cobra.Command, rawID string) {
	id, err := student.ValidateID(rawID)
	if err != nil {
		exitWithValidationError(err)
	}

	found, err := openStore().Get(cmd.Context(), id)
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		status := "found"
		if found == nil {
			status = "not_found"
		}
		outputJSON(StudentResponse{Status: status, Student: found})
		return
	}
	if found == nil {
		fmt.Printf("No matched record for student with id %s.\n", id)
		return
	}
	printTable(os.Stdout, &storage.Table{Columns: student.Columns, Rows: [][]string{found.Fields()}}, RosterColumnWidth)
}

func runRemove(cmd *cobra.Command, rawID string) {
	id, err := student.ValidateID(rawID)
	if err != nil {
		exitWithValidationError(err)
	}

	removed, err := openStore().Remove(cmd.Context(), id)
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		status := "removed"
		if removed == nil {
			status = "not_found"
		}
		outputJSON(StudentResponse{Status: status, Student: removed})
		return
	}
	if removed == nil {
		fmt.Printf("No matched record for student with id %s.\n", id)
		return
	}
	fmt.Printf("Student %s removed from table %s.\n", describeStudent(*removed), storage.TableName)
}

func runUpdate(cmd *cobra.Command, args []string) {
	st, err := student.ParseArgs(args)
	if err != nil {
		exitWithValidationError(err)
	}

	updated, err := openStore().Update(cmd.Context(), st)
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		status := "updated"
		if updated == nil {
			status = "not_found"
		}
		outputJSON(StudentResponse{Status: status, Student: updated})
		return
	}
	if updated == nil {
		fmt.Printf("No matched record for student with id %s.\n", st.ID)
		return
	}
	fmt.Printf("Student %s updated to %s, gender %s, class %s.\n",
		updated.ID, updated.FullName(), updated.Gender, updated.Class)
}

func runSchema(cmd *cobra.Command) {
	ddl, err := openStore().Schema(cmd.Context())
	if err != nil {
		exitWithStorageError(err)
	}

	if jsonOutput {
		outputJSON(SchemaResponse{Table: storage.TableName, SQL: ddl})
		return
	}
	fmt.Println(ddl)
}
