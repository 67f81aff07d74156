package main

import (
	"fmt"
	"strings"

	"github.com/matsen/studentdb/internal/storage"
	"github.com/matsen/studentdb/internal/student"
	"github.com/spf13/cobra"
)

var (
	namesInit   bool
	namesAdd    bool
	namesList   bool
	namesRemove bool
	namesUpdate bool
)

func init() {
	rootCmd.AddCommand(namesCmd)

	f := namesCmd.Flags()
	f.BoolVarP(&namesInit, "init", "i", false, "Create an empty single-column Student table")
	f.BoolVarP(&namesAdd, "add", "a", false, "Add a student: -a <name>")
	f.BoolVarP(&namesList, "list", "l", false, "List all students")
	f.BoolVarP(&namesRemove, "remove", "r", false, "Remove every student with a name: -r <name>")
	f.BoolVarP(&namesUpdate, "update", "u", false, "Rename every student with a name: -u <name> <new_name>")
	namesCmd.MarkFlagsMutuallyExclusive("init", "add", "list", "remove", "update")
}

var namesCmd = &cobra.Command{
	Use:   "names [flags] [names...]",
	Short: "Manage the legacy single-column roster",
	Long: `Manage a Student table that holds only a free-text name per row.

Names are 1 to 30 letters, hyphens or spaces; quote names containing spaces.
Names are not unique: --remove and --update act on every row with the name.

Examples:
  studentdb names -i
  studentdb names -a "Jane Doe"
  studentdb names -l
  studentdb names -r "Jane Doe"
  studentdb names -u "Jane Doe" "Janet Doe"`,
	Args: cobra.ArbitraryArgs,
	RunE: runNames,
}

func runNames(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	switch {
	case namesInit:
		requireArgs("--init", args, 0, "")
		n := openNameStore()
		if err := n.Init(ctx); err != nil {
			exitWithStorageError(err)
		}
		if jsonOutput {
			outputJSON(StatusResponse{Status: "initialized", Path: n.Path(), Table: storage.TableName})
			return nil
		}
		fmt.Printf("Initialized empty table %s in database %s.\n", storage.TableName, n.Path())

	case namesAdd:
		requireArgs("--add", args, 1, "<name>")
		name := mustValidateName(args[0])
		if err := openNameStore().Add(ctx, name); err != nil {
			exitWithStorageError(err)
		}
		if jsonOutput {
			outputJSON(CountResponse{Status: "added", Name: name, Count: 1})
			return nil
		}
		fmt.Printf("Student named %q added into table %s.\n", name, storage.TableName)

	case namesList:
		requireArgs("--list", args, 0, "")
		table, err := openNameStore().List(ctx)
		if err != nil {
			exitWithStorageError(err)
		}
		outputTable(table, NameColumnWidth)

	case namesRemove:
		requireArgs("--remove", args, 1, "<name>")
		name := mustValidateName(args[0])
		removed, err := openNameStore().Remove(ctx, name)
		if err != nil {
			exitWithStorageError(err)
		}
		if jsonOutput {
			outputJSON(CountResponse{Status: countStatus(removed, "removed"), Name: name, Count: removed})
			return nil
		}
		if removed == 0 {
			fmt.Printf("No matched records for student named %q.\n", name)
			return nil
		}
		fmt.Printf("%d record(s) of student(s) named %q removed from table %s.\n", removed, name, storage.TableName)

	case namesUpdate:
		requireArgs("--update", args, 2, "<name> <new_name>")
		oldName := mustValidateName(args[0])
		newName := mustValidateName(args[1])
		changed, err := openNameStore().Update(ctx, oldName, newName)
		if err != nil {
			exitWithStorageError(err)
		}
		if jsonOutput {
			outputJSON(CountResponse{Status: countStatus(changed, "updated"), Name: oldName, Count: changed})
			return nil
		}
		if changed == 0 {
			fmt.Printf("No matched records for student named %q.\n", oldName)
			return nil
		}
		fmt.Printf("Changed student(s) named %q to %s. %d record(s) changed.\n", oldName, newName, changed)

	default:
		if len(args) > 0 {
			exitWithError(ExitError, "unexpected arguments %q without an option\n\n%s", strings.Join(args, " "), noOptionMessage)
		}
		fmt.Println(noOptionMessage)
	}
	return nil
}

// mustValidateName validates a legacy name, exits on error.
func mustValidateName(raw string) string {
	name, err := student.ValidateName(raw)
	if err != nil {
		exitWithValidationError(err)
	}
	return name
}

func countStatus(n int, done string) string {
	if n == 0 {
		return "not_found"
	}
	return done
}
