package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	binaryOnce sync.Once
	binaryPath string
	binaryErr  error
)

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

// getBinary builds studentdb once per test run.
func getBinary(t *testing.T) string {
	t.Helper()
	binaryOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			binaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "studentdb-test-*")
		if err != nil {
			binaryErr = err
			return
		}
		binaryPath = filepath.Join(tmpDir, "studentdb")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/studentdb")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			binaryErr = &buildError{output: string(output), err: err}
		}
	})
	if binaryErr != nil {
		t.Fatalf("failed to build studentdb: %v", binaryErr)
	}
	return binaryPath
}

// result holds the outcome of one invocation.
type result struct {
	stdout string
	stderr string
	code   int
}

// runCLI runs studentdb in dir with config sources isolated from the host.
func runCLI(t *testing.T, dir string, args ...string) result {
	t.Helper()
	cmd := exec.Command(getBinary(t), args...)
	cmd.Dir = dir

	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "STUDENTDB_") || strings.HasPrefix(kv, "XDG_CONFIG_HOME=") {
			continue
		}
		env = append(env, kv)
	}
	cmd.Env = append(env, "XDG_CONFIG_HOME="+filepath.Join(dir, "config"))

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("running studentdb %v: %v", args, err)
		}
		code = exitErr.ExitCode()
	}
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	r := runCLI(t, dir, args...)
	if r.code != 0 {
		t.Fatalf("studentdb %v exited %d\nstdout: %s\nstderr: %s", args, r.code, r.stdout, r.stderr)
	}
	return r.stdout
}

// dataLines drops the header and rule of list output and trims padding.
func dataLines(out string) []string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		return nil
	}
	var rows []string
	for _, line := range lines[2:] {
		rows = append(rows, strings.Join(strings.Fields(line), " "))
	}
	return rows
}

func TestCLI_Scenario(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "-i")
	if out != "Initialized empty table Student in database student.db.\n" {
		t.Errorf("init output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "student.db")); err != nil {
		t.Fatalf("student.db not created: %v", err)
	}

	out = mustRun(t, dir, "-a", "00001", "Jane", "Doe", "F", "A")
	if !strings.Contains(out, "Student 00001 (Jane Doe, gender F, class A) added into table Student.") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, dir, "-l")
	header := padRight("id", RosterColumnWidth) + padRight("first_name", RosterColumnWidth) +
		padRight("last_name", RosterColumnWidth) + padRight("gender", RosterColumnWidth) +
		padRight("class", RosterColumnWidth)
	if !strings.HasPrefix(out, header+"\n") {
		t.Errorf("list header = %q", out)
	}
	if rows := dataLines(out); len(rows) != 1 || rows[0] != "00001 Jane Doe F A" {
		t.Errorf("list rows = %v", rows)
	}

	out = mustRun(t, dir, "--update", "00001", "Janet", "Doe", "F", "A")
	if out != "Student 00001 updated to Janet Doe, gender F, class A.\n" {
		t.Errorf("update output = %q", out)
	}
	if rows := dataLines(mustRun(t, dir, "-l")); len(rows) != 1 || rows[0] != "00001 Janet Doe F A" {
		t.Errorf("list rows after update = %v", rows)
	}

	out = mustRun(t, dir, "-r", "00001")
	if !strings.Contains(out, "removed from table Student.") {
		t.Errorf("remove output = %q", out)
	}
	if rows := dataLines(mustRun(t, dir, "-l")); len(rows) != 0 {
		t.Errorf("list rows after remove = %v, want none", rows)
	}
}

func TestCLI_NoOption(t *testing.T) {
	r := runCLI(t, t.TempDir())
	if r.code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", r.code, ExitSuccess)
	}
	if strings.TrimSpace(r.stdout) != noOptionMessage {
		t.Errorf("stdout = %q, want %q", r.stdout, noOptionMessage)
	}
}

func TestCLI_ValidationDoesNotTouchStorage(t *testing.T) {
	dir := t.TempDir()

	tests := [][]string{
		{"-a", "1234", "Jane", "Doe", "F", "A"},
		{"-a", "00001", "Jane", "Doe", "X", "A"},
		{"-u", "00001", "Jane", "Doe", "F", "a"},
		{"-r", "abcde"},
	}
	for _, args := range tests {
		r := runCLI(t, dir, args...)
		if r.code != ExitDataError {
			t.Errorf("studentdb %v exit code = %d, want %d (stderr %q)", args, r.code, ExitDataError, r.stderr)
		}
		if !strings.Contains(r.stderr, "invalid") {
			t.Errorf("studentdb %v stderr = %q, should name the failed rule", args, r.stderr)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "student.db")); !os.IsNotExist(err) {
		t.Errorf("validation failures should not create the database, stat err = %v", err)
	}
}

func TestCLI_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "-i")
	mustRun(t, dir, "-a", "00001", "Jane", "Doe", "F", "A")

	r := runCLI(t, dir, "-a", "00001", "John", "Roe", "M", "B")
	if r.code != ExitConstraint {
		t.Errorf("exit code = %d, want %d (stderr %q)", r.code, ExitConstraint, r.stderr)
	}
	if rows := dataLines(mustRun(t, dir, "-l")); len(rows) != 1 || rows[0] != "00001 Jane Doe F A" {
		t.Errorf("list rows = %v", rows)
	}
}

func TestCLI_NotFoundIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "-i")

	out := mustRun(t, dir, "-r", "99999")
	if out != "No matched record for student with id 99999.\n" {
		t.Errorf("remove output = %q", out)
	}
	out = mustRun(t, dir, "-u", "99999", "Jane", "Doe", "F", "A")
	if out != "No matched record for student with id 99999.\n" {
		t.Errorf("update output = %q", out)
	}
	if rows := dataLines(mustRun(t, dir, "-l")); len(rows) != 0 {
		t.Errorf("list rows = %v, want none", rows)
	}
}

func TestCLI_Schema(t *testing.T) {
	dir := t.TempDir()

	r := runCLI(t, dir, "-s")
	if r.code != ExitTableNotFound {
		t.Errorf("schema before init exit code = %d, want %d", r.code, ExitTableNotFound)
	}

	mustRun(t, dir, "-i")
	out := mustRun(t, dir, "--schema")
	if !strings.HasPrefix(out, "CREATE TABLE Student (") || !strings.Contains(out, "id CHAR(5) PRIMARY KEY") {
		t.Errorf("schema output = %q", out)
	}
}

func TestCLI_OptionsAreExclusive(t *testing.T) {
	r := runCLI(t, t.TempDir(), "-i", "-l")
	if r.code != ExitError {
		t.Errorf("exit code = %d, want %d", r.code, ExitError)
	}
}

func TestCLI_WrongValueCount(t *testing.T) {
	r := runCLI(t, t.TempDir(), "-a", "00001", "Jane")
	if r.code != ExitError {
		t.Errorf("exit code = %d, want %d", r.code, ExitError)
	}
	if !strings.Contains(r.stderr, "expects 5 value(s)") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestCLI_DBFlagAndEnv(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "--db", "other.db", "-i")
	if !strings.Contains(out, "other.db") {
		t.Errorf("init output = %q, want other.db", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "other.db")); err != nil {
		t.Errorf("other.db not created: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("STUDENTDB_DB_PATH=env.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, dir, "-i")
	if !strings.Contains(out, "env.db") {
		t.Errorf("init output = %q, want env.db", out)
	}
}

func TestCLI_JSON(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "-i")

	out := mustRun(t, dir, "--json", "-a", "00007", "Ann", "Lee", "F", "C")
	var added StudentResponse
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("parsing add output: %v\n%s", err, out)
	}
	if added.Status != "added" || added.Student == nil || added.Student.ID != "00007" {
		t.Errorf("add response = %+v", added)
	}

	out = mustRun(t, dir, "--json", "-l")
	var listed TableResponse
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("parsing list output: %v\n%s", err, out)
	}
	if len(listed.Rows) != 1 || listed.Columns[0] != "id" {
		t.Errorf("list response = %+v", listed)
	}

	out = mustRun(t, dir, "--json", "-r", "11111")
	var removed StudentResponse
	if err := json.Unmarshal([]byte(out), &removed); err != nil {
		t.Fatalf("parsing remove output: %v\n%s", err, out)
	}
	if removed.Status != "not_found" || removed.Student != nil {
		t.Errorf("remove response = %+v", removed)
	}
}

func TestCLI_Names(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "names", "-i")
	out := mustRun(t, dir, "names", "-a", "Jane Doe")
	if out != "Student named \"Jane Doe\" added into table Student.\n" {
		t.Errorf("add output = %q", out)
	}
	mustRun(t, dir, "names", "-a", "Jane Doe")
	mustRun(t, dir, "names", "-a", "John Roe")

	out = mustRun(t, dir, "names", "-u", "Jane Doe", "Janet Doe")
	if out != "Changed student(s) named \"Jane Doe\" to Janet Doe. 2 record(s) changed.\n" {
		t.Errorf("update output = %q", out)
	}

	out = mustRun(t, dir, "names", "-r", "Janet Doe")
	if out != "2 record(s) of student(s) named \"Janet Doe\" removed from table Student.\n" {
		t.Errorf("remove output = %q", out)
	}

	out = mustRun(t, dir, "names", "-r", "Nobody")
	if out != "No matched records for student named \"Nobody\".\n" {
		t.Errorf("remove output = %q", out)
	}

	out = mustRun(t, dir, "names", "-l")
	if !strings.HasPrefix(out, "Name"+strings.Repeat(" ", 26)+"\n"+strings.Repeat("-", 30)+"\n") {
		t.Errorf("list header = %q", out)
	}
	if rows := dataLines(out); len(rows) != 1 || rows[0] != "John Roe" {
		t.Errorf("list rows = %v", rows)
	}

	r := runCLI(t, dir, "names", "-a", "R2D2")
	if r.code != ExitDataError {
		t.Errorf("invalid name exit code = %d, want %d", r.code, ExitDataError)
	}
}

func TestCLI_ExportImport(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "-i")
	mustRun(t, dir, "-a", "00001", "Jane", "Doe", "F", "A")
	mustRun(t, dir, "-a", "00002", "John", "Roe", "M", "B")

	out := mustRun(t, dir, "export", "roster.jsonl")
	if !strings.Contains(out, "Exported 2 record(s)") {
		t.Errorf("export output = %q", out)
	}

	mustRun(t, dir, "-i")
	out = mustRun(t, dir, "import", "roster.jsonl")
	if !strings.Contains(out, "Imported 2 record(s)") {
		t.Errorf("import output = %q", out)
	}

	out = mustRun(t, dir, "import", "roster.jsonl")
	if !strings.Contains(out, "Imported 0 record(s)") || !strings.Contains(out, "00001: duplicate id") {
		t.Errorf("second import output = %q", out)
	}

	if rows := dataLines(mustRun(t, dir, "-l")); len(rows) != 2 {
		t.Errorf("list rows = %v, want 2", rows)
	}
}
