package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/studentdb/internal/student"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadJSONL reads all students from a JSONL file, one object per line.
// Records are returned as written; validation is left to the caller.
func ReadJSONL(path string) ([]student.Student, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster file: %w", err)
	}
	defer f.Close()

	var students []student.Student
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var s student.Student
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		students = append(students, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	return students, nil
}

// WriteJSONL writes all students to a JSONL file atomically.
// Uses temp file + rename for atomic operation.
func WriteJSONL(path string, students []student.Student) error {
	// Create temp file in same directory for atomic rename
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmpFile)
	enc := json.NewEncoder(w)
	for i, s := range students {
		if err := enc.Encode(s); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing student %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("flushing roster file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
