// Package testutil holds filesystem helpers and fakes shared by the
// package tests.
package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// WriteFile creates a file with content on fs, creating parent directories
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it is missing
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// AssertFileExists checks that a regular file exists
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	info, err := fs.Stat(path)
	if err != nil {
		t.Errorf("Expected file to exist: %s", path)
		return
	}
	if info.IsDir() {
		t.Errorf("Expected %s to be a file, got a directory", path)
	}
}

// AssertFileNotExists checks that nothing exists at path
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if exists, _ := afero.Exists(fs, path); exists {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks that a file has exactly the expected content
func AssertFileContent(t *testing.T, fs afero.Fs, path, expected string) {
	t.Helper()

	if got := ReadFile(t, fs, path); got != expected {
		t.Errorf("File content mismatch for %s\nExpected: %q\nGot:      %q", path, expected, got)
	}
}

// AssertContains checks that output contains every one of wants
func AssertContains(t *testing.T, output string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q\nGot:\n%s", want, output)
		}
	}
}

// ListDir returns the names in dir, sorted, or nil when dir is missing
func ListDir(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
