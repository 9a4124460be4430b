// Package testutil provides fixture helpers for building sshd_config
// include trees under a temporary directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds a temporary configuration tree for one test.
type Env struct {
	T   *testing.T
	Dir string
}

// NewEnv creates a test environment rooted at t.TempDir().
func NewEnv(t *testing.T) *Env {
	t.Helper()
	return &Env{T: t, Dir: t.TempDir()}
}

// WriteConfig writes a configuration file at relpath (creating parent
// directories) and returns its absolute path.
func (e *Env) WriteConfig(relpath, content string) string {
	e.T.Helper()

	path := filepath.Join(e.Dir, relpath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.T.Fatalf("Failed to create directory for %s: %v", relpath, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write %s: %v", relpath, err)
	}
	return path
}

// ReadConfig reads a configuration file at relpath.
func (e *Env) ReadConfig(relpath string) string {
	e.T.Helper()

	data, err := os.ReadFile(filepath.Join(e.Dir, relpath))
	if err != nil {
		e.T.Fatalf("Failed to read %s: %v", relpath, err)
	}
	return string(data)
}

// Path returns the absolute path for a relative fixture path.
func (e *Env) Path(relpath string) string {
	return filepath.Join(e.Dir, relpath)
}
