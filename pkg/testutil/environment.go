package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentlink/pkg/filesystem"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a home directory, a project directory and the
// filesystem both live on
type TestEnvironment struct {
	HomeDir    string
	ProjectDir string

	FS   types.FS
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment with HomeDir and
// ProjectDir already present
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.HomeDir = "/virtual/home"
		env.ProjectDir = "/virtual/work/project"
		env.FS = NewMemoryFS()
	case EnvIsolated:
		// Resolve the temp dir so paths compare equal to EvalSymlinks output
		// on systems where TMPDIR itself is a symlink.
		tempDir, err := filepath.EvalSymlinks(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to resolve temp dir: %v", err)
		}
		env.HomeDir = filepath.Join(tempDir, "home")
		env.ProjectDir = filepath.Join(tempDir, "work", "project")
		env.FS = filesystem.NewOS()
	}

	env.Mkdir(env.HomeDir)
	env.Mkdir(env.ProjectDir)
	t.Setenv("HOME", env.HomeDir)

	return env
}

// Home joins elem onto the home directory
func (env *TestEnvironment) Home(elem ...string) string {
	return filepath.Join(append([]string{env.HomeDir}, elem...)...)
}

// Project joins elem onto the project directory
func (env *TestEnvironment) Project(elem ...string) string {
	return filepath.Join(append([]string{env.ProjectDir}, elem...)...)
}

// WriteFile writes content at path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	WriteFile(env.t, env.FS, path, content)
}

// Mkdir creates path and its parents
func (env *TestEnvironment) Mkdir(path string) {
	env.t.Helper()
	Mkdir(env.t, env.FS, path)
}

// Symlink creates link pointing at dest, creating link's parent directory
func (env *TestEnvironment) Symlink(dest, link string) {
	env.t.Helper()
	Symlink(env.t, env.FS, dest, link)
}

// WithFileTree creates every file of tree below root
func (env *TestEnvironment) WithFileTree(root string, tree FileTree) {
	env.t.Helper()
	for rel, content := range tree {
		WriteFile(env.t, env.FS, filepath.Join(root, rel), content)
	}
}

// FileTree maps slash-separated relative paths to file content
type FileTree map[string]string
