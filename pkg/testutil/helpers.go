package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentlink/pkg/types"
)

// WriteFile writes content at path, creating parent directories
func WriteFile(t *testing.T, fs types.FS, path, content string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// Mkdir creates path and its parents
func Mkdir(t *testing.T, fs types.FS, path string) {
	t.Helper()
	if err := fs.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// Symlink creates link pointing at dest, creating link's parent directory
func Symlink(t *testing.T, fs types.FS, dest, link string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", link, err)
	}
	if err := fs.Symlink(dest, link); err != nil {
		t.Fatalf("Failed to create symlink %s -> %s: %v", link, dest, err)
	}
}

// ReadFile returns the content at path or fails the test
func ReadFile(t *testing.T, fs types.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether anything, including a dangling symlink, is at path
func Exists(fs types.FS, path string) bool {
	_, err := fs.Lstat(path)
	return err == nil
}

// IsSymlink reports whether path is a symlink
func IsSymlink(fs types.FS, path string) bool {
	info, err := fs.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
