package testutil

import (
	"os"
	"testing"

	"github.com/arthur-debert/agentlink/pkg/types"
)

// AssertSymlink checks that link is a symlink whose target string is dest
func AssertSymlink(t *testing.T, fs types.FS, link, dest string) {
	t.Helper()

	info, err := fs.Lstat(link)
	if err != nil {
		t.Errorf("Expected symlink at %s: %v", link, err)
		return
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("Expected %s to be a symlink, mode is %v", link, info.Mode())
		return
	}
	actual, err := fs.Readlink(link)
	if err != nil {
		t.Errorf("Failed to read symlink %s: %v", link, err)
		return
	}
	if actual != dest {
		t.Errorf("Symlink %s points to %q, expected %q", link, actual, dest)
	}
}

// AssertNotSymlink checks that path exists and is not a symlink
func AssertNotSymlink(t *testing.T, fs types.FS, path string) {
	t.Helper()

	info, err := fs.Lstat(path)
	if err != nil {
		t.Errorf("Expected %s to exist: %v", path, err)
		return
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Errorf("Expected %s not to be a symlink", path)
	}
}

// AssertFileContent checks the content of the file at path
func AssertFileContent(t *testing.T, fs types.FS, path, expected string) {
	t.Helper()

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(data) != expected {
		t.Errorf("File %s content = %q, expected %q", path, string(data), expected)
	}
}

// AssertNotExists checks that nothing, not even a dangling link, is at path
func AssertNotExists(t *testing.T, fs types.FS, path string) {
	t.Helper()

	if _, err := fs.Lstat(path); err == nil {
		t.Errorf("Expected %s not to exist", path)
	}
}
