package types

import (
	"io/fs"
)

// FS defines the filesystem operations needed by agentlink.
// Every engine component reaches the disk through this interface so the
// link state machine can run against an in-memory filesystem in tests.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// WriteFileAtomic replaces name in a single rename so readers never
	// observe a partially written file.
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// EvalSymlinks returns the path name after the evaluation of any
	// symbolic links, like filepath.EvalSymlinks.
	EvalSymlinks(path string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
