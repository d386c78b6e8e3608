package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// maxLinkDepth bounds symlink resolution, like the kernel's ELOOP limit
const maxLinkDepth = 40

// MemoryFS implements types.FS interface with in-memory storage.
// Symlinks are first-class: Stat follows them, Lstat does not, and
// intermediate links in a path are resolved the way the OS does.
type MemoryFS struct {
	mu   sync.RWMutex
	root *fileNode

	// Error injection
	errorPaths map[string]error
}

// fileNode represents a file, directory or symlink in memory
type fileNode struct {
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
	children map[string]*fileNode
}

// NewMemoryFS creates a new in-memory filesystem containing only "/"
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		root:       newDirNode(0755),
		errorPaths: make(map[string]error),
	}
}

func newDirNode(perm os.FileMode) *fileNode {
	return &fileNode{
		mode:     perm | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}
}

// normalizePath converts a path to a clean absolute form
func normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join("/", path)
	}
	return filepath.Clean(path)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// injected returns the error configured for path, if any
func (m *MemoryFS) injected(path string) error {
	return m.errorPaths[normalizePath(path)]
}

// lookup walks path from the root, resolving intermediate symlinks, and
// returns the node together with its resolved real path. The final
// component is only followed when followLast is set.
func (m *MemoryFS) lookup(path string, followLast bool, depth int) (*fileNode, string, error) {
	if depth > maxLinkDepth {
		return nil, "", pathError("lstat", path, syscall.ELOOP)
	}

	path = normalizePath(path)
	parts := splitPath(path)
	cur := m.root
	curPath := "/"

	for i, part := range parts {
		if !cur.isDir {
			return nil, "", pathError("lstat", path, syscall.ENOTDIR)
		}
		child, ok := cur.children[part]
		if !ok {
			return nil, "", pathError("lstat", path, fs.ErrNotExist)
		}
		last := i == len(parts)-1
		if child.isLink && (!last || followLast) {
			dest := child.linkDest
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(curPath, dest)
			}
			node, real, err := m.lookup(dest, true, depth+1)
			if err != nil {
				return nil, "", pathError("lstat", path, fs.ErrNotExist)
			}
			cur, curPath = node, real
			continue
		}
		cur, curPath = child, filepath.Join(curPath, part)
	}

	return cur, curPath, nil
}

// parentDir resolves the directory that holds path's final component
func (m *MemoryFS) parentDir(op, path string) (*fileNode, string, error) {
	path = normalizePath(path)
	parent, _, err := m.lookup(filepath.Dir(path), true, 0)
	if err != nil {
		return nil, "", pathError(op, path, fs.ErrNotExist)
	}
	if !parent.isDir {
		return nil, "", pathError(op, path, syscall.ENOTDIR)
	}
	return parent, filepath.Base(path), nil
}

// Stat returns file info, following symlinks
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, _, err := m.lookup(name, true, 0)
	if err != nil {
		return nil, pathError("stat", name, fs.ErrNotExist)
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// Lstat returns file info without following a final symlink
func (m *MemoryFS) Lstat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, _, err := m.lookup(name, false, 0)
	if err != nil {
		return nil, pathError("lstat", name, fs.ErrNotExist)
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// EvalSymlinks returns the real path of name
func (m *MemoryFS) EvalSymlinks(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected(name); err != nil {
		return "", err
	}
	_, real, err := m.lookup(name, true, 0)
	if err != nil {
		return "", err
	}
	return real, nil
}

// ReadFile reads the entire file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, _, err := m.lookup(name, true, 0)
	if err != nil {
		return nil, pathError("open", name, fs.ErrNotExist)
	}
	if node.isDir {
		return nil, pathError("read", name, syscall.EISDIR)
	}

	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file. Like os.WriteFile, the parent
// directory must already exist and an existing symlink is written through.
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(name); err != nil {
		return err
	}

	if node, _, err := m.lookup(name, true, 0); err == nil {
		if node.isDir {
			return pathError("open", name, syscall.EISDIR)
		}
		node.content = append([]byte(nil), data...)
		node.modTime = time.Now()
		return nil
	}

	parent, base, err := m.parentDir("open", name)
	if err != nil {
		return err
	}
	if existing, ok := parent.children[base]; ok && existing.isLink {
		// dangling link: os.WriteFile would create the link's target
		return pathError("open", name, fs.ErrNotExist)
	}
	parent.children[base] = &fileNode{
		mode:    perm,
		modTime: time.Now(),
		content: append([]byte(nil), data...),
	}
	return nil
}

// WriteFileAtomic behaves like WriteFile; a memory write is already atomic
func (m *MemoryFS) WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	return m.WriteFile(name, data, perm)
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(path); err != nil {
		return err
	}

	path = normalizePath(path)
	cur := "/"
	for _, part := range splitPath(path) {
		next := filepath.Join(cur, part)
		node, _, err := m.lookup(next, true, 0)
		if err == nil {
			if !node.isDir {
				return pathError("mkdir", next, syscall.ENOTDIR)
			}
			cur = next
			continue
		}
		parent, base, err := m.parentDir("mkdir", next)
		if err != nil {
			return err
		}
		if existing, ok := parent.children[base]; ok && existing.isLink {
			return pathError("mkdir", next, fs.ErrExist)
		}
		parent.children[base] = newDirNode(perm)
		cur = next
	}
	return nil
}

// ReadDir reads a directory and returns its entries sorted by name
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, _, err := m.lookup(name, true, 0)
	if err != nil {
		return nil, pathError("open", name, fs.ErrNotExist)
	}
	if !node.isDir {
		return nil, pathError("readdirent", name, syscall.ENOTDIR)
	}

	entries := make([]fs.DirEntry, 0, len(node.children))
	for childName, child := range node.children {
		entries = append(entries, &dirEntry{info: &fileInfo{node: child, name: childName}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Symlink creates newname as a symbolic link to oldname
func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(newname); err != nil {
		return err
	}
	parent, base, err := m.parentDir("symlink", newname)
	if err != nil {
		return err
	}
	if _, exists := parent.children[base]; exists {
		return pathError("symlink", newname, fs.ErrExist)
	}
	parent.children[base] = &fileNode{
		mode:     0777 | os.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: oldname,
	}
	return nil
}

// Readlink returns the destination of a symbolic link
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.injected(name); err != nil {
		return "", err
	}
	node, _, err := m.lookup(name, false, 0)
	if err != nil {
		return "", pathError("readlink", name, fs.ErrNotExist)
	}
	if !node.isLink {
		return "", pathError("readlink", name, syscall.EINVAL)
	}
	return node.linkDest, nil
}

// Remove removes a file, symlink or empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(name); err != nil {
		return err
	}
	parent, base, err := m.parentDir("remove", name)
	if err != nil {
		return err
	}
	node, ok := parent.children[base]
	if !ok {
		return pathError("remove", name, fs.ErrNotExist)
	}
	if node.isDir && len(node.children) > 0 {
		return pathError("remove", name, syscall.ENOTEMPTY)
	}
	delete(parent.children, base)
	return nil
}

// RemoveAll removes path and any children it contains.
// A missing path is not an error.
func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(path); err != nil {
		return err
	}
	parent, base, err := m.parentDir("unlinkat", path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	delete(parent.children, base)
	return nil
}

// Rename moves oldpath to newpath, replacing a non-directory newpath
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(oldpath); err != nil {
		return err
	}
	oldParent, oldBase, err := m.parentDir("rename", oldpath)
	if err != nil {
		return err
	}
	node, ok := oldParent.children[oldBase]
	if !ok {
		return pathError("rename", oldpath, fs.ErrNotExist)
	}
	newParent, newBase, err := m.parentDir("rename", newpath)
	if err != nil {
		return err
	}
	if existing, ok := newParent.children[newBase]; ok && existing.isDir {
		return pathError("rename", newpath, fs.ErrExist)
	}
	delete(oldParent.children, oldBase)
	newParent.children[newBase] = node
	return nil
}

// WithError configures the filesystem to return an error for a specific path
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[normalizePath(path)] = err
	return m
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry
type dirEntry struct {
	info *fileInfo
}

func (de *dirEntry) Name() string               { return de.info.name }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() os.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (os.FileInfo, error) { return de.info, nil }
