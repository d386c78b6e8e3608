package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// SessionTimeFormat names session directories. Lexical order of names equals
// creation order.
const SessionTimeFormat = "20060102-150405.000000"

// absMirrorDir holds mirrors of paths outside the base directory
const absMirrorDir = "_abs"

// Clock returns the current time
type Clock func() time.Time

// Manager creates, fills and reads backup sessions below one canonical root
type Manager struct {
	fs   types.FS
	dir  string
	base string
	now  Clock
}

// NewManager returns a manager for <canonicalRoot>/backup. Preserved paths
// are mirrored relative to base. A nil clock means time.Now.
func NewManager(fs types.FS, canonicalRoot, base string, clock Clock) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		fs:   fs,
		dir:  filepath.Join(canonicalRoot, paths.BackupDirName),
		base: filepath.Clean(base),
		now:  clock,
	}
}

// Dir returns the directory holding all sessions
func (m *Manager) Dir() string { return m.dir }

// Session is an open backup session. A nil *Session means none was needed.
type Session struct {
	ID        string
	Dir       string
	CreatedAt time.Time

	entries   []Entry
	finalized bool
}

// Entries returns what has been preserved so far
func (s *Session) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Begin creates a new, empty session directory
func (m *Manager) Begin() (*Session, error) {
	logger := logging.GetLogger("backup")
	now := m.now()

	name := now.Format(SessionTimeFormat)
	dir := filepath.Join(m.dir, name)
	for n := 2; ; n++ {
		if _, err := m.fs.Lstat(dir); err != nil {
			break
		}
		dir = filepath.Join(m.dir, fmt.Sprintf("%s-%d", name, n))
	}

	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackup, "cannot create backup session %s", dir)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Dir:       dir,
		CreatedAt: now,
	}
	logger.Debug().Str("session", dir).Str("id", s.ID).Msg("Backup session started")
	return s, nil
}

// Preserve records path in the session before it is overwritten.
//
// A missing path is a no-op. A symlink is recorded in a sidecar and removed.
// A file or directory is copied into the session; removing the original is
// left to the caller.
func (m *Manager) Preserve(s *Session, path string) error {
	if s == nil {
		return errors.New(errors.ErrInternal, "preserve called without a session")
	}
	if s.finalized {
		return errors.Newf(errors.ErrInternal, "session %s is already finalized", s.Dir)
	}
	logger := logging.GetLogger("backup")

	info, err := m.fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrBackup, "cannot stat %s", path)
	}

	mirror := m.mirrorPath(path)
	entry := Entry{Path: path}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		dest, err := m.fs.Readlink(path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "cannot read link %s", path)
		}
		sidecar := filepath.Join(s.Dir, mirror+SymlinkSuffix)
		if err := m.fs.MkdirAll(filepath.Dir(sidecar), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "cannot create %s", filepath.Dir(sidecar))
		}
		if err := m.fs.WriteFile(sidecar, []byte(dest), 0644); err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "cannot write sidecar for %s", path)
		}
		if err := m.fs.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "cannot remove link %s", path)
		}
		entry.Type = EntrySymlink
		entry.Backup = filepath.ToSlash(mirror + SymlinkSuffix)
		entry.LinkTarget = dest

	default:
		if err := CopyTree(m.fs, path, filepath.Join(s.Dir, mirror)); err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "cannot preserve %s", path)
		}
		entry.Type = EntryFile
		if info.IsDir() {
			entry.Type = EntryDirectory
		}
		entry.Backup = filepath.ToSlash(mirror)
	}

	s.entries = append(s.entries, entry)
	logger.Info().
		Str("path", path).
		Str("type", string(entry.Type)).
		Str("backup", entry.Backup).
		Msg("Preserved path")
	return nil
}

// Finalize writes the manifest and returns its path. A session that
// preserved nothing is deleted and "" is returned.
func (m *Manager) Finalize(s *Session, scope paths.Scope, op Operation) (string, error) {
	if s == nil {
		return "", nil
	}
	if s.finalized {
		return "", errors.Newf(errors.ErrInternal, "session %s is already finalized", s.Dir)
	}
	s.finalized = true
	logger := logging.GetLogger("backup")

	if len(s.entries) == 0 {
		if err := m.fs.RemoveAll(s.Dir); err != nil {
			return "", errors.Wrapf(err, errors.ErrBackup, "cannot remove empty session %s", s.Dir)
		}
		logger.Debug().Str("session", s.Dir).Msg("Removed empty backup session")
		return "", nil
	}

	manifest := &Manifest{
		Version:   ManifestVersion,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Scope:     string(scope),
		Operation: op,
		Base:      m.base,
		Paths:     make([]string, 0, len(s.entries)),
		Entries:   s.Entries(),
	}
	for _, e := range s.entries {
		manifest.Paths = append(manifest.Paths, e.Path)
	}

	data, err := manifest.encode()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding manifest")
	}

	path := filepath.Join(s.Dir, ManifestFileName)
	if err := m.fs.WriteFileAtomic(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot write manifest %s", path)
	}

	logger.Info().
		Str("manifest", path).
		Int("entries", len(s.entries)).
		Msg("Backup session finalized")
	return path, nil
}

// mirrorPath maps an absolute path onto its location inside a session
func (m *Manager) mirrorPath(path string) string {
	path = filepath.Clean(path)
	if paths.ContainsPath(m.base, path) {
		if rel, err := filepath.Rel(m.base, path); err == nil && rel != "." {
			return rel
		}
	}
	return filepath.Join(absMirrorDir, strings.TrimPrefix(path, string(filepath.Separator)))
}

// BackupPath returns where an entry's preserved copy lives on disk
func BackupPath(sessionDir string, e Entry) string {
	return filepath.Join(sessionDir, filepath.FromSlash(e.Backup))
}
