// Package undo restores the paths preserved by the most recent backup
// session.
package undo

import (
	"path/filepath"

	"github.com/arthur-debert/agentlink/pkg/backup"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// Options configures one undo run
type Options struct {
	FS      types.FS
	Backups *backup.Manager
}

// Failure records an entry that could not be restored
type Failure struct {
	Entry backup.Entry `json:"entry"`
	Err   error        `json:"-"`
	Error string       `json:"error"`
}

// Result reports what undo restored
type Result struct {
	SessionPath string         `json:"session_path"`
	Manifest    string         `json:"manifest"`
	Operation   string         `json:"operation"`
	Restored    int            `json:"restored"`
	Entries     []backup.Entry `json:"entries"`
	Failed      []Failure      `json:"failed,omitempty"`
}

// HasErrors reports whether any entry failed to restore
func (r *Result) HasErrors() bool {
	return len(r.Failed) > 0
}

// Undo restores every entry of the newest session with a manifest, in
// manifest order. Whatever currently occupies a path is removed first. The
// session itself is left in place.
func Undo(opts Options) (*Result, error) {
	logger := logging.GetLogger("undo")
	done := logging.LogOperationStart(logger, "undo")
	defer done()

	if opts.FS == nil || opts.Backups == nil {
		return nil, errors.New(errors.ErrInvalidInput, "undo requires a filesystem and a backup manager")
	}

	manifest, dir, err := opts.Backups.Latest()
	if err != nil {
		return nil, err
	}

	result := &Result{
		SessionPath: dir,
		Manifest:    filepath.Join(dir, backup.ManifestFileName),
		Operation:   string(manifest.Operation),
	}

	for _, entry := range manifest.Entries {
		if err := restore(opts.FS, dir, entry); err != nil {
			logger.Error().Err(err).Str("path", entry.Path).Msg("Restore failed")
			result.Failed = append(result.Failed, Failure{Entry: entry, Err: err, Error: err.Error()})
			continue
		}
		result.Restored++
		result.Entries = append(result.Entries, entry)
		logger.Info().
			Str("path", entry.Path).
			Str("type", string(entry.Type)).
			Msg("Restored path")
	}

	logger.Info().
		Str("session", dir).
		Int("restored", result.Restored).
		Int("failed", len(result.Failed)).
		Msg("Undo finished")
	return result, nil
}

// restore checks the preserved copy before clearing entry.Path, so a
// damaged session leaves the current state alone. Symlinks are recreated
// from their sidecar, which must agree with the manifest.
func restore(fs types.FS, sessionDir string, entry backup.Entry) error {
	src := backup.BackupPath(sessionDir, entry)

	var linkDest string
	switch entry.Type {
	case backup.EntrySymlink:
		data, err := fs.ReadFile(src)
		if err != nil {
			return errors.Wrapf(err, errors.ErrRestore, "cannot read sidecar for %s", entry.Path)
		}
		linkDest = string(data)
		if entry.LinkTarget != "" && entry.LinkTarget != linkDest {
			return errors.Newf(errors.ErrRestore, "sidecar for %s records %q but the manifest records %q",
				entry.Path, linkDest, entry.LinkTarget).
				WithDetail("sidecar", src)
		}

	case backup.EntryFile, backup.EntryDirectory:
		if _, err := fs.Lstat(src); err != nil {
			return errors.Wrapf(err, errors.ErrRestore, "preserved copy of %s is missing", entry.Path)
		}

	default:
		return errors.Newf(errors.ErrRestore, "unknown entry type %q for %s", entry.Type, entry.Path)
	}

	if err := fs.RemoveAll(entry.Path); err != nil {
		return errors.Wrapf(err, errors.ErrRestore, "cannot clear %s", entry.Path)
	}
	parent := filepath.Dir(entry.Path)
	if err := fs.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrRestore, "cannot create %s", parent)
	}

	if entry.Type == backup.EntrySymlink {
		if err := fs.Symlink(linkDest, entry.Path); err != nil {
			return errors.Wrapf(err, errors.ErrRestore, "cannot recreate link %s", entry.Path)
		}
		return nil
	}
	if err := backup.CopyTree(fs, src, entry.Path); err != nil {
		return errors.Wrapf(err, errors.ErrRestore, "cannot restore %s", entry.Path)
	}
	return nil
}
