package backup

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

// SessionInfo summarizes one session directory for listing
type SessionInfo struct {
	Name        string    `json:"name"`
	Dir         string    `json:"dir"`
	CreatedAt   time.Time `json:"created_at"`
	HasManifest bool      `json:"has_manifest"`
	Invalid     bool      `json:"invalid,omitempty"`
	ID          string    `json:"id,omitempty"`
	Scope       string    `json:"scope,omitempty"`
	Operation   Operation `json:"operation,omitempty"`
	Entries     int       `json:"entries"`
}

// Latest returns the newest session that has a manifest, with its
// directory. Sessions without a manifest are skipped; an unreadable manifest
// is an error rather than a reason to fall back to an older session.
func (m *Manager) Latest() (*Manifest, string, error) {
	names, err := m.sessionNames()
	if err != nil {
		return nil, "", err
	}

	for i := len(names) - 1; i >= 0; i-- {
		dir := filepath.Join(m.dir, names[i])
		manifest, err := m.readManifest(dir)
		if err != nil {
			return nil, "", err
		}
		if manifest != nil {
			return manifest, dir, nil
		}
	}
	return nil, "", errors.New(errors.ErrNothingToUndo, "nothing to undo: no backup session with a manifest").
		WithDetail("backup_dir", m.dir)
}

// List returns every session, newest first
func (m *Manager) List() ([]SessionInfo, error) {
	names, err := m.sessionNames()
	if err != nil {
		return nil, err
	}

	infos := make([]SessionInfo, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		dir := filepath.Join(m.dir, names[i])
		info := SessionInfo{Name: names[i], Dir: dir}
		if t, ok := parseSessionTime(names[i]); ok {
			info.CreatedAt = t
		}

		manifest, err := m.readManifest(dir)
		switch {
		case err != nil:
			info.HasManifest = true
			info.Invalid = true
		case manifest != nil:
			info.HasManifest = true
			info.ID = manifest.ID
			info.Scope = manifest.Scope
			info.Operation = manifest.Operation
			info.Entries = len(manifest.Entries)
			info.CreatedAt = manifest.CreatedAt
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// readManifest returns nil without error when dir has no manifest
func (m *Manager) readManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := m.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "invalid manifest %s", path)
	}
	return manifest, nil
}

// sessionNames lists session directories oldest first
func (m *Manager) sessionNames() ([]string, error) {
	entries, err := m.fs.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", m.dir)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := parseSessionTime(e.Name()); !ok {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		return sessionLess(names[i], names[j])
	})
	return names, nil
}

// sessionLess orders by timestamp, then by collision suffix numerically
func sessionLess(a, b string) bool {
	ta, na := splitSessionName(a)
	tb, nb := splitSessionName(b)
	if ta != tb {
		return ta < tb
	}
	return na < nb
}

func splitSessionName(name string) (string, int) {
	if len(name) <= len(SessionTimeFormat) {
		return name, 1
	}
	stamp, suffix := name[:len(SessionTimeFormat)], name[len(SessionTimeFormat):]
	n, err := strconv.Atoi(strings.TrimPrefix(suffix, "-"))
	if err != nil {
		return name, 1
	}
	return stamp, n
}

func parseSessionTime(name string) (time.Time, bool) {
	stamp, _ := splitSessionName(name)
	if len(stamp) != len(SessionTimeFormat) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(SessionTimeFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
