package backup

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/testutil"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestManager(t *testing.T) (*Manager, *testutil.TestEnvironment) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.Mkdir(env.Home(".agents"))
	clock := fixedClock(time.Date(2026, 3, 1, 12, 30, 45, 123456000, time.Local))
	return NewManager(env.FS, env.Home(".agents"), env.HomeDir, clock), env
}

func TestBeginNamesSessionByTimestamp(t *testing.T) {
	m, env := newTestManager(t)

	s, err := m.Begin()
	require.NoError(t, err)
	assert.Equal(t, env.Home(".agents", "backup", "20260301-123045.123456"), s.Dir)
	assert.NotEmpty(t, s.ID)
	assert.True(t, testutil.Exists(env.FS, s.Dir))

	again, err := m.Begin()
	require.NoError(t, err)
	assert.Equal(t, s.Dir+"-2", again.Dir)
}

func TestPreserveFileAndDirectory(t *testing.T) {
	m, env := newTestManager(t)
	env.WriteFile(env.Home(".claude", "CLAUDE.md"), "mine")
	env.WriteFile(env.Home(".claude", "skills", "foo.md"), "foo")

	s, err := m.Begin()
	require.NoError(t, err)

	require.NoError(t, m.Preserve(s, env.Home(".claude", "CLAUDE.md")))
	require.NoError(t, m.Preserve(s, env.Home(".claude", "skills")))

	testutil.AssertFileContent(t, env.FS, filepath.Join(s.Dir, ".claude", "CLAUDE.md"), "mine")
	testutil.AssertFileContent(t, env.FS, filepath.Join(s.Dir, ".claude", "skills", "foo.md"), "foo")

	// files and directories stay in place for the caller to remove
	assert.True(t, testutil.Exists(env.FS, env.Home(".claude", "skills", "foo.md")))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, EntryFile, entries[0].Type)
	assert.Equal(t, ".claude/CLAUDE.md", entries[0].Backup)
	assert.Equal(t, EntryDirectory, entries[1].Type)
}

func TestPreserveSymlinkWritesSidecar(t *testing.T) {
	m, env := newTestManager(t)
	env.Symlink("/somewhere/else", env.Home(".gemini", "GEMINI.md"))

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, env.Home(".gemini", "GEMINI.md")))

	testutil.AssertFileContent(t, env.FS, filepath.Join(s.Dir, ".gemini", "GEMINI.md.symlink"), "/somewhere/else")
	testutil.AssertNotExists(t, env.FS, env.Home(".gemini", "GEMINI.md"))

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, EntrySymlink, entries[0].Type)
	assert.Equal(t, "/somewhere/else", entries[0].LinkTarget)
}

func TestPreserveKeepsInnerSymlinks(t *testing.T) {
	m, env := newTestManager(t)
	env.Mkdir(env.Home(".claude", "skills"))
	env.Symlink("../shared/x.md", env.Home(".claude", "skills", "x.md"))

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, env.Home(".claude", "skills")))

	testutil.AssertSymlink(t, env.FS, filepath.Join(s.Dir, ".claude", "skills", "x.md"), "../shared/x.md")
}

func TestPreserveMissingPathIsNoop(t *testing.T) {
	m, env := newTestManager(t)

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, env.Home(".claude", "nothing")))
	assert.Empty(t, s.Entries())
}

func TestPreserveOutsideBaseMirrorsUnderAbs(t *testing.T) {
	m, env := newTestManager(t)
	env.WriteFile("/opt/claude/CLAUDE.md", "x")

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, "/opt/claude/CLAUDE.md"))

	assert.Equal(t, "_abs/opt/claude/CLAUDE.md", s.Entries()[0].Backup)
	testutil.AssertFileContent(t, env.FS, filepath.Join(s.Dir, "_abs", "opt", "claude", "CLAUDE.md"), "x")
}

func TestPreserveWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.Preserve(nil, "/x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestFinalizeEmptySessionRemovesDirectory(t *testing.T) {
	m, env := newTestManager(t)

	s, err := m.Begin()
	require.NoError(t, err)

	path, err := m.Finalize(s, paths.ScopeGlobal, OpApply)
	require.NoError(t, err)
	assert.Empty(t, path)
	testutil.AssertNotExists(t, env.FS, s.Dir)

	_, err = m.Finalize(s, paths.ScopeGlobal, OpApply)
	assert.Error(t, err, "finalizing twice")
}

func TestFinalizeNilSession(t *testing.T) {
	m, _ := newTestManager(t)
	path, err := m.Finalize(nil, paths.ScopeGlobal, OpApply)
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestFinalizeWritesManifest(t *testing.T) {
	m, env := newTestManager(t)
	env.WriteFile(env.Home(".claude", "CLAUDE.md"), "mine")
	env.Symlink("/x", env.Home(".gemini", "GEMINI.md"))

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, env.Home(".claude", "CLAUDE.md")))
	require.NoError(t, m.Preserve(s, env.Home(".gemini", "GEMINI.md")))

	path, err := m.Finalize(s, paths.ScopeGlobal, OpApply)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, ManifestFileName), path)

	data := testutil.ReadFile(t, env.FS, path)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &raw))
	assert.Equal(t, ManifestVersion, raw["version"])
	assert.Equal(t, "global", raw["scope"])
	assert.Equal(t, "apply", raw["operation"])

	manifest, err := ParseManifest([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{env.Home(".claude", "CLAUDE.md"), env.Home(".gemini", "GEMINI.md")}, manifest.Paths)
	assert.Equal(t, s.ID, manifest.ID)
	assert.Equal(t, env.HomeDir, manifest.Base)
}

func TestLatestSkipsSessionsWithoutManifest(t *testing.T) {
	m, env := newTestManager(t)
	env.WriteFile(env.Home(".claude", "CLAUDE.md"), "mine")

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, env.Home(".claude", "CLAUDE.md")))
	_, err = m.Finalize(s, paths.ScopeGlobal, OpApply)
	require.NoError(t, err)

	// a newer, interrupted session
	env.Mkdir(env.Home(".agents", "backup", "20260301-123045.123456-3"))

	manifest, dir, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, s.Dir, dir)
	assert.Equal(t, s.ID, manifest.ID)
}

func TestLatestNothingToUndo(t *testing.T) {
	m, env := newTestManager(t)

	_, _, err := m.Latest()
	assert.True(t, errors.IsErrorCode(err, errors.ErrNothingToUndo))

	env.Mkdir(env.Home(".agents", "backup", "20260301-123045.123456"))
	_, _, err = m.Latest()
	assert.True(t, errors.IsErrorCode(err, errors.ErrNothingToUndo))
}

func TestLatestRejectsInvalidManifest(t *testing.T) {
	m, env := newTestManager(t)
	env.WriteFile(env.Home(".agents", "backup", "20260301-123045.123456", ManifestFileName), `{"version": "1.0.0"}`)

	_, _, err := m.Latest()
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
}

func TestList(t *testing.T) {
	m, env := newTestManager(t)
	env.WriteFile(env.Home(".claude", "CLAUDE.md"), "mine")

	s, err := m.Begin()
	require.NoError(t, err)
	require.NoError(t, m.Preserve(s, env.Home(".claude", "CLAUDE.md")))
	_, err = m.Finalize(s, paths.ScopeGlobal, OpApply)
	require.NoError(t, err)

	env.Mkdir(env.Home(".agents", "backup", "20260301-123045.123456-10"))
	env.Mkdir(env.Home(".agents", "backup", "20260301-123045.123456-2"))
	env.Mkdir(env.Home(".agents", "backup", "not-a-session"))

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "20260301-123045.123456-10", infos[0].Name)
	assert.Equal(t, "20260301-123045.123456-2", infos[1].Name)
	assert.False(t, infos[1].HasManifest)
	assert.True(t, infos[2].HasManifest)
	assert.Equal(t, 1, infos[2].Entries)
	assert.Equal(t, OpApply, infos[2].Operation)
}

func TestListWithoutBackupDir(t *testing.T) {
	m, _ := newTestManager(t)
	infos, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}
