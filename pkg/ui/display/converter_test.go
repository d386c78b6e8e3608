package display

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentlink/pkg/apply"
	"github.com/arthur-debert/agentlink/pkg/backup"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/initialize"
	"github.com/arthur-debert/agentlink/pkg/linkstatus"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/style"
	"github.com/arthur-debert/agentlink/pkg/undo"
)

func TestFromApplyGroupsByClient(t *testing.T) {
	r := &apply.Result{
		Outcomes: []apply.Outcome{
			{Target: paths.LinkTarget{Client: clients.Claude, Kind: clients.Skills, Target: "/h/.claude/skills"},
				Status: linkstatus.Missing, Action: apply.ActionCreate},
			{Target: paths.LinkTarget{Client: clients.Claude, Kind: clients.Prompt, Target: "/h/.claude/CLAUDE.md"},
				Status: linkstatus.Conflict, Action: apply.ActionConflict},
			{Target: paths.LinkTarget{Client: clients.Codex, Kind: clients.Skills, Target: "/h/.codex/skills"},
				Status: linkstatus.Missing, Action: apply.ActionError, Err: errors.New("boom")},
		},
		Applied: 1, Conflicts: 1, Errors: 1,
	}

	doc := FromApply(r)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "claude", doc.Sections[0].Heading)
	assert.Len(t, doc.Sections[0].Rows, 2)
	assert.Equal(t, style.StateError, doc.Sections[1].Rows[0].State)
	assert.Equal(t, "boom", doc.Sections[1].Rows[0].Cells[4])
	assert.Equal(t, "applied 1, skipped 0, conflicts 1, errors 1", doc.Summary)
	assert.Equal(t, OutcomeFailure, doc.Outcome)
}

func TestFromApplyDryRun(t *testing.T) {
	r := &apply.Result{
		DryRun: true,
		Outcomes: []apply.Outcome{
			{Target: paths.LinkTarget{Client: clients.Codex, Kind: clients.Skills},
				Status: linkstatus.Missing, Action: apply.ActionCreate, Planned: true},
		},
		Applied: 1,
	}

	doc := FromApply(r)
	assert.Equal(t, "would create", doc.Sections[0].Rows[0].Cells[1])
	assert.Equal(t, "would apply 1, skipped 0, conflicts 0, errors 0", doc.Summary)
}

func TestFromUndo(t *testing.T) {
	r := &undo.Result{
		SessionPath: "/h/.agents/backup/s1",
		Restored:    1,
		Entries:     []backup.Entry{{Path: "/h/.claude/skills", Type: backup.EntryDirectory}},
		Failed:      []undo.Failure{{Entry: backup.Entry{Path: "/h/x", Type: backup.EntryFile}, Error: "gone"}},
	}

	doc := FromUndo(r)
	assert.Len(t, doc.Sections[0].Rows, 2)
	assert.Equal(t, "restored 1, failed 1, from session /h/.agents/backup/s1", doc.Summary)
	assert.Equal(t, OutcomeFailure, doc.Outcome)
}

func TestFromInit(t *testing.T) {
	r := &initialize.Result{
		Mode:          initialize.ModeMigrate,
		CanonicalRoot: "/h/.agents",
		From:          clients.Claude,
		SourceRoot:    "/h/.claude",
		Copied:        []string{"/h/.agents/CLAUDE.md"},
		Created:       []string{"/h/.agents/AGENTS.md"},
	}

	doc := FromInit(r)
	assert.Equal(t, "migrate: copied 1, created 1", doc.Summary)
	assert.Contains(t, doc.Note, "claude")
}

func TestFromHistory(t *testing.T) {
	h := &History{
		BackupDir: "/h/.agents/backup",
		Sessions: []backup.SessionInfo{
			{Name: "20260301-123045.123456", CreatedAt: time.Now().Add(-2 * time.Hour), HasManifest: true,
				Operation: backup.OpApply, Scope: "global", Entries: 2},
			{Name: "20260301-110000.000000"},
		},
	}

	doc := FromHistory(h)
	rows := doc.Sections[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "2 hours ago", rows[0].Cells[1])
	assert.Equal(t, "yes", rows[0].Cells[5])
	assert.Equal(t, "no", rows[1].Cells[5])
	assert.Equal(t, "2 sessions", doc.Summary)
}

func TestFromClientList(t *testing.T) {
	l := &ClientList{
		Scope: "global",
		Clients: []ClientInfo{
			{ID: clients.Cursor, Root: "/h/.cursor", Kinds: []clients.Kind{clients.Commands, clients.Hooks}, PromptFile: "AGENTS.md"},
		},
	}

	doc := FromClientList(l)
	row := doc.Sections[0].Rows[0]
	assert.Equal(t, "commands, hooks", row.Cells[2])
	assert.Equal(t, "-", row.Cells[3])
	assert.Equal(t, "1 client", doc.Summary)
}

func TestConvertUnknown(t *testing.T) {
	_, ok := Convert("plain string")
	assert.False(t, ok)
}
