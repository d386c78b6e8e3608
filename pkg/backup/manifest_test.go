package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

const validManifest = `{
  "version": "1.2.0",
  "id": "5f0c",
  "created_at": "2026-03-01T12:30:45.123456Z",
  "scope": "project",
  "operation": "apply",
  "base": "/work/p",
  "paths": ["/work/p/.claude/skills"],
  "entries": [
    {"path": "/work/p/.claude/skills", "type": "directory", "backup": ".claude/skills"}
  ]
}`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(validManifest))
	require.NoError(t, err)
	assert.Equal(t, "project", m.Scope)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, EntryDirectory, m.Entries[0].Type)
}

func TestParseManifestRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "missing fields", data: `{"version": "1.0.0"}`},
		{name: "unknown scope", data: `{"version":"1.0.0","id":"a","created_at":"2026-03-01T12:30:45Z","scope":"system","operation":"apply","base":"/","paths":[],"entries":[]}`},
		{name: "symlink without target", data: `{"version":"1.0.0","id":"a","created_at":"2026-03-01T12:30:45Z","scope":"global","operation":"apply","base":"/","paths":["/x"],"entries":[{"path":"/x","type":"symlink","backup":"x.symlink"}]}`},
		{name: "future major version", data: `{"version":"2.0.0","id":"a","created_at":"2026-03-01T12:30:45Z","scope":"global","operation":"apply","base":"/","paths":[],"entries":[]}`},
		{name: "garbage version", data: `{"version":"one","id":"a","created_at":"2026-03-01T12:30:45Z","scope":"global","operation":"apply","base":"/","paths":[],"entries":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
		})
	}
}
