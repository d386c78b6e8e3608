package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/linkstatus"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/status"
)

func sampleReport() *status.Report {
	return &status.Report{
		Scope:         paths.ScopeGlobal,
		CanonicalRoot: "/h/.agents",
		Initialized:   true,
		Clients: []status.ClientReport{{
			Client: clients.Gemini,
			Root:   "/h/.gemini",
			Entries: []status.Entry{
				{Kind: clients.Skills, Source: "/h/.agents/skills", Target: "/h/.gemini/skills", Status: linkstatus.Linked},
				{Kind: clients.Prompt, Source: "/h/.agents/AGENTS.md", Target: "/h/.gemini/GEMINI.md", Status: linkstatus.Conflict},
			},
		}},
		Counts: status.Counts{Linked: 1, Conflict: 1},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatAuto},
		{"auto", FormatAuto},
		{"term", FormatTerminal},
		{"terminal", FormatTerminal},
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"yml", FormatYAML},
		{" Plain ", FormatText},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "json")
}

func TestFormatString(t *testing.T) {
	for _, f := range []Format{FormatAuto, FormatTerminal, FormatText, FormatJSON, FormatYAML} {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	assert.Equal(t, "unknown", Format(42).String())
}

func TestDetectFormatHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(os.Stdout))
}

func TestAutoOnBufferIsText(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatAuto, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "gemini: /h/.gemini")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextRendererEndsWithSummary(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatText, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleReport()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "1 linked, 0 missing, 0 missing-source, 1 conflict", lines[len(lines)-1])
	assert.Contains(t, buf.String(), "conflict")
	assert.Contains(t, buf.String(), "/h/.gemini/GEMINI.md")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, `"canonical_root": "/h/.agents"`)
	assert.Contains(t, out, `"status": "linked"`)
	assert.Contains(t, out, `"status": "conflict"`)
}

func TestYAMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatYAML, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "canonical_root: /h/.agents")
	assert.Contains(t, out, "status: conflict")
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatTerminal, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderResult(sampleReport()))
	require.NoError(t, r.RenderMessage("hello"))

	out := buf.String()
	assert.Contains(t, out, "gemini")
	assert.Contains(t, out, "/h/.gemini/skills")
	assert.Contains(t, out, "hello")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderError(assert.AnError))
	assert.Contains(t, buf.String(), `"error"`)
}
