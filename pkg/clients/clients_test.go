package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

func TestDefaultRegistryIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.NotPanics(t, MustValidate)
}

func TestDefaultRegistryTable(t *testing.T) {
	reg := Default()
	assert.Equal(t, []ID{Claude, Gemini, Codex, Cursor, OpenCode}, reg.IDs())

	gemini, ok := reg.Get(Gemini)
	require.True(t, ok)
	assert.Equal(t, []Kind{Commands, Skills, Prompt}, gemini.Kinds)
	assert.Equal(t, "GEMINI.md", gemini.TargetName(Prompt))
	assert.Equal(t, "skills", gemini.TargetName(Skills))
	assert.True(t, gemini.PromptOverride())

	codex, _ := reg.Get(Codex)
	assert.False(t, codex.PromptOverride())
	assert.False(t, codex.Supports(Commands))

	cursor, _ := reg.Get(Cursor)
	assert.False(t, cursor.Supports(Prompt))
}

func TestDefaultReturnsCopy(t *testing.T) {
	reg := Default()
	reg[0].Kinds[0] = Prompt
	reg[0].GlobalRoot = "/elsewhere"

	fresh := Default()
	assert.Equal(t, Commands, fresh[0].Kinds[0])
	assert.Equal(t, "~/.claude", fresh[0].GlobalRoot)
}

func TestParseList(t *testing.T) {
	reg := Default()

	tests := []struct {
		name    string
		input   string
		want    []ID
		wantErr bool
	}{
		{name: "empty selects all", input: "", want: reg.IDs()},
		{name: "single", input: "gemini", want: []ID{Gemini}},
		{name: "keeps given order", input: "codex,claude", want: []ID{Codex, Claude}},
		{name: "trims and lowercases", input: " Claude , GEMINI ", want: []ID{Claude, Gemini}},
		{name: "collapses duplicates", input: "claude,claude", want: []ID{Claude}},
		{name: "unknown client", input: "claude,vim", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.ParseList(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownClient))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	base := Client{ID: "x", GlobalRoot: "~/.x", Kinds: []Kind{Skills}, PromptFile: "X.md"}

	tests := []struct {
		name string
		reg  Registry
	}{
		{name: "duplicate id", reg: Registry{base, base}},
		{name: "empty kinds", reg: Registry{{ID: "x", GlobalRoot: "~/.x"}}},
		{name: "kind twice", reg: Registry{{ID: "x", GlobalRoot: "~/.x", Kinds: []Kind{Skills, Skills}}}},
		{name: "unknown kind", reg: Registry{{ID: "x", GlobalRoot: "~/.x", Kinds: []Kind{"themes"}}}},
		{name: "prompt without file", reg: Registry{{ID: "x", GlobalRoot: "~/.x", Kinds: []Kind{Prompt}}}},
		{
			name: "overlapping target names",
			reg:  Registry{{ID: "x", GlobalRoot: "~/.x", Kinds: []Kind{Skills, Prompt}, PromptFile: "skills"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRegistry))
		})
	}
}

func TestWithGlobalRoot(t *testing.T) {
	reg := Default()
	moved, err := reg.WithGlobalRoot(Claude, "/opt/claude")
	require.NoError(t, err)

	c, _ := moved.Get(Claude)
	assert.Equal(t, "/opt/claude", c.GlobalRoot)
	orig, _ := reg.Get(Claude)
	assert.Equal(t, "~/.claude", orig.GlobalRoot)

	_, err = reg.WithGlobalRoot("vim", "/x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownClient))
}
