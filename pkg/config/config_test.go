package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/paths"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "global", cfg.Defaults.Scope)
	assert.Empty(t, cfg.Defaults.Clients)
	assert.Equal(t, "claude", cfg.Defaults.From)
	assert.Equal(t, "auto", cfg.Output.Format)
	assert.Contains(t, cfg.Init.PromptTemplate, "# Agent instructions")
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutUserFile(t *testing.T) {
	t.Setenv(paths.EnvConfigDir, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "global", cfg.Defaults.Scope)
}

func TestLoadFromXDGLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[defaults]\nscope = \"project\"\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.Path)
	assert.Equal(t, "project", cfg.Defaults.Scope)
	assert.Equal(t, "claude", cfg.Defaults.From, "unset keys keep their defaults")
}

func TestLoadUserOverrides(t *testing.T) {
	path := writeConfig(t, `
[defaults]
clients = ["gemini", "codex"]
from = "gemini"

[output]
format = "json"

[clients.claude]
global_root = "/opt/claude"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"gemini", "codex"}, cfg.Defaults.Clients)
	assert.Equal(t, "gemini", cfg.Defaults.From)
	assert.Equal(t, "json", cfg.Output.Format)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	claude, ok := reg.Get(clients.Claude)
	require.True(t, ok)
	assert.Equal(t, "/opt/claude", claude.GlobalRoot)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad scope", content: "[defaults]\nscope = \"system\"\n"},
		{name: "unknown default client", content: "[defaults]\nclients = [\"vim\"]\n"},
		{name: "unknown from", content: "[defaults]\nfrom = \"vim\"\n"},
		{name: "unknown client section", content: "[clients.vim]\nglobal_root = \"~/.vim\"\n"},
		{name: "broken toml", content: "[defaults\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
		})
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestGenerateConfigContent(t *testing.T) {
	content, err := GenerateConfigContent()
	require.NoError(t, err)

	assert.Contains(t, content, "[defaults]")
	assert.Contains(t, content, "# scope = ")
	assert.Contains(t, content, "# format = ")

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "["), "uncommented value line %q", line)
	}

	// the generated file parses and yields the defaults
	k := koanf.New(".")
	require.NoError(t, k.Load(&rawBytesProvider{bytes: []byte(content)}, toml.Parser()))
	assert.Empty(t, k.String("defaults.scope"))
}

func TestCommentOutConfigValues(t *testing.T) {
	in := "# title\n\n[output]\nformat = \"auto\"\n"
	want := "# title\n\n[output]\n# format = \"auto\"\n"
	assert.Equal(t, want, commentOutConfigValues(in))
}
