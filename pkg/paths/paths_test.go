package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandHomeFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "tilde only", input: "~", want: "/h"},
		{name: "tilde slash", input: "~/.claude", want: "/h/.claude"},
		{name: "nested", input: "~/.config/opencode", want: "/h/.config/opencode"},
		{name: "other user", input: "~bob/x", want: "~bob/x"},
		{name: "absolute", input: "/etc/x", want: "/etc/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHomeFrom(tt.input, "/h"))
		})
	}
}

func TestContainsPath(t *testing.T) {
	assert.True(t, ContainsPath("/h", "/h/.claude/skills"))
	assert.True(t, ContainsPath("/h", "/h"))
	assert.False(t, ContainsPath("/h", "/other"))
	assert.False(t, ContainsPath("/h/a", "/h/ab"))
	assert.True(t, ContainsPath("/h", "/h/..hidden"))
}

func TestConfigDirOverride(t *testing.T) {
	t.Setenv(EnvConfigDir, "/custom/conf")
	assert.Equal(t, "/custom/conf", ConfigDir())
	assert.Equal(t, filepath.Join("/custom/conf", ConfigFileName), ConfigFilePath())
}
