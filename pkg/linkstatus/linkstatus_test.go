package linkstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/agentlink/pkg/testutil"
)

func TestClassify(t *testing.T) {
	const (
		src = "/h/.agents/skills"
		tgt = "/h/.claude/skills"
	)

	tests := []struct {
		name  string
		setup func(env *testutil.TestEnvironment)
		want  Status
		msg   string
	}{
		{
			name:  "source and target absent",
			setup: func(env *testutil.TestEnvironment) {},
			want:  MissingSource,
		},
		{
			name: "source absent target present",
			setup: func(env *testutil.TestEnvironment) {
				env.Symlink(src, tgt)
			},
			want: MissingSource,
		},
		{
			name: "target absent",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
			},
			want: Missing,
		},
		{
			name: "correct link",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
				env.Symlink(src, tgt)
			},
			want: Linked,
			msg:  "linked",
		},
		{
			name: "relative link to the source",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
				env.Symlink("../.agents/skills", tgt)
			},
			want: Linked,
		},
		{
			name: "regular file in the way",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
				env.WriteFile(tgt, "mine")
			},
			want: Conflict,
			msg:  "a file is in the way",
		},
		{
			name: "real directory in the way",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
				env.WriteFile(tgt+"/foo.md", "foo")
			},
			want: Conflict,
			msg:  "a directory is in the way",
		},
		{
			name: "link elsewhere",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
				env.Mkdir("/h/other")
				env.Symlink("/h/other", tgt)
			},
			want: Conflict,
			msg:  "symlink points elsewhere",
		},
		{
			name: "dangling link is a conflict",
			setup: func(env *testutil.TestEnvironment) {
				env.Mkdir(src)
				env.Symlink("/h/gone", tgt)
			},
			want: Conflict,
			msg:  "symlink is dangling",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			tt.setup(env)

			status, detail := Check(env.FS, src, tgt)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.want, Classify(env.FS, src, tgt))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, detail.Message)
			}
		})
	}
}

func TestCheckOnDisk(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	src := env.Home(".agents", "AGENTS.md")
	tgt := env.Home(".codex", "AGENTS.md")

	env.WriteFile(src, "prompt")
	assert.Equal(t, Missing, Classify(env.FS, src, tgt))

	env.Symlink(src, tgt)
	status, detail := Check(env.FS, src, tgt)
	assert.Equal(t, Linked, status)
	assert.True(t, detail.IsSymlink)
	assert.Equal(t, src, detail.LinkDest)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "missing-source", MissingSource.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "linked", Linked.String())
	assert.Equal(t, "conflict", Conflict.String())

	text, err := Conflict.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "conflict", string(text))
}
