// Package initialize creates the canonical root, either empty from a
// template or by copying an existing client's configuration into it.
package initialize

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/agentlink/pkg/backup"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// DefaultPromptTemplate seeds the fallback prompt of a bootstrapped root
const DefaultPromptTemplate = `# Agent instructions

Shared instructions for every coding agent. Client specific overrides such
as CLAUDE.md or GEMINI.md can live next to this file.
`

// Mode tells how the canonical root was populated
type Mode string

const (
	ModeBootstrap Mode = "bootstrap"
	ModeMigrate   Mode = "migrate"
)

// Options configures one init run
type Options struct {
	FS       types.FS
	Resolver *paths.Resolver
	// From is the client whose configuration is migrated when it exists
	From clients.ID
	// Overwrite lets init replace entries of an existing canonical root.
	// Replaced entries are preserved in a backup session.
	Overwrite bool
	// PromptTemplate is used for the fallback prompt when no client prompt
	// can be migrated. Empty means DefaultPromptTemplate.
	PromptTemplate string
	Backups        *backup.Manager
}

// Result reports what init did
type Result struct {
	Mode          Mode       `json:"mode"`
	CanonicalRoot string     `json:"canonical_root"`
	From          clients.ID `json:"from"`
	SourceRoot    string     `json:"source_root,omitempty"`
	// Copied lists canonical paths copied from the source client
	Copied []string `json:"copied"`
	// Created lists canonical paths created from scratch
	Created       []string `json:"created"`
	BackupSession string   `json:"backup_session,omitempty"`
}

type initializer struct {
	opts    Options
	backups *backup.Manager
	session *backup.Session
	result  *Result
	logger  zerolog.Logger
}

// Init creates or refreshes the canonical root. It refuses to touch a
// canonical root that already holds anything besides backups unless
// Overwrite is set.
func Init(opts Options) (*Result, error) {
	logger := logging.GetLogger("init")
	done := logging.LogOperationStart(logger, "init")
	defer done()

	if opts.FS == nil || opts.Resolver == nil {
		return nil, errors.New(errors.ErrInvalidInput, "init requires a filesystem and a resolver")
	}
	if opts.PromptTemplate == "" {
		opts.PromptTemplate = DefaultPromptTemplate
	}

	client, err := opts.Resolver.Registry().Lookup(opts.From)
	if err != nil {
		return nil, err
	}
	sourceRoot, err := opts.Resolver.ClientRoot(opts.From)
	if err != nil {
		return nil, err
	}
	canonical := opts.Resolver.CanonicalRoot()

	populated, err := hasContent(opts.FS, canonical)
	if err != nil {
		return nil, err
	}
	if populated && !opts.Overwrite {
		return nil, errors.Newf(errors.ErrAlreadyInitialized,
			"canonical root %s already exists and is not empty (use --force to overwrite)", canonical).
			WithDetail("canonical_root", canonical)
	}

	in := &initializer{
		opts:    opts,
		backups: opts.Backups,
		logger:  logger,
		result:  &Result{CanonicalRoot: canonical, From: opts.From},
	}
	if in.backups == nil {
		in.backups = backup.NewManager(opts.FS, canonical, opts.Resolver.Base(), nil)
	}

	if err := opts.FS.MkdirAll(canonical, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", canonical)
	}

	if isDir(opts.FS, sourceRoot) {
		in.result.Mode = ModeMigrate
		in.result.SourceRoot = sourceRoot
		err = in.migrate(client, sourceRoot)
	} else {
		in.result.Mode = ModeBootstrap
		err = in.bootstrap()
	}

	manifest, ferr := in.backups.Finalize(in.session, opts.Resolver.Scope(), backup.OpInit)
	if err != nil {
		return in.result, err
	}
	if ferr != nil {
		return in.result, ferr
	}
	in.result.BackupSession = manifest

	logger.Info().
		Str("mode", string(in.result.Mode)).
		Int("copied", len(in.result.Copied)).
		Int("created", len(in.result.Created)).
		Msg("Init finished")
	return in.result, nil
}

func (in *initializer) bootstrap() error {
	canonical := in.result.CanonicalRoot
	prompt := filepath.Join(canonical, clients.FallbackPromptFile)

	if err := in.writeFile(prompt, []byte(in.opts.PromptTemplate)); err != nil {
		return err
	}

	for _, kind := range clients.AllKinds() {
		if !kind.IsDir() {
			continue
		}
		dir := filepath.Join(canonical, string(kind))
		if isDir(in.opts.FS, dir) {
			continue
		}
		if err := in.clear(dir); err != nil {
			return err
		}
		if err := in.opts.FS.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
		}
		in.result.Created = append(in.result.Created, dir)
	}
	return nil
}

func (in *initializer) migrate(client clients.Client, sourceRoot string) error {
	canonical := in.result.CanonicalRoot

	var names []string
	if client.Supports(clients.Prompt) {
		names = append(names, client.PromptFile)
		if client.PromptOverride() {
			names = append(names, clients.FallbackPromptFile)
		}
	}
	for _, kind := range client.Kinds {
		if kind.IsDir() {
			names = append(names, string(kind))
		}
	}

	for _, name := range names {
		src := filepath.Join(sourceRoot, name)
		if _, err := in.opts.FS.Stat(src); err != nil {
			continue
		}
		if err := in.copyEntry(src, filepath.Join(canonical, name)); err != nil {
			return err
		}
	}

	fallback := filepath.Join(canonical, clients.FallbackPromptFile)
	if _, err := in.opts.FS.Stat(fallback); err == nil {
		return nil
	}

	content := []byte(in.opts.PromptTemplate)
	if client.PromptOverride() {
		if data, err := in.opts.FS.ReadFile(filepath.Join(canonical, client.PromptFile)); err == nil {
			content = data
		}
	}
	return in.writeFile(fallback, content)
}

// copyEntry copies a client entry into the canonical root. A symlinked
// entry is copied from what it points to, never linked.
func (in *initializer) copyEntry(src, dst string) error {
	resolved, err := in.opts.FS.EvalSymlinks(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", src)
	}
	if dstReal, err := in.opts.FS.EvalSymlinks(dst); err == nil && dstReal == resolved {
		in.logger.Debug().Str("path", src).Msg("Already canonical, skipping")
		return nil
	}

	if err := in.clear(dst); err != nil {
		return err
	}
	if err := backup.CopyTree(in.opts.FS, resolved, dst); err != nil {
		return err
	}
	in.result.Copied = append(in.result.Copied, dst)
	in.logger.Info().Str("from", src).Str("to", dst).Msg("Copied into canonical root")
	return nil
}

func (in *initializer) writeFile(path string, data []byte) error {
	if err := in.clear(path); err != nil {
		return err
	}
	if err := in.opts.FS.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	in.result.Created = append(in.result.Created, path)
	return nil
}

// clear preserves and removes whatever occupies path
func (in *initializer) clear(path string) error {
	if _, err := in.opts.FS.Lstat(path); err != nil {
		return nil
	}
	if in.session == nil {
		s, err := in.backups.Begin()
		if err != nil {
			return err
		}
		in.session = s
	}
	if err := in.backups.Preserve(in.session, path); err != nil {
		return err
	}
	if err := in.opts.FS.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", path)
	}
	return nil
}

// hasContent reports whether dir holds anything other than the backup area
func hasContent(fs types.FS, dir string) (bool, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		if _, serr := fs.Stat(dir); serr == nil {
			return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
		}
		return false, nil
	}
	for _, e := range entries {
		if e.Name() != paths.BackupDirName {
			return true, nil
		}
	}
	return false, nil
}

func isDir(fs types.FS, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}
