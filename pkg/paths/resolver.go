package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// Scope selects whether paths resolve against home or a project
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeProject Scope = "project"
)

// ParseScope validates a scope name
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeProject:
		return ScopeProject, nil
	}
	return "", errors.Newf(errors.ErrInvalidScope, "invalid scope %q (want global or project)", s)
}

// LinkTarget is the resolved (source, target) pair for one client and kind
type LinkTarget struct {
	Client clients.ID
	Kind   clients.Kind
	Source string
	Target string
}

// Resolver maps scope, project directory and registry onto concrete paths
type Resolver struct {
	scope      Scope
	projectDir string
	homeDir    string
	registry   clients.Registry
}

// NewResolver builds a resolver. projectDir is only consulted for project
// scope and is made absolute; homeDir must be absolute.
func NewResolver(scope Scope, projectDir, homeDir string, registry clients.Registry) (*Resolver, error) {
	if scope != ScopeGlobal && scope != ScopeProject {
		return nil, errors.Newf(errors.ErrInvalidScope, "invalid scope %q", scope)
	}
	if homeDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "home directory is required")
	}

	r := &Resolver{
		scope:    scope,
		homeDir:  filepath.Clean(homeDir),
		registry: registry,
	}

	if scope == ScopeProject {
		if projectDir == "" {
			projectDir = "."
		}
		abs, err := filepath.Abs(ExpandHomeFrom(projectDir, r.homeDir))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project %s", projectDir)
		}
		r.projectDir = abs
	}

	return r, nil
}

// Scope returns the resolver's scope
func (r *Resolver) Scope() Scope { return r.scope }

// Registry returns the client table the resolver was built with
func (r *Resolver) Registry() clients.Registry { return r.registry }

// Base is the directory every path of this scope lives under: home for
// global scope, the project directory for project scope.
func (r *Resolver) Base() string {
	if r.scope == ScopeProject {
		return r.projectDir
	}
	return r.homeDir
}

// HomeDir returns the home directory used for ~ expansion
func (r *Resolver) HomeDir() string { return r.homeDir }

// CanonicalRoot returns the directory holding the authoritative resources
func (r *Resolver) CanonicalRoot() string {
	return filepath.Join(r.Base(), CanonicalDirName)
}

// BackupDir returns the directory holding backup sessions
func (r *Resolver) BackupDir() string {
	return filepath.Join(r.CanonicalRoot(), BackupDirName)
}

// LockPath returns the advisory lock file path
func (r *Resolver) LockPath() string {
	return filepath.Join(r.BackupDir(), LockFileName)
}

// ClientRoot returns the configuration directory of a client in this scope
func (r *Resolver) ClientRoot(id clients.ID) (string, error) {
	c, err := r.registry.Lookup(id)
	if err != nil {
		return "", err
	}
	return r.clientRoot(c), nil
}

func (r *Resolver) clientRoot(c clients.Client) string {
	if r.scope == ScopeProject {
		return filepath.Join(r.projectDir, "."+string(c.ID))
	}
	root := ExpandHomeFrom(c.GlobalRoot, r.homeDir)
	if !filepath.IsAbs(root) {
		root = filepath.Join(r.homeDir, root)
	}
	return filepath.Clean(root)
}

// CanonicalSource returns the canonical path for a directory kind, or the
// fallback prompt file for the prompt kind
func (r *Resolver) CanonicalSource(kind clients.Kind) string {
	if kind == clients.Prompt {
		return filepath.Join(r.CanonicalRoot(), clients.FallbackPromptFile)
	}
	return filepath.Join(r.CanonicalRoot(), string(kind))
}

// Targets resolves every kind the client consumes, in registry order.
//
// For the prompt kind the source is the client's override file when it exists
// in the canonical root, else the fallback file. When neither exists the
// source is the would-be override path so the pair classifies as
// missing-source.
func (r *Resolver) Targets(fs types.FS, id clients.ID) ([]LinkTarget, error) {
	c, err := r.registry.Lookup(id)
	if err != nil {
		return nil, err
	}

	root := r.clientRoot(c)
	targets := make([]LinkTarget, 0, len(c.Kinds))
	for _, kind := range c.Kinds {
		lt := LinkTarget{
			Client: c.ID,
			Kind:   kind,
			Target: filepath.Join(root, c.TargetName(kind)),
		}
		if kind == clients.Prompt {
			lt.Source = r.promptSource(fs, c)
		} else {
			lt.Source = r.CanonicalSource(kind)
		}
		targets = append(targets, lt)
	}
	return targets, nil
}

func (r *Resolver) promptSource(fs types.FS, c clients.Client) string {
	fallback := r.CanonicalSource(clients.Prompt)
	if !c.PromptOverride() {
		return fallback
	}

	override := filepath.Join(r.CanonicalRoot(), c.PromptFile)
	if _, err := fs.Stat(override); err == nil {
		return override
	}
	if _, err := fs.Stat(fallback); err == nil {
		return fallback
	}
	return override
}
