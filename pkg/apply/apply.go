// Package apply converges client roots onto the canonical root by creating
// symlinks.
//
// Every (client, kind) pair is classified and then handled by the transition
// table below. Nothing that is not already a correct link is ever replaced
// without Force, and everything Force replaces is preserved in a backup
// session first.
//
//	status          Force=false            Force=true
//	missing-source  skip                   skip
//	missing         create link            create link
//	linked          none                   none
//	conflict        report, leave alone    preserve, replace with link
//
// Creating or replacing a target is refused when the target physically lives
// inside the canonical root, for example because the client root is a
// symlink to it.
package apply

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentlink/pkg/backup"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/linkstatus"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// Action is what apply did, or would do, to one target
type Action string

const (
	ActionNone     Action = "none"
	ActionCreate   Action = "create"
	ActionReplace  Action = "replace"
	ActionConflict Action = "conflict"
	ActionError    Action = "error"
)

// Options configures one apply run
type Options struct {
	FS       types.FS
	Resolver *paths.Resolver
	Clients  []clients.ID
	// DryRun reports the transitions without touching the filesystem
	DryRun bool
	// Force replaces conflicting targets after preserving them
	Force bool
	// Backups defaults to a manager on the resolver's canonical root
	Backups *backup.Manager
}

// Outcome is the result for one link target
type Outcome struct {
	Target  paths.LinkTarget  `json:"target"`
	Status  linkstatus.Status `json:"status"`
	Detail  linkstatus.Detail `json:"detail"`
	Action  Action            `json:"action"`
	Planned bool              `json:"planned,omitempty"`
	Err     error             `json:"-"`
	Error   string            `json:"error,omitempty"`
}

// Result aggregates a whole run
type Result struct {
	DryRun   bool      `json:"dry_run"`
	Outcomes []Outcome `json:"outcomes"`
	// Applied counts created and replaced links
	Applied   int `json:"applied"`
	Skipped   int `json:"skipped"`
	Conflicts int `json:"conflicts"`
	Errors    int `json:"errors"`
	// BackupSession is the manifest written for this run, if anything was
	// replaced
	BackupSession string `json:"backup_session,omitempty"`
}

// HasErrors reports whether any target failed
func (r *Result) HasErrors() bool {
	return r.Errors > 0
}

// Apply runs the transition table over every (client, kind) pair. Per-target
// failures are recorded in the result and never stop the run; the returned
// error is reserved for failures of the run itself.
func Apply(opts Options) (*Result, error) {
	logger := logging.GetLogger("apply")
	done := logging.LogOperationStart(logger, "apply")
	defer done()

	if opts.FS == nil || opts.Resolver == nil {
		return nil, errors.New(errors.ErrInvalidInput, "apply requires a filesystem and a resolver")
	}
	backups := opts.Backups
	if backups == nil {
		backups = backup.NewManager(opts.FS, opts.Resolver.CanonicalRoot(), opts.Resolver.Base(), nil)
	}

	result := &Result{DryRun: opts.DryRun}
	var session *backup.Session

	// Resolve everything first so an unknown client fails before any mutation
	var targets []paths.LinkTarget
	for _, id := range opts.Clients {
		lts, err := opts.Resolver.Targets(opts.FS, id)
		if err != nil {
			return nil, err
		}
		targets = append(targets, lts...)
	}

	for _, lt := range targets {
		var out Outcome
		out, session = applyOne(opts, backups, session, lt)
		result.record(out)

		logger.Info().
			Str("client", string(lt.Client)).
			Str("kind", string(lt.Kind)).
			Str("source", lt.Source).
			Str("target", lt.Target).
			Str("status", out.Status.String()).
			Str("action", string(out.Action)).
			Bool("planned", out.Planned).
			Err(out.Err).
			Msg("Link target processed")
	}

	manifest, err := backups.Finalize(session, opts.Resolver.Scope(), backup.OpApply)
	if err != nil {
		return result, err
	}
	result.BackupSession = manifest

	logger.Info().
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Int("conflicts", result.Conflicts).
		Int("errors", result.Errors).
		Msg("Apply finished")
	return result, nil
}

// applyOne handles one target. The session is created on the first forced
// replace and handed back for the next target.
func applyOne(opts Options, backups *backup.Manager, session *backup.Session, lt paths.LinkTarget) (Outcome, *backup.Session) {
	status, detail := linkstatus.Check(opts.FS, lt.Source, lt.Target)
	out := Outcome{Target: lt, Status: status, Detail: detail, Planned: opts.DryRun}

	switch status {
	case linkstatus.MissingSource, linkstatus.Linked:
		out.Action = ActionNone
		return out, session

	case linkstatus.Missing:
		if err := guardCanonical(opts.FS, opts.Resolver.CanonicalRoot(), lt); err != nil {
			return failed(out, err), session
		}
		out.Action = ActionCreate
		if opts.DryRun {
			return out, session
		}
		if err := createLink(opts.FS, lt); err != nil {
			return failed(out, err), session
		}
		return out, session

	case linkstatus.Conflict:
		if !opts.Force {
			out.Action = ActionConflict
			return out, session
		}
		if err := guardCanonical(opts.FS, opts.Resolver.CanonicalRoot(), lt); err != nil {
			return failed(out, err), session
		}
		out.Action = ActionReplace
		if opts.DryRun {
			return out, session
		}

		if session == nil {
			s, err := backups.Begin()
			if err != nil {
				return failed(out, err), session
			}
			session = s
		}
		if err := backups.Preserve(session, lt.Target); err != nil {
			return failed(out, err), session
		}
		if err := opts.FS.RemoveAll(lt.Target); err != nil {
			return failed(out, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", lt.Target)), session
		}
		if err := createLink(opts.FS, lt); err != nil {
			return failed(out, err), session
		}
		return out, session
	}

	return failed(out, errors.Newf(errors.ErrInternal, "unhandled status %s", status)), session
}

// guardCanonical refuses targets that physically live inside the canonical
// root. That happens when a client root, or one of its parents, is a
// symlink into the canonical root: replacing such a target would delete
// canonical content, and creating one would write links into it.
func guardCanonical(fs types.FS, canonicalRoot string, lt paths.LinkTarget) error {
	root, err := fs.EvalSymlinks(canonicalRoot)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", canonicalRoot)
	}
	resolved, err := physicalPath(fs, lt.Target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve %s", lt.Target)
	}

	if paths.ContainsPath(root, resolved) {
		return errors.Newf(errors.ErrUnsafeTarget,
			"%s resolves to %s inside the canonical root; refusing to touch it", lt.Target, resolved).
			WithDetail("canonical_root", canonicalRoot)
	}
	return nil
}

// physicalPath resolves every directory above path without following path
// itself. Missing directories are kept as they are, below the nearest
// existing ancestor.
func physicalPath(fs types.FS, path string) (string, error) {
	dir := filepath.Dir(path)
	rest := []string{filepath.Base(path)}
	for {
		resolved, err := fs.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path, nil
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}

func createLink(fs types.FS, lt paths.LinkTarget) error {
	parent := filepath.Dir(lt.Target)
	if err := fs.MkdirAll(parent, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", parent)
	}
	if err := fs.Symlink(lt.Source, lt.Target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s -> %s", lt.Target, lt.Source)
	}
	return nil
}

func failed(out Outcome, err error) Outcome {
	out.Action = ActionError
	out.Err = err
	out.Error = err.Error()
	return out
}

func (r *Result) record(out Outcome) {
	switch out.Action {
	case ActionCreate, ActionReplace:
		r.Applied++
	case ActionNone:
		r.Skipped++
	case ActionConflict:
		r.Conflicts++
	case ActionError:
		r.Errors++
	}
	r.Outcomes = append(r.Outcomes, out)
}
