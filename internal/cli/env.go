package cli

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentlink/pkg/backup"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/config"
	"github.com/arthur-debert/agentlink/pkg/filesystem"
	"github.com/arthur-debert/agentlink/pkg/lock"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/types"
	"github.com/arthur-debert/agentlink/pkg/ui"
)

// globalFlags holds the persistent flags. Empty values fall back to config.
type globalFlags struct {
	verbosity int
	scope     string
	project   string
	clients   string
	format    string
	config    string
}

// env is everything a subcommand needs, resolved from flags and config
type env struct {
	cfg      *config.Config
	fs       types.FS
	registry clients.Registry
	resolver *paths.Resolver
	clients  []clients.ID
	renderer ui.Renderer
	out      io.Writer
}

func newEnv(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	scopeName := flags.scope
	if scopeName == "" {
		scopeName = cfg.Defaults.Scope
	}
	scope, err := paths.ParseScope(scopeName)
	if err != nil {
		return nil, err
	}

	var ids []clients.ID
	if flags.clients != "" {
		ids, err = registry.ParseList(flags.clients)
	} else {
		ids, err = registry.ParseNames(cfg.Defaults.Clients)
	}
	if err != nil {
		return nil, err
	}

	home, err := paths.GetHomeDirectory()
	if err != nil {
		return nil, err
	}
	resolver, err := paths.NewResolver(scope, flags.project, home, registry)
	if err != nil {
		return nil, err
	}

	formatName := flags.format
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := ui.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	renderer, err := ui.NewRenderer(format, out)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("scope", string(scope)).
		Str("canonical_root", resolver.CanonicalRoot()).
		Str("config", cfg.Path).
		Msg("Environment resolved")

	return &env{
		cfg:      cfg,
		fs:       filesystem.NewOS(),
		registry: registry,
		resolver: resolver,
		clients:  ids,
		renderer: renderer,
		out:      out,
	}, nil
}

func (e *env) backups() *backup.Manager {
	return backup.NewManager(e.fs, e.resolver.CanonicalRoot(), e.resolver.Base(), nil)
}

func (e *env) canonicalExists() bool {
	info, err := e.fs.Stat(e.resolver.CanonicalRoot())
	return err == nil && info.IsDir()
}

// lock takes the run lock. The returned release func is never nil.
func (e *env) lock() (func(), error) {
	l, err := lock.Acquire(e.resolver.LockPath())
	if err != nil {
		return func() {}, err
	}
	return func() {
		if err := l.Unlock(); err != nil {
			log.Warn().Err(err).Str("lock", l.Path()).Msg("Failed to release lock")
		}
	}, nil
}

// lockIfInitialized locks only when the canonical root exists, so that
// commands with nothing to mutate never create it.
func (e *env) lockIfInitialized() (func(), error) {
	if !e.canonicalExists() {
		log.Debug().Str("canonical_root", e.resolver.CanonicalRoot()).Msg(MsgSkipLockNoRoot)
		return func() {}, nil
	}
	return e.lock()
}
