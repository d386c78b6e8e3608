package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/agentlink/internal/version"
	"github.com/arthur-debert/agentlink/pkg/apply"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/config"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/filesystem"
	"github.com/arthur-debert/agentlink/pkg/initialize"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/status"
	"github.com/arthur-debert/agentlink/pkg/ui/display"
	"github.com/arthur-debert/agentlink/pkg/undo"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "agentlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&flags.scope, "scope", "", MsgFlagScope)
	pf.StringVar(&flags.project, "project", "", MsgFlagProject)
	pf.StringVar(&flags.clients, "clients", "", MsgFlagClients)
	pf.StringVar(&flags.format, "format", "", MsgFlagFormat)
	pf.StringVar(&flags.config, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newStatusCmd(flags))
	rootCmd.AddCommand(newApplyCmd(flags))
	rootCmd.AddCommand(newInitCmd(flags))
	rootCmd.AddCommand(newUndoCmd(flags))
	rootCmd.AddCommand(newListClientsCmd(flags))
	rootCmd.AddCommand(newHistoryCmd(flags))
	rootCmd.AddCommand(newGenConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			report, err := status.Status(status.Options{
				FS:       e.fs,
				Resolver: e.resolver,
				Clients:  e.clients,
			})
			if err != nil {
				return err
			}
			return e.renderer.RenderResult(report)
		},
	}
}

func newApplyCmd(flags *globalFlags) *cobra.Command {
	var force, diff bool

	cmd := &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			if !diff {
				release, err := e.lockIfInitialized()
				if err != nil {
					return err
				}
				defer release()
			}

			log.Info().
				Str("canonical_root", e.resolver.CanonicalRoot()).
				Bool("force", force).
				Bool("diff", diff).
				Msg("Applying links")

			result, err := apply.Apply(apply.Options{
				FS:       e.fs,
				Resolver: e.resolver,
				Clients:  e.clients,
				DryRun:   diff,
				Force:    force,
				Backups:  e.backups(),
			})
			if err != nil {
				return err
			}
			if err := e.renderer.RenderResult(result); err != nil {
				return err
			}
			if result.HasErrors() {
				return errors.Newf(errors.ErrFileWrite, MsgErrTargetsFailed, result.Errors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&diff, "diff", false, MsgFlagDiff)
	return cmd
}

func newInitCmd(flags *globalFlags) *cobra.Command {
	var (
		from  string
		force bool
	)

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			name := from
			if name == "" {
				name = e.cfg.Defaults.From
			}
			id, ok := e.registry.Parse(name)
			if !ok {
				_, err := e.registry.Lookup(clients.ID(name))
				return err
			}

			release, err := e.lock()
			if err != nil {
				return err
			}
			defer release()

			result, err := initialize.Init(initialize.Options{
				FS:             e.fs,
				Resolver:       e.resolver,
				From:           id,
				Overwrite:      force,
				PromptTemplate: e.cfg.Init.PromptTemplate,
				Backups:        e.backups(),
			})
			if err != nil {
				return err
			}
			return e.renderer.RenderResult(result)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", MsgFlagFrom)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagInitFrc)
	return cmd
}

func newUndoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "undo",
		Short:   MsgUndoShort,
		Long:    MsgUndoLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			release, err := e.lockIfInitialized()
			if err != nil {
				return err
			}
			defer release()

			result, err := undo.Undo(undo.Options{FS: e.fs, Backups: e.backups()})
			if err != nil {
				return err
			}
			if err := e.renderer.RenderResult(result); err != nil {
				return err
			}
			if result.HasErrors() {
				return errors.Newf(errors.ErrRestore, MsgErrRestoreFailed, len(result.Failed))
			}
			return nil
		},
	}
}

func newListClientsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list-clients",
		Short:   MsgListClientsShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			list := &display.ClientList{Scope: string(e.resolver.Scope())}
			for _, id := range e.clients {
				c, err := e.registry.Lookup(id)
				if err != nil {
					return err
				}
				root, err := e.resolver.ClientRoot(id)
				if err != nil {
					return err
				}
				list.Clients = append(list.Clients, display.ClientInfo{
					ID:         c.ID,
					GlobalRoot: c.GlobalRoot,
					Root:       root,
					Kinds:      c.Kinds,
					PromptFile: c.PromptFile,
				})
			}
			return e.renderer.RenderResult(list)
		},
	}
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			backups := e.backups()
			sessions, err := backups.List()
			if err != nil {
				return err
			}
			return e.renderer.RenderResult(&display.History{
				BackupDir: backups.Dir(),
				Sessions:  sessions,
			})
		},
	}
}

func newGenConfigCmd(flags *globalFlags) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := flags.config
			if path == "" {
				path = paths.ConfigFilePath()
			}
			fs := filesystem.NewOS()
			if _, err := fs.Lstat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, path)
			}
			if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
			}
			if err := fs.WriteFileAtomic(path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
