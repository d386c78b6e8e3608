package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Link one canonical agent configuration into every coding agent"
	MsgStatusShort      = "Show the link status of every client"
	MsgApplyShort       = "Create the links from client roots into the canonical root"
	MsgInitShort        = "Create the canonical root"
	MsgUndoShort        = "Restore what the latest backup session preserved"
	MsgListClientsShort = "List the registered clients and their roots"
	MsgHistoryShort     = "List backup sessions, newest first"
	MsgGenConfigShort   = "Print the default configuration"
	MsgVersionShort     = "Print version information"

	// Status messages
	MsgVersionFormat  = "agentlink version %s\n  commit: %s\n  built:  %s\n"
	MsgConfigWritten  = "Configuration written to %s"
	MsgSkipLockNoRoot = "Canonical root does not exist, nothing to lock"

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrTargetsFailed = "%d target(s) failed"
	MsgErrRestoreFailed = "%d entr(ies) could not be restored"
	MsgErrConfigExists  = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagScope   = "Scope to operate on: global or project (default from config)"
	MsgFlagProject = "Project directory for the project scope (default: working directory)"
	MsgFlagClients = "Comma separated clients to operate on (default: all)"
	MsgFlagFormat  = "Output format: auto, term, text, json, yaml"
	MsgFlagConfig  = "Configuration file (default: $XDG_CONFIG_HOME/agentlink/config.toml)"
	MsgFlagForce   = "Replace conflicting targets after preserving them in a backup session"
	MsgFlagDiff    = "Report what apply would do without changing anything"
	MsgFlagFrom    = "Client to migrate configuration from (default from config)"
	MsgFlagInitFrc = "Replace the content of an existing canonical root, keeping a backup"
	MsgFlagWrite   = "Write the configuration file instead of printing it"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimRight(msgApplyExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/undo-long.txt
	msgUndoLongRaw string
	MsgUndoLong    = strings.TrimSpace(msgUndoLongRaw)

	//go:embed msgs/gen-config-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)
)
