// Package display turns command results into a format-neutral document that
// the text and terminal renderers lay out.
package display

import (
	"github.com/arthur-debert/agentlink/pkg/backup"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/style"
)

// Document is one command's output
type Document struct {
	Title    string
	Note     string
	Sections []Section
	// Summary is always the last line printed
	Summary string
	// Outcome colors the summary
	Outcome Outcome
}

// Outcome classifies a whole run
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeWarning
	OutcomeFailure
)

// Section is a titled table
type Section struct {
	Heading    string
	Subheading string
	Columns    []string
	Rows       []Row
}

// Row is one table line. State selects its color in terminal output.
type Row struct {
	Cells []string
	State style.State
}

// History is the result of the history command
type History struct {
	BackupDir string               `json:"backup_dir"`
	Sessions  []backup.SessionInfo `json:"sessions"`
}

// ClientInfo describes one registered client for list-clients
type ClientInfo struct {
	ID         clients.ID     `json:"id"`
	GlobalRoot string         `json:"global_root"`
	Root       string         `json:"root"`
	Kinds      []clients.Kind `json:"kinds"`
	PromptFile string         `json:"prompt_file,omitempty"`
}

// ClientList is the result of the list-clients command
type ClientList struct {
	Scope   string       `json:"scope"`
	Clients []ClientInfo `json:"clients"`
}
