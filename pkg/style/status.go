// Package style holds the colors and styles of agentlink's terminal output.
package style

import (
	"github.com/pterm/pterm"
)

// State names a row's condition for coloring. Link statuses and apply
// actions share one namespace.
type State string

const (
	StateLinked        State = "linked"
	StateMissing       State = "missing"
	StateMissingSource State = "missing-source"
	StateConflict      State = "conflict"
	StateCreate        State = "create"
	StateReplace       State = "replace"
	StateNone          State = "none"
	StateError         State = "error"
	StateRestored      State = "restored"
	StateInfo          State = "info"
)

// StateStyle returns the pterm style for a row state
func StateStyle(state State) *pterm.Style {
	switch state {
	case StateLinked, StateRestored:
		return pterm.NewStyle(pterm.FgGreen)
	case StateCreate, StateReplace:
		return pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	case StateMissing:
		return pterm.NewStyle(pterm.FgYellow)
	case StateConflict:
		return pterm.NewStyle(pterm.FgRed)
	case StateError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StateInfo:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}
