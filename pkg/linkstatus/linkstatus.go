// Package linkstatus classifies a (source, target) pair into one of the four
// states the apply engine acts on.
package linkstatus

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentlink/pkg/types"
)

// Status is the classification of one link target
type Status int

const (
	// MissingSource means the canonical resource does not exist. It takes
	// priority over whatever sits at the target.
	MissingSource Status = iota
	// Missing means nothing exists at the target path
	Missing
	// Linked means the target is a symlink resolving to the source
	Linked
	// Conflict means something else occupies the target path
	Conflict
)

// String returns the status name used in reports
func (s Status) String() string {
	switch s {
	case MissingSource:
		return "missing-source"
	case Missing:
		return "missing"
	case Linked:
		return "linked"
	case Conflict:
		return "conflict"
	}
	return "unknown"
}

// Symbol returns a one-rune marker for terminal output
func (s Status) Symbol() string {
	switch s {
	case MissingSource:
		return "∅"
	case Missing:
		return "○"
	case Linked:
		return "✓"
	case Conflict:
		return "✗"
	}
	return "?"
}

// MarshalText renders the status name in json and yaml output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Detail carries what was found at the target, for reporting
type Detail struct {
	Exists    bool   `json:"exists"`
	IsSymlink bool   `json:"is_symlink"`
	IsDir     bool   `json:"is_dir"`
	LinkDest  string `json:"link_dest,omitempty"`
	Message   string `json:"message"`
}

// Classify returns the status of target with respect to source
func Classify(fs types.FS, source, target string) Status {
	s, _ := Check(fs, source, target)
	return s
}

// Check classifies target and describes what it found there
func Check(fs types.FS, source, target string) (Status, Detail) {
	var d Detail

	if _, err := fs.Stat(source); err != nil {
		d.Message = "canonical source does not exist"
		if info, lerr := fs.Lstat(target); lerr == nil {
			d.Exists = true
			d.IsSymlink = info.Mode()&os.ModeSymlink != 0
			d.IsDir = info.IsDir()
		}
		return MissingSource, d
	}

	info, err := fs.Lstat(target)
	if err != nil {
		d.Message = "target does not exist"
		return Missing, d
	}
	d.Exists = true

	if info.Mode()&os.ModeSymlink == 0 {
		d.IsDir = info.IsDir()
		if d.IsDir {
			d.Message = "a directory is in the way"
		} else {
			d.Message = "a file is in the way"
		}
		return Conflict, d
	}

	d.IsSymlink = true
	if dest, err := fs.Readlink(target); err == nil {
		d.LinkDest = dest
	}

	actual, err := fs.EvalSymlinks(target)
	if err != nil {
		d.Message = "symlink is dangling"
		return Conflict, d
	}
	expected, err := fs.EvalSymlinks(source)
	if err != nil {
		d.Message = "cannot resolve canonical source"
		return Conflict, d
	}

	if filepath.Clean(actual) == filepath.Clean(expected) {
		d.Message = "linked"
		return Linked, d
	}
	d.Message = "symlink points elsewhere"
	return Conflict, d
}
