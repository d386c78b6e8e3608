// Package status reports how every client root relates to the canonical
// root without changing anything.
package status

import (
	"os"

	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/linkstatus"
	"github.com/arthur-debert/agentlink/pkg/logging"
	"github.com/arthur-debert/agentlink/pkg/paths"
	"github.com/arthur-debert/agentlink/pkg/types"
)

// NoteUninitialized is reported when the canonical root does not exist
const NoteUninitialized = "canonical root does not exist; run `agentlink init` first"

// Options configures one status run
type Options struct {
	FS       types.FS
	Resolver *paths.Resolver
	Clients  []clients.ID
}

// Entry is the state of one link target
type Entry struct {
	Kind   clients.Kind      `json:"kind"`
	Source string            `json:"source"`
	Target string            `json:"target"`
	Status linkstatus.Status `json:"status"`
	Detail linkstatus.Detail `json:"detail"`
}

// ClientReport groups the entries of one client
type ClientReport struct {
	Client  clients.ID `json:"client"`
	Root    string     `json:"root"`
	Entries []Entry    `json:"entries"`
}

// Counts tallies entries per status
type Counts struct {
	Linked        int `json:"linked"`
	Missing       int `json:"missing"`
	MissingSource int `json:"missing_source"`
	Conflict      int `json:"conflict"`
}

// Total returns the number of entries counted
func (c Counts) Total() int {
	return c.Linked + c.Missing + c.MissingSource + c.Conflict
}

func (c *Counts) add(s linkstatus.Status) {
	switch s {
	case linkstatus.Linked:
		c.Linked++
	case linkstatus.Missing:
		c.Missing++
	case linkstatus.MissingSource:
		c.MissingSource++
	case linkstatus.Conflict:
		c.Conflict++
	}
}

// Report is the full read-only picture
type Report struct {
	Scope         paths.Scope    `json:"scope"`
	CanonicalRoot string         `json:"canonical_root"`
	Initialized   bool           `json:"initialized"`
	Note          string         `json:"note,omitempty"`
	Clients       []ClientReport `json:"clients"`
	Counts        Counts         `json:"counts"`
}

// Status classifies every (client, kind) pair. It is safe to call against a
// canonical root that does not exist yet; every pair then reports
// missing-source.
func Status(opts Options) (*Report, error) {
	logger := logging.GetLogger("status")
	done := logging.LogOperationStart(logger, "status")
	defer done()

	if opts.FS == nil || opts.Resolver == nil {
		return nil, errors.New(errors.ErrInvalidInput, "status requires a filesystem and a resolver")
	}

	report := &Report{
		Scope:         opts.Resolver.Scope(),
		CanonicalRoot: opts.Resolver.CanonicalRoot(),
		Initialized:   true,
	}

	info, err := opts.FS.Stat(report.CanonicalRoot)
	switch {
	case err != nil && os.IsNotExist(err):
		report.Initialized = false
		report.Note = NoteUninitialized
	case err != nil:
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", report.CanonicalRoot)
	case !info.IsDir():
		report.Initialized = false
		report.Note = NoteUninitialized
	}

	for _, id := range opts.Clients {
		root, err := opts.Resolver.ClientRoot(id)
		if err != nil {
			return nil, err
		}
		targets, err := opts.Resolver.Targets(opts.FS, id)
		if err != nil {
			return nil, err
		}

		cr := ClientReport{Client: id, Root: root}
		for _, lt := range targets {
			s, detail := linkstatus.Check(opts.FS, lt.Source, lt.Target)
			cr.Entries = append(cr.Entries, Entry{
				Kind:   lt.Kind,
				Source: lt.Source,
				Target: lt.Target,
				Status: s,
				Detail: detail,
			})
			report.Counts.add(s)

			logger.Debug().
				Str("client", string(id)).
				Str("kind", string(lt.Kind)).
				Str("target", lt.Target).
				Str("status", s.String()).
				Msg("Classified link target")
		}
		report.Clients = append(report.Clients, cr)
	}

	return report, nil
}
