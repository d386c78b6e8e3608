package display

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/arthur-debert/agentlink/pkg/apply"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/initialize"
	"github.com/arthur-debert/agentlink/pkg/status"
	"github.com/arthur-debert/agentlink/pkg/style"
	"github.com/arthur-debert/agentlink/pkg/undo"
)

// Convert builds the document for a known result type. The second return
// is false for anything else.
func Convert(result interface{}) (*Document, bool) {
	switch v := result.(type) {
	case *status.Report:
		return FromStatus(v), true
	case *apply.Result:
		return FromApply(v), true
	case *undo.Result:
		return FromUndo(v), true
	case *initialize.Result:
		return FromInit(v), true
	case *History:
		return FromHistory(v), true
	case *ClientList:
		return FromClientList(v), true
	}
	return nil, false
}

// FromStatus renders a status report
func FromStatus(r *status.Report) *Document {
	doc := &Document{
		Title: fmt.Sprintf("Status (%s scope) of %s", r.Scope, r.CanonicalRoot),
		Note:  r.Note,
	}

	for _, c := range r.Clients {
		sec := Section{
			Heading:    string(c.Client),
			Subheading: c.Root,
			Columns:    []string{"kind", "status", "target", "detail"},
		}
		for _, e := range c.Entries {
			sec.Rows = append(sec.Rows, Row{
				Cells: []string{string(e.Kind), e.Status.Symbol() + " " + e.Status.String(), e.Target, e.Detail.Message},
				State: style.State(e.Status.String()),
			})
		}
		doc.Sections = append(doc.Sections, sec)
	}

	doc.Summary = fmt.Sprintf("%d linked, %d missing, %d missing-source, %d conflict",
		r.Counts.Linked, r.Counts.Missing, r.Counts.MissingSource, r.Counts.Conflict)
	switch {
	case !r.Initialized:
		doc.Outcome = OutcomeWarning
	case r.Counts.Conflict > 0 || r.Counts.Missing > 0:
		doc.Outcome = OutcomeWarning
	}
	return doc
}

// FromApply renders an apply run, grouped per client
func FromApply(r *apply.Result) *Document {
	doc := &Document{Title: "Apply"}
	if r.DryRun {
		doc.Title = "Apply (dry run, nothing was changed)"
	}

	var sec *Section
	for _, o := range r.Outcomes {
		if sec == nil || sec.Heading != string(o.Target.Client) {
			doc.Sections = append(doc.Sections, Section{
				Heading: string(o.Target.Client),
				Columns: []string{"kind", "action", "status", "target", "detail"},
			})
			sec = &doc.Sections[len(doc.Sections)-1]
		}

		detail := o.Detail.Message
		if o.Err != nil {
			detail = o.Err.Error()
		} else if o.Error != "" {
			detail = o.Error
		}
		sec.Rows = append(sec.Rows, Row{
			Cells: []string{string(o.Target.Kind), actionLabel(o), o.Status.String(), o.Target.Target, detail},
			State: actionState(o.Action),
		})
	}

	verb := "applied"
	if r.DryRun {
		verb = "would apply"
	}
	doc.Summary = fmt.Sprintf("%s %d, skipped %d, conflicts %d, errors %d",
		verb, r.Applied, r.Skipped, r.Conflicts, r.Errors)
	if r.BackupSession != "" {
		doc.Note = "replaced paths were preserved in " + r.BackupSession + " (agentlink undo restores them)"
	}

	switch {
	case r.Errors > 0:
		doc.Outcome = OutcomeFailure
	case r.Conflicts > 0:
		doc.Outcome = OutcomeWarning
		if doc.Note == "" {
			doc.Note = "conflicting targets were left untouched; rerun with --force to replace them"
		}
	}
	return doc
}

func actionLabel(o apply.Outcome) string {
	if o.Planned && (o.Action == apply.ActionCreate || o.Action == apply.ActionReplace) {
		return "would " + string(o.Action)
	}
	return string(o.Action)
}

func actionState(a apply.Action) style.State {
	switch a {
	case apply.ActionCreate:
		return style.StateCreate
	case apply.ActionReplace:
		return style.StateReplace
	case apply.ActionConflict:
		return style.StateConflict
	case apply.ActionError:
		return style.StateError
	}
	return style.StateNone
}

// FromUndo renders an undo run
func FromUndo(r *undo.Result) *Document {
	doc := &Document{Title: "Undo from " + r.SessionPath}

	sec := Section{Columns: []string{"type", "path", "result"}}
	for _, e := range r.Entries {
		sec.Rows = append(sec.Rows, Row{
			Cells: []string{string(e.Type), e.Path, "restored"},
			State: style.StateRestored,
		})
	}
	for _, f := range r.Failed {
		sec.Rows = append(sec.Rows, Row{
			Cells: []string{string(f.Entry.Type), f.Entry.Path, f.Error},
			State: style.StateError,
		})
	}
	doc.Sections = append(doc.Sections, sec)

	doc.Summary = fmt.Sprintf("restored %d, failed %d, from session %s", r.Restored, len(r.Failed), r.SessionPath)
	if len(r.Failed) > 0 {
		doc.Outcome = OutcomeFailure
	}
	return doc
}

// FromInit renders an init run
func FromInit(r *initialize.Result) *Document {
	doc := &Document{Title: "Init " + r.CanonicalRoot}
	if r.Mode == initialize.ModeMigrate {
		doc.Note = fmt.Sprintf("migrated from %s (%s)", r.From, r.SourceRoot)
	}

	sec := Section{Columns: []string{"action", "path"}}
	for _, p := range r.Copied {
		sec.Rows = append(sec.Rows, Row{Cells: []string{"copied", p}, State: style.StateCreate})
	}
	for _, p := range r.Created {
		sec.Rows = append(sec.Rows, Row{Cells: []string{"created", p}, State: style.StateCreate})
	}
	doc.Sections = append(doc.Sections, sec)

	doc.Summary = fmt.Sprintf("%s: copied %d, created %d", r.Mode, len(r.Copied), len(r.Created))
	if r.BackupSession != "" {
		doc.Summary += ", previous entries preserved in " + r.BackupSession
	}
	return doc
}

// FromHistory renders the list of backup sessions
func FromHistory(h *History) *Document {
	doc := &Document{Title: "Backup sessions in " + h.BackupDir}

	sec := Section{Columns: []string{"session", "age", "operation", "scope", "entries", "manifest"}}
	for _, s := range h.Sessions {
		manifest, state := "yes", style.StateLinked
		switch {
		case s.Invalid:
			manifest, state = "invalid", style.StateError
		case !s.HasManifest:
			manifest, state = "no", style.StateNone
		}
		age := ""
		if !s.CreatedAt.IsZero() {
			age = humanize.Time(s.CreatedAt)
		}
		sec.Rows = append(sec.Rows, Row{
			Cells: []string{s.Name, age, string(s.Operation), s.Scope, fmt.Sprint(s.Entries), manifest},
			State: state,
		})
	}
	doc.Sections = append(doc.Sections, sec)

	doc.Summary = fmt.Sprintf("%d %s", len(h.Sessions), plural(len(h.Sessions), "session", "sessions"))
	return doc
}

// FromClientList renders the client registry
func FromClientList(l *ClientList) *Document {
	doc := &Document{Title: fmt.Sprintf("Registered clients (%s scope)", l.Scope)}

	sec := Section{Columns: []string{"client", "root", "kinds", "prompt file"}}
	for _, c := range l.Clients {
		kinds := make([]string, 0, len(c.Kinds))
		for _, k := range c.Kinds {
			kinds = append(kinds, string(k))
		}
		prompt := "-"
		for _, k := range c.Kinds {
			if k == clients.Prompt {
				prompt = c.PromptFile
			}
		}
		sec.Rows = append(sec.Rows, Row{
			Cells: []string{string(c.ID), c.Root, strings.Join(kinds, ", "), prompt},
			State: style.StateInfo,
		})
	}
	doc.Sections = append(doc.Sections, sec)

	doc.Summary = fmt.Sprintf("%d %s", len(l.Clients), plural(len(l.Clients), "client", "clients"))
	return doc
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
