// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/agentlink/pkg/style"
	"github.com/arthur-debert/agentlink/pkg/ui/display"
)

// Renderer lays documents out as pterm tables with lipgloss headings
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	doc, ok := display.Convert(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
	return r.renderDocument(doc)
}

func (r *Renderer) renderDocument(doc *display.Document) error {
	if doc.Title != "" {
		if _, err := fmt.Fprintln(r.output, style.TitleStyle.Render(doc.Title)); err != nil {
			return err
		}
	}
	if doc.Note != "" {
		if _, err := fmt.Fprintln(r.output, style.NoteStyle.Render(doc.Note)); err != nil {
			return err
		}
	}

	for _, sec := range doc.Sections {
		if _, err := fmt.Fprintln(r.output); err != nil {
			return err
		}
		if sec.Heading != "" {
			heading := style.SubtitleStyle.Render(sec.Heading)
			if sec.Subheading != "" {
				heading += " " + style.PathStyle.Render(sec.Subheading)
			}
			if _, err := fmt.Fprintln(r.output, heading); err != nil {
				return err
			}
		}
		if len(sec.Rows) == 0 {
			if _, err := fmt.Fprintln(r.output, style.MutedStyle.Render("  nothing to show")); err != nil {
				return err
			}
			continue
		}
		if err := r.renderTable(sec); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(r.output); err != nil {
		return err
	}
	summary := style.SuccessStyle
	switch doc.Outcome {
	case display.OutcomeWarning:
		summary = style.WarningStyle
	case display.OutcomeFailure:
		summary = style.ErrorStyle
	}
	_, err := fmt.Fprintln(r.output, summary.Render(doc.Summary))
	return err
}

func (r *Renderer) renderTable(sec display.Section) error {
	data := pterm.TableData{sec.Columns}
	for _, row := range sec.Rows {
		cells := make([]string, len(row.Cells))
		copy(cells, row.Cells)
		if len(cells) > 1 {
			cells[1] = style.StateStyle(row.State).Sprint(cells[1])
		}
		data = append(data, cells)
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithLeftAlignment().
		WithData(data).
		WithWriter(r.output).
		Render()
}

// RenderError renders an error with terminal styling
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, style.ErrorStyle.Render("Error: "+err.Error()))
	return werr
}

// RenderMessage renders a simple message with terminal styling
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.InfoStyle.Render(msg))
	return err
}
