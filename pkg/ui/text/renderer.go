// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/agentlink/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as plain text
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
		if _, err := fmt.Fprintln(r.output, doc.Title); err != nil {
			return err
		}
	}
	if doc.Note != "" {
		if _, err := fmt.Fprintf(r.output, "note: %s\n", doc.Note); err != nil {
			return err
		}
	}

	for _, sec := range doc.Sections {
		if _, err := fmt.Fprintln(r.output); err != nil {
			return err
		}
		if sec.Heading != "" {
			heading := sec.Heading + ":"
			if sec.Subheading != "" {
				heading += " " + sec.Subheading
			}
			if _, err := fmt.Fprintln(r.output, heading); err != nil {
				return err
			}
		}
		if len(sec.Rows) == 0 {
			if _, err := fmt.Fprintln(r.output, "    (nothing)"); err != nil {
				return err
			}
			continue
		}

		tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
		for _, row := range sec.Rows {
			if _, err := fmt.Fprintf(tw, "    %s\n", strings.Join(row.Cells, "\t")); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(r.output); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.output, doc.Summary)
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
