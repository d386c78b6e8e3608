package ui

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

// Format selects how status, apply and undo reports are written.
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText when the renderer is built.
	FormatAuto Format = iota
	// FormatTerminal is the colored state table.
	FormatTerminal
	// FormatText is the same table with no escape sequences.
	FormatText
	// FormatJSON emits the report document for scripts.
	FormatJSON
	// FormatYAML emits the report document as YAML.
	FormatYAML
)

// names accepted by --format and printed by String
var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
	"yml":      FormatYAML,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat maps a --format value to a Format. Matching ignores case and
// surrounding blanks; an empty value means auto.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[name]; ok {
		return f, nil
	}
	for f, canonical := range formatNames {
		if canonical == name {
			return f, nil
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s (want auto, term, text, json or yaml)", s).
		WithDetail("format", s)
}

// DetectFormat resolves FormatAuto for the given stream. Colors are only
// used on a real terminal that supports them and when NO_COLOR is unset.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
