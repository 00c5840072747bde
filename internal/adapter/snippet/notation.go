package snippet

import (
	"fmt"
	"strings"
)

// Notation renders tabstop markers in a concrete snippet syntax. The index
// passed in is an opaque marker that the synthesizer later replaces with
// the tabstop's number, so implementations must emit it verbatim.
type Notation interface {
	Name() string

	// Primary wraps already escaped default text as an editable tabstop.
	Primary(index, text string) string

	// Secondary is an empty insertion point.
	Secondary(index string) string

	// Escape quotes literal default text.
	Escape(text string) string
}

// LSP is the TextMate snippet syntax used by LSP clients: ${1:text} and ${2}.
type LSP struct{}

var lspEscaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`)

func (LSP) Name() string                      { return "lsp" }
func (LSP) Primary(index, text string) string { return "${" + index + ":" + text + "}" }
func (LSP) Secondary(index string) string     { return "${" + index + "}" }
func (LSP) Escape(text string) string         { return lspEscaper.Replace(text) }

// Chocolat is the placeholder syntax of the Chocolat editor:
// %{1="text"} and %{2}.
type Chocolat struct{}

var chocolatEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (Chocolat) Name() string                      { return "chocolat" }
func (Chocolat) Primary(index, text string) string { return `%{` + index + `="` + text + `"}` }
func (Chocolat) Secondary(index string) string     { return "%{" + index + "}" }
func (Chocolat) Escape(text string) string         { return chocolatEscaper.Replace(text) }

// LookupNotation returns the notation registered under name. An empty name
// selects LSP.
func LookupNotation(name string) (Notation, error) {
	switch strings.ToLower(name) {
	case "", "lsp", "textmate":
		return LSP{}, nil
	case "chocolat":
		return Chocolat{}, nil
	default:
		return nil, fmt.Errorf("unknown snippet notation: %s", name)
	}
}
