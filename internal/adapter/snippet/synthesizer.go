package snippet

import (
	"errors"
	"strconv"
	"strings"

	"ternsnip/internal/adapter/signature"
	"ternsnip/internal/domain"
)

// ErrNoSnippet is returned by Expand when the signature is not a function
// type. It is an ordinary outcome for leaf types such as "number".
var ErrNoSnippet = errors.New("signature is not a function type")

const (
	// indexMarker stands for "the next tabstop number" until the final
	// numbering pass.
	indexMarker = "\x00"
	// bodyMarker is the secondary tabstop inside a callback placeholder.
	bodyMarker = "\x01"
)

var markerStripper = strings.NewReplacer(indexMarker, "", bodyMarker, "")

// Synthesizer renders function types as completion snippets.
type Synthesizer struct {
	notation        Notation
	parser          *signature.Parser
	expandCallbacks bool
	dropContext     bool
}

type Option func(*Synthesizer)

// WithNotation selects the tabstop syntax. The default is LSP.
func WithNotation(n Notation) Option {
	return func(s *Synthesizer) {
		if n != nil {
			s.notation = n
		}
	}
}

// WithCallbacks controls whether function-typed arguments are expanded
// into "function(args) {}" placeholders. When disabled such an argument
// contributes nothing, so a label in front of it stays as the argument name.
func WithCallbacks(expand bool) Option {
	return func(s *Synthesizer) { s.expandCallbacks = expand }
}

// WithDropContext controls whether a trailing "context" argument is
// removed.
func WithDropContext(drop bool) Option {
	return func(s *Synthesizer) { s.dropContext = drop }
}

// NewSynthesizer creates a Synthesizer. By default it uses LSP notation,
// expands callbacks and drops a trailing context argument.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		notation:        LSP{},
		parser:          signature.NewParser(),
		expandCallbacks: true,
		dropContext:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expand tokenizes, parses and synthesizes sig.
func (s *Synthesizer) Expand(sig string) (string, error) {
	t, err := s.parser.ParseType(sig)
	if err != nil {
		return "", err
	}
	snip, ok := s.SynthesizeType(t)
	if !ok {
		return "", ErrNoSnippet
	}
	return snip, nil
}

// SynthesizeType is Synthesize for any parsed type. Leaf types and nil
// produce no snippet.
func (s *Synthesizer) SynthesizeType(t *domain.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	return s.Synthesize(t.Func)
}

// Synthesize renders fn's arguments as "(${1:a}, ${2:b})". Tabstops are
// numbered in the order they appear in the returned text, so a callback's
// body tabstop comes right after the callback argument itself.
func (s *Synthesizer) Synthesize(fn *domain.FuncType) (string, bool) {
	if fn == nil {
		return "", false
	}

	snips := make([]string, 0, len(fn.Args))
	for _, arg := range fn.Args {
		switch {
		case !arg.IsFunc():
			snips = append(snips, markerStripper.Replace(arg.Name))
		case s.expandCallbacks:
			snips = append(snips, callbackPlaceholder(arg.Func))
		default:
			snips = append(snips, "")
		}
	}

	snips = Clean(snips)

	if s.dropContext && len(snips) > 0 && snips[len(snips)-1] == "context" {
		snips = snips[:len(snips)-1]
	}

	for i, snip := range snips {
		snips[i] = s.primary(snip)
	}

	return numberTabstops("(" + strings.Join(snips, ", ") + ")"), true
}

// callbackPlaceholder expands fn one level deep. Function types nested in
// fn's own arguments are skipped.
func callbackPlaceholder(fn *domain.FuncType) string {
	inner := make([]string, 0, len(fn.Args))
	for _, arg := range fn.Args {
		if !arg.IsFunc() {
			inner = append(inner, markerStripper.Replace(arg.Name))
		}
	}
	return functionPrefix + strings.Join(Clean(inner), ", ") + ") {" + bodyMarker + "}"
}

func (s *Synthesizer) primary(text string) string {
	parts := strings.Split(text, bodyMarker)
	for i, part := range parts {
		parts[i] = s.notation.Escape(part)
	}
	body := strings.Join(parts, s.notation.Secondary(indexMarker))
	return s.notation.Primary(indexMarker, body)
}

// numberTabstops replaces every index marker with an ascending number
// starting at 1, left to right.
func numberTabstops(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + 8)

	next := 1
	for {
		i := strings.Index(text, indexMarker)
		if i < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:i])
		sb.WriteString(strconv.Itoa(next))
		next++
		text = text[i+len(indexMarker):]
	}
}
