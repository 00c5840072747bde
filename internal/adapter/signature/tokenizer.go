package signature

import (
	"regexp"
	"strings"

	"ternsnip/internal/domain"
)

// objectLiteral matches a {...} span up to the first closing brace.
// Nested object literals are not supported.
var objectLiteral = regexp.MustCompile(`\{[^}]+\}`)

// ObjectPlaceholder replaces every collapsed object literal.
const ObjectPlaceholder = "Object"

// Tokenizer splits Tern signature strings into structural tokens and
// identifiers.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits sig into tokens. It never fails; malformed input just
// produces an unusual token stream.
func (t *Tokenizer) Tokenize(sig string) []domain.Token {
	return scan(normalize(sig))
}

// normalize rewrites "fn(" to "(", "->" to ">" and collapses object
// literals, in that order.
func normalize(sig string) string {
	sig = strings.ReplaceAll(sig, "fn(", "(")
	sig = strings.ReplaceAll(sig, "->", ">")
	return objectLiteral.ReplaceAllLiteralString(sig, ObjectPlaceholder)
}

func scan(text string) []domain.Token {
	var tokens []domain.Token
	var ident strings.Builder

	flush := func() {
		if ident.Len() > 0 {
			tokens = append(tokens, domain.Token{Kind: domain.TokenIdent, Text: ident.String()})
			ident.Reset()
		}
	}

	// Every structural character is ASCII, so the scan works on bytes and
	// leaves anything else, invalid UTF-8 included, untouched.
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case ' ', '\t':
			continue
		case '(', ')', '>', ',':
			flush()
			tokens = append(tokens, domain.Token{Kind: structuralKind(c), Text: text[i : i+1]})
		default:
			ident.WriteByte(c)
		}
	}
	flush()

	return tokens
}

func structuralKind(c byte) domain.TokenKind {
	switch c {
	case '(':
		return domain.TokenOpen
	case ')':
		return domain.TokenClose
	case '>':
		return domain.TokenArrow
	default:
		return domain.TokenComma
	}
}
