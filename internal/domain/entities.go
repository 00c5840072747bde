package domain

import "time"

type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenOpen
	TokenClose
	TokenArrow
	TokenComma
)

// Token is one lexeme of a signature. Structural tokens carry their
// single character in Text.
type Token struct {
	Kind TokenKind
	Text string
}

// Type is one position in a signature: either a named leaf or a nested
// function type. Exactly one of Name and Func is set.
type Type struct {
	Name string    `json:"name,omitempty"`
	Func *FuncType `json:"fn,omitempty"`
}

// FuncType is a parsed function type. Ret is nil when no return type
// was written.
type FuncType struct {
	Args []Type `json:"args"`
	Ret  *Type  `json:"ret,omitempty"`
}

func Leaf(name string) Type {
	return Type{Name: name}
}

func Fn(f *FuncType) Type {
	return Type{Func: f}
}

func (t Type) IsFunc() bool {
	return t.Func != nil
}

// Definition is a named function signature from a definition file
// together with its synthesized snippet.
type Definition struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Snippet   string `json:"snippet"`
	Origin    string `json:"origin"`
	Doc       string `json:"doc,omitempty"`
	URL       string `json:"url,omitempty"`
}

type Origin struct {
	Path    string
	ModTime time.Time
	Defs    int
}

type Stats struct {
	TotalOrigins int `json:"total_origins"`
	TotalDefs    int `json:"total_defs"`
	WithSnippet  int `json:"with_snippet"`
}

// CompletionsResponse mirrors the body returned by a Tern "completions"
// query with types, docs, urls and origins enabled.
type CompletionsResponse struct {
	Start       int          `json:"start"`
	End         int          `json:"end"`
	IsProperty  bool         `json:"isProperty,omitempty"`
	IsObjectKey bool         `json:"isObjectKey,omitempty"`
	Completions []Completion `json:"completions"`
}

type Completion struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Depth   *int   `json:"depth,omitempty"`
	Doc     string `json:"doc,omitempty"`
	URL     string `json:"url,omitempty"`
	Origin  string `json:"origin,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}
