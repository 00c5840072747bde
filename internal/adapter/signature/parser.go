package signature

import (
	"errors"
	"fmt"

	"ternsnip/internal/domain"
	"ternsnip/internal/port"
)

var (
	// ErrDuplicateReturn reports a function whose return type was assigned
	// more than once.
	ErrDuplicateReturn = errors.New("return type assigned twice")

	// ErrUnbalanced reports a closing parenthesis without an open function,
	// or input that ends inside a function.
	ErrUnbalanced = errors.New("unbalanced parentheses")
)

// Parser builds function type trees from signature strings.
type Parser struct {
	tokenizer port.Tokenizer
}

// NewParser creates a Parser using the default Tokenizer.
func NewParser() *Parser {
	return &Parser{tokenizer: NewTokenizer()}
}

// NewParserWithTokenizer creates a Parser that reads tokens from tok.
func NewParserWithTokenizer(tok port.Tokenizer) *Parser {
	return &Parser{tokenizer: tok}
}

// Parse parses sig and returns the outermost function type. It returns
// nil without error when sig holds no function type.
func (p *Parser) Parse(sig string) (*domain.FuncType, error) {
	t, err := p.ParseType(sig)
	if err != nil || t == nil {
		return nil, err
	}
	return t.Func, nil
}

// ParseType parses sig as a type, which may be a leaf such as "number".
// It returns nil without error for empty input.
func (p *Parser) ParseType(sig string) (*domain.Type, error) {
	return ParseTokens(p.tokenizer.Tokenize(sig))
}

// ParseTokens builds a type tree from tokens using an explicit stack of
// open functions, so nesting depth is bounded only by memory.
//
// The stack is seeded with a synthetic root whose return type receives the
// parsed signature. A return type always attaches to the most recently
// closed function, which is why the parser starts in return position with
// the root as the last closed node.
func ParseTokens(tokens []domain.Token) (*domain.Type, error) {
	root := &domain.FuncType{}
	stack := []*domain.FuncType{root}
	last := root
	argsMode := false

	for i, tok := range tokens {
		switch tok.Kind {
		case domain.TokenOpen:
			node := &domain.FuncType{}
			if err := attach(stack[len(stack)-1], last, argsMode, domain.Fn(node)); err != nil {
				return nil, fmt.Errorf("token %d: %w", i, err)
			}
			stack = append(stack, node)
		case domain.TokenClose:
			if len(stack) == 1 {
				return nil, fmt.Errorf("unexpected ')' at token %d: %w", i, ErrUnbalanced)
			}
			last = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case domain.TokenIdent:
			if err := attach(stack[len(stack)-1], last, argsMode, domain.Leaf(tok.Text)); err != nil {
				return nil, fmt.Errorf("token %d (%q): %w", i, tok.Text, err)
			}
		}
		argsMode = tok.Kind != domain.TokenArrow
	}

	if open := len(stack) - 1; open > 0 {
		return nil, fmt.Errorf("%d unclosed function(s): %w", open, ErrUnbalanced)
	}
	return root.Ret, nil
}

func attach(top, last *domain.FuncType, argsMode bool, t domain.Type) error {
	if argsMode {
		top.Args = append(top.Args, t)
		return nil
	}
	if last.Ret != nil {
		return ErrDuplicateReturn
	}
	last.Ret = &t
	return nil
}
