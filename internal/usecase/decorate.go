package usecase

import (
	"encoding/json"
	"fmt"
	"io"

	"ternsnip/internal/domain"
	"ternsnip/internal/port"
)

// DecorateUseCase attaches snippets to the entries of a Tern completions
// response.
type DecorateUseCase struct {
	expander port.Expander
}

func NewDecorateUseCase(expander port.Expander) *DecorateUseCase {
	return &DecorateUseCase{expander: expander}
}

// Decorate sets Snippet on every function-typed completion and returns how
// many were decorated. Other completions are left untouched.
func (u *DecorateUseCase) Decorate(resp *domain.CompletionsResponse) int {
	n := 0
	for i := range resp.Completions {
		c := &resp.Completions[i]
		if c.Type == "" {
			continue
		}
		if snip, ok := u.expander.Expand(c.Type); ok {
			c.Snippet = snip
			n++
		}
	}
	return n
}

// DecorateJSON reads a completions response from r and writes the
// decorated response to w.
func (u *DecorateUseCase) DecorateJSON(r io.Reader, w io.Writer) (int, error) {
	var resp domain.CompletionsResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return 0, fmt.Errorf("failed to decode completions: %w", err)
	}

	n := u.Decorate(&resp)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return n, fmt.Errorf("failed to encode completions: %w", err)
	}
	return n, nil
}
