package port

import "ternsnip/internal/domain"

type Tokenizer interface {
	Tokenize(sig string) []domain.Token
}
