package usecase

import (
	"ternsnip/internal/domain"
	"ternsnip/internal/port"
)

// LookupUseCase reads definitions back from the catalog.
type LookupUseCase struct {
	store port.DefinitionStore
}

func NewLookupUseCase(store port.DefinitionStore) *LookupUseCase {
	return &LookupUseCase{store: store}
}

func (u *LookupUseCase) Get(name string) (domain.Definition, error) {
	return u.store.GetDefinition(name)
}

// Search returns up to limit definitions whose name contains query.
// A limit of zero or less returns every match.
func (u *LookupUseCase) Search(query string, limit int) ([]domain.Definition, error) {
	matches, err := u.store.SearchDefinitions(query)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
