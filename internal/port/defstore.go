package port

import (
	"time"

	"ternsnip/internal/domain"
)

type DefinitionStore interface {
	// PutDefinitions replaces everything previously stored for origin.
	PutDefinitions(origin string, modTime time.Time, defs []domain.Definition) error

	GetDefinition(name string) (domain.Definition, error)

	DeleteOrigin(origin string) error

	ListOrigins() ([]domain.Origin, error)

	SearchDefinitions(query string) ([]domain.Definition, error)

	GetStats() (domain.Stats, error)

	Close() error
}
