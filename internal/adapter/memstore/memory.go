package memstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ternsnip/internal/adapter/store"
	"ternsnip/internal/domain"
)

// MemoryStore is an in-memory port.DefinitionStore with the same ownership
// rules as the bolt catalog.
type MemoryStore struct {
	mu         sync.RWMutex
	defs       map[string]domain.Definition
	originDefs map[string][]string
	origins    map[string]domain.Origin
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		defs:       make(map[string]domain.Definition),
		originDefs: make(map[string][]string),
		origins:    make(map[string]domain.Origin),
	}
}

func (s *MemoryStore) PutDefinitions(origin string, modTime time.Time, defs []domain.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteOwned(origin)

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		def.Origin = origin
		s.defs[def.Name] = def
		names = append(names, def.Name)
	}
	s.originDefs[origin] = names
	s.origins[origin] = domain.Origin{Path: origin, ModTime: time.Unix(modTime.Unix(), 0), Defs: len(defs)}
	return nil
}

func (s *MemoryStore) GetDefinition(name string) (domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[name]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", store.ErrNotFound, name)
	}
	return def, nil
}

func (s *MemoryStore) DeleteOrigin(origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteOwned(origin)
	delete(s.origins, origin)
	return nil
}

func (s *MemoryStore) deleteOwned(origin string) {
	for _, name := range s.originDefs[origin] {
		if def, ok := s.defs[name]; ok && def.Origin == origin {
			delete(s.defs, name)
		}
	}
	delete(s.originDefs, origin)
}

func (s *MemoryStore) ListOrigins() ([]domain.Origin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	origins := make([]domain.Origin, 0, len(s.origins))
	for _, o := range s.origins {
		origins = append(origins, o)
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i].Path < origins[j].Path })
	return origins, nil
}

func (s *MemoryStore) SearchDefinitions(query string) ([]domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	queryLower := strings.ToLower(query)
	var matches []domain.Definition
	for name, def := range s.defs {
		if strings.Contains(strings.ToLower(name), queryLower) {
			matches = append(matches, def)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.Stats{
		TotalOrigins: len(s.origins),
		TotalDefs:    len(s.defs),
	}
	for _, def := range s.defs {
		if def.Snippet != "" {
			stats.WithSnippet++
		}
	}
	return stats, nil
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs = make(map[string]domain.Definition)
	s.originDefs = make(map[string][]string)
	s.origins = make(map[string]domain.Origin)
}

func (s *MemoryStore) Close() error {
	return nil
}
