package memstore

import (
	"errors"
	"testing"
	"time"

	"ternsnip/internal/adapter/store"
	"ternsnip/internal/domain"
	"ternsnip/internal/port"
)

var _ port.DefinitionStore = (*MemoryStore)(nil)
var _ port.DefinitionStore = (*store.BoltStore)(nil)

func TestMemoryStore_Ownership(t *testing.T) {
	s := NewMemoryStore()

	if err := s.PutDefinitions("a.json", time.Unix(1, 0), []domain.Definition{{Name: "x", Snippet: "()"}, {Name: "y"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutDefinitions("b.json", time.Unix(1, 0), []domain.Definition{{Name: "x"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteOrigin("a.json"); err != nil {
		t.Fatal(err)
	}

	def, err := s.GetDefinition("x")
	if err != nil || def.Origin != "b.json" {
		t.Errorf("expected x owned by b.json, got %+v, %v", def, err)
	}
	if _, err := s.GetDefinition("y"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for y, got %v", err)
	}

	stats, _ := s.GetStats()
	if stats.TotalOrigins != 1 || stats.TotalDefs != 1 || stats.WithSnippet != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMemoryStore_SearchSorted(t *testing.T) {
	s := NewMemoryStore()
	defs := []domain.Definition{{Name: "b.map"}, {Name: "a.Map"}, {Name: "c.filter"}}
	if err := s.PutDefinitions("d.json", time.Unix(1, 0), defs); err != nil {
		t.Fatal(err)
	}

	got, _ := s.SearchDefinitions("map")
	if len(got) != 2 || got[0].Name != "a.Map" || got[1].Name != "b.map" {
		t.Errorf("unexpected search result: %+v", got)
	}

	s.Clear()
	if got, _ := s.SearchDefinitions(""); len(got) != 0 {
		t.Errorf("expected empty store after Clear, got %d", len(got))
	}
}
