package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"ternsnip/config"
	"ternsnip/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStore_PutGet(t *testing.T) {
	st := newTestStore(t)

	defs := []domain.Definition{
		{Name: "Array.prototype.push", Signature: "fn(newelt) -> number", Snippet: "(${1:newelt})"},
		{Name: "Array.prototype.pop", Signature: "fn()", Snippet: "()"},
	}
	if err := st.PutDefinitions("ecma5.json", time.Unix(100, 0), defs); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetDefinition("Array.prototype.push")
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Definition{
		Name:      "Array.prototype.push",
		Signature: "fn(newelt) -> number",
		Snippet:   "(${1:newelt})",
		Origin:    "ecma5.json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}

	if _, err := st.GetDefinition("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBoltStore_ReplaceOrigin(t *testing.T) {
	st := newTestStore(t)

	first := []domain.Definition{{Name: "a"}, {Name: "b"}}
	if err := st.PutDefinitions("defs.json", time.Unix(1, 0), first); err != nil {
		t.Fatal(err)
	}
	second := []domain.Definition{{Name: "b"}, {Name: "c"}}
	if err := st.PutDefinitions("defs.json", time.Unix(2, 0), second); err != nil {
		t.Fatal(err)
	}

	if _, err := st.GetDefinition("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected stale definition to be removed, got %v", err)
	}

	origins, err := st.ListOrigins()
	if err != nil {
		t.Fatal(err)
	}
	if len(origins) != 1 || origins[0].Defs != 2 || origins[0].ModTime.Unix() != 2 {
		t.Errorf("unexpected origins: %+v", origins)
	}
}

func TestBoltStore_DeleteOriginKeepsOtherOwners(t *testing.T) {
	st := newTestStore(t)

	if err := st.PutDefinitions("ecma5.json", time.Unix(1, 0), []domain.Definition{{Name: "shared"}, {Name: "old"}}); err != nil {
		t.Fatal(err)
	}
	if err := st.PutDefinitions("ecma6.json", time.Unix(1, 0), []domain.Definition{{Name: "shared"}}); err != nil {
		t.Fatal(err)
	}

	if err := st.DeleteOrigin("ecma5.json"); err != nil {
		t.Fatal(err)
	}

	def, err := st.GetDefinition("shared")
	if err != nil {
		t.Fatalf("expected shared definition to survive: %v", err)
	}
	if def.Origin != "ecma6.json" {
		t.Errorf("expected origin ecma6.json, got %s", def.Origin)
	}
	if _, err := st.GetDefinition("old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old definition to be deleted, got %v", err)
	}
}

func TestBoltStore_SearchAndStats(t *testing.T) {
	st := newTestStore(t)

	defs := []domain.Definition{
		{Name: "Array.prototype.slice", Snippet: "(${1:from}, ${2:to})"},
		{Name: "String.prototype.slice", Snippet: "(${1:from}, ${2:to})"},
		{Name: "Math.PI"},
	}
	if err := st.PutDefinitions("ecma5.json", time.Unix(1, 0), defs); err != nil {
		t.Fatal(err)
	}

	matches, err := st.SearchDefinitions("SLICE")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 || matches[0].Name != "Array.prototype.slice" {
		t.Errorf("unexpected matches: %+v", matches)
	}

	stats, err := st.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Stats{TotalOrigins: 1, TotalDefs: 3, WithSnippet: 2}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestBoltStore_Migration(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultConfig()

	result, err := st.CheckMigration(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration || result.NeedsRebuild {
		t.Errorf("fresh catalog should need migration only: %+v", result)
	}

	if err := st.Migrate(cfg); err != nil {
		t.Fatal(err)
	}
	result, err = st.CheckMigration(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.NeedsMigration || result.NeedsRebuild {
		t.Errorf("migrated catalog should be current: %+v", result)
	}

	cfg.Snippet.Notation = "chocolat"
	rebuild, reason, err := st.NeedsRebuild(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !rebuild || reason == "" {
		t.Errorf("expected rebuild after notation change, got %v %q", rebuild, reason)
	}
}

func TestBoltStore_Clear(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultConfig()
	if err := st.Migrate(cfg); err != nil {
		t.Fatal(err)
	}
	if err := st.PutDefinitions("a.json", time.Unix(1, 0), []domain.Definition{{Name: "x"}}); err != nil {
		t.Fatal(err)
	}

	if err := st.Clear(); err != nil {
		t.Fatal(err)
	}

	stats, err := st.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalDefs != 0 || stats.TotalOrigins != 0 {
		t.Errorf("expected empty catalog, got %+v", stats)
	}
	info, err := st.GetSchemaInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Version != CurrentSchemaVersion {
		t.Errorf("expected schema info to survive Clear, got %+v", info)
	}
}
