package usecase

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ternsnip/config"
	"ternsnip/internal/adapter/fs"
	"ternsnip/internal/adapter/memstore"
	"ternsnip/internal/adapter/snippet"
	"ternsnip/internal/domain"
)

const arrayDefs = `{
  "!name": "arrays",
  "Array": {
    "prototype": {
      "length": "number",
      "push": "fn(newelt) -> number",
      "filter": {"!type": "fn(test: fn(elt, i: number) -> bool, context) -> [?]", "!doc": "Filters."},
      "broken": "fn() -> a -> b"
    }
  }
}`

func newExpander(t *testing.T) *ExpandUseCase {
	t.Helper()
	return NewExpandUseCase(snippet.NewSynthesizer(), nil)
}

func TestExpandUseCase(t *testing.T) {
	u := newExpander(t)

	tests := []struct {
		sig      string
		expected string
		ok       bool
	}{
		{"fn(a, b) -> number", "(${1:a}, ${2:b})", true},
		{"fn()", "()", true},
		{"number", "", false},
		{"", "", false},
		{"fn() -> a -> b", "", false},
		{"fn(a", "", false},
	}

	for _, tt := range tests {
		got, ok := u.Expand(tt.sig)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("Expand(%q) = (%q, %v), want (%q, %v)", tt.sig, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestNewExpander_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Snippet.Notation = "chocolat"
	cfg.Snippet.ExpandCallbacks = false

	e, err := NewExpander(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		got, ok := e.Expand("fn(a, compare: fn(a, b) -> number, context)")
		if !ok || got != `(%{1="a"}, %{2="compare"})` {
			t.Errorf("got (%q, %v)", got, ok)
		}
	}

	cfg.Snippet.Notation = "emacs"
	if _, err := NewExpander(cfg, nil); err == nil {
		t.Error("expected error for unknown notation")
	}
}

func TestIndexUseCase(t *testing.T) {
	root := t.TempDir()
	defsDir := filepath.Join(root, "defs")
	if err := os.MkdirAll(defsDir, 0755); err != nil {
		t.Fatal(err)
	}
	arrays := filepath.Join(defsDir, "arrays.json")
	if err := os.WriteFile(arrays, []byte(arrayDefs), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(defsDir, "bad.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	st := memstore.NewMemoryStore()
	walker := fs.NewWalker([]string{"**/defs/*.json"}, nil)
	u := NewIndexUseCase(st, walker, fs.OSReader{}, newExpander(t), nil)

	var calls int
	result, err := u.Index(root, func(processed, total int, _ string) {
		calls++
		if processed > total {
			t.Errorf("processed %d > total %d", processed, total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.FilesIndexed != 1 || len(result.Errors) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.DefsStored != 3 || result.Snippets != 2 {
		t.Errorf("expected 3 defs with 2 snippets, got %+v", result)
	}
	if calls != 2 {
		t.Errorf("expected 2 progress calls, got %d", calls)
	}

	filter, err := st.GetDefinition("Array.prototype.filter")
	if err != nil {
		t.Fatal(err)
	}
	if filter.Snippet != `(${1:function(elt, i) {${2}\}})` || filter.Doc != "Filters." {
		t.Errorf("unexpected filter definition: %+v", filter)
	}
	broken, err := st.GetDefinition("Array.prototype.broken")
	if err != nil {
		t.Fatal(err)
	}
	if broken.Snippet != "" {
		t.Errorf("malformed signature should have no snippet, got %q", broken.Snippet)
	}

	// Second run skips the unchanged file.
	result, err = u.Index(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesSkipped != 1 || result.FilesIndexed != 0 {
		t.Errorf("expected unchanged file to be skipped: %+v", result)
	}

	if err := os.Remove(arrays); err != nil {
		t.Fatal(err)
	}
	result, err = u.Index(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesDeleted != 1 {
		t.Errorf("expected removed file to be deleted: %+v", result)
	}
	if _, err := st.GetDefinition("Array.prototype.push"); err == nil {
		t.Error("expected definitions of removed file to be gone")
	}
}

func TestLookupUseCase(t *testing.T) {
	st := memstore.NewMemoryStore()
	st.PutDefinitions("a.json", time.Unix(1, 0), []domain.Definition{
		{Name: "Array.prototype.map"},
		{Name: "Map"},
		{Name: "Array.prototype.push"},
	})
	u := NewLookupUseCase(st)

	all, err := u.Search("map", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 matches, got %d", len(all))
	}

	limited, err := u.Search("", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Name != "Array.prototype.map" {
		t.Errorf("unexpected limited result: %+v", limited)
	}

	if _, err := u.Get("Map"); err != nil {
		t.Errorf("expected Map to be found: %v", err)
	}
}

func TestDecorateUseCase(t *testing.T) {
	input := `{"start": 4, "end": 6, "isProperty": true, "completions": [
  {"name": "push", "type": "fn(newelt) -> number", "depth": 0},
  {"name": "length", "type": "number"},
  {"name": "guess"}
]}`

	u := NewDecorateUseCase(newExpander(t))
	var out bytes.Buffer
	n, err := u.DecorateJSON(strings.NewReader(input), &out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 decorated completion, got %d", n)
	}

	var resp domain.CompletionsResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Start != 4 || resp.End != 6 || !resp.IsProperty {
		t.Errorf("response envelope not preserved: %+v", resp)
	}
	if resp.Completions[0].Snippet != "(${1:newelt})" {
		t.Errorf("unexpected snippet %q", resp.Completions[0].Snippet)
	}
	if resp.Completions[0].Depth == nil || *resp.Completions[0].Depth != 0 {
		t.Error("expected depth 0 to be preserved")
	}
	if resp.Completions[1].Snippet != "" || resp.Completions[2].Snippet != "" {
		t.Error("non-function completions should not get a snippet")
	}

	if _, err := u.DecorateJSON(strings.NewReader("not json"), &out); err == nil {
		t.Error("expected decode error")
	}
}
