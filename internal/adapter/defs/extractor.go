package defs

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"ternsnip/internal/domain"
)

const (
	keyType   = "!type"
	keyDoc    = "!doc"
	keyURL    = "!url"
	keyDefine = "!define"
)

type found struct {
	def     domain.Definition
	defined bool // reached through !define
}

// Extract reads a Tern JSON definition file and returns every function
// typed property it declares, named by dotted path and sorted by name.
// When a name is declared more than once the top-level declaration wins
// over a !define one, then the smallest signature. Snippets are left empty.
func Extract(r io.Reader, origin string) ([]domain.Definition, error) {
	var root map[string]any
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", origin, err)
	}

	var all []found
	walk(root, "", origin, false, &all)

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.def.Name != b.def.Name {
			return a.def.Name < b.def.Name
		}
		if a.defined != b.defined {
			return !a.defined
		}
		return a.def.Signature < b.def.Signature
	})

	out := make([]domain.Definition, 0, len(all))
	for _, f := range all {
		if n := len(out); n > 0 && out[n-1].Name == f.def.Name {
			continue
		}
		out = append(out, f.def)
	}
	return out, nil
}

func walk(obj map[string]any, prefix, origin string, defined bool, out *[]found) {
	for key, val := range obj {
		if key == keyDefine {
			if defines, ok := val.(map[string]any); ok {
				walk(defines, "", origin, true, out)
			}
			continue
		}
		if strings.HasPrefix(key, "!") {
			continue
		}

		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		switch v := val.(type) {
		case string:
			if isFunction(v) {
				*out = append(*out, found{
					def:     domain.Definition{Name: name, Signature: v, Origin: origin},
					defined: defined,
				})
			}
		case map[string]any:
			if t, ok := v[keyType].(string); ok && isFunction(t) {
				doc, _ := v[keyDoc].(string)
				url, _ := v[keyURL].(string)
				*out = append(*out, found{
					def: domain.Definition{
						Name:      name,
						Signature: t,
						Origin:    origin,
						Doc:       doc,
						URL:       url,
					},
					defined: defined,
				})
			}
			walk(v, name, origin, defined, out)
		}
	}
}

func isFunction(t string) bool {
	return strings.HasPrefix(strings.TrimSpace(t), "fn(")
}
