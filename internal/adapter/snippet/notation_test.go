package snippet

import "testing"

func TestLookupNotation(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"", "lsp", false},
		{"lsp", "lsp", false},
		{"TextMate", "lsp", false},
		{"chocolat", "chocolat", false},
		{"vim", "", true},
	}

	for _, tt := range tests {
		n, err := LookupNotation(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("LookupNotation(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("LookupNotation(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if n.Name() != tt.expected {
			t.Errorf("LookupNotation(%q) = %s, want %s", tt.name, n.Name(), tt.expected)
		}
	}
}

func TestNotation_Escape(t *testing.T) {
	if got := (LSP{}).Escape(`a\b$c}d{`); got != `a\\b\$c\}d{` {
		t.Errorf("LSP escape = %q", got)
	}
	if got := (Chocolat{}).Escape(`say "hi"`); got != `say \"hi\"` {
		t.Errorf("Chocolat escape = %q", got)
	}
}
