package core

import "testing"

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Ana", "Ana"},
		{"whitespace", "  Ana  ", "Ana"},
		{"non-breaking space", "\u00a0Ana\u00a0", "Ana"},
		{"zero width", "\u200bAB12\u200b", "AB12"},
		{"text formula wrapper", `="00123"`, "00123"},
		{"bare equals kept", "=SUM(A1)", "=SUM(A1)"},
		{"apostrophe kept", "O'Brien", "O'Brien"},
		{"empty", "", ""},
		{"only wrapper quote", `="`, `="`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
