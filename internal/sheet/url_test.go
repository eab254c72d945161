package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpreadsheetURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantID  string
		wantGID string
		wantErr bool
	}{
		{"edit with fragment gid", "https://docs.google.com/spreadsheets/d/abc_DEF-123/edit#gid=42", "abc_DEF-123", "42", false},
		{"query gid", "https://docs.google.com/spreadsheets/d/xyz/edit?usp=sharing&gid=7", "xyz", "7", false},
		{"no gid", "https://docs.google.com/spreadsheets/d/xyz/edit", "xyz", "", false},
		{"surrounding whitespace", "  https://docs.google.com/spreadsheets/d/xyz  ", "xyz", "", false},
		{"not a spreadsheet", "https://example.com/file.csv", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseSpreadsheetURL(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSourceURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.wantGID, ref.GID)
		})
	}
}

func TestExportURLs(t *testing.T) {
	ref := SpreadsheetRef{ID: "abc", GID: "5"}

	assert.Equal(t, "https://h/spreadsheets/d/abc/export?format=csv&gid=5", ref.csvExportURL("https://h/"))
	assert.Equal(t, "https://h/spreadsheets/d/abc/export?format=xlsx", ref.xlsxExportURL("https://h"))
	assert.Equal(t, "https://h/spreadsheets/d/abc/gviz/tq?tqx=out:csv&gid=5", ref.gvizCSVURL("https://h"))

	ref.GID = ""
	assert.Equal(t, "https://h/spreadsheets/d/abc/gviz/tq?tqx=out:csv", ref.gvizCSVURL("https://h"))
}
