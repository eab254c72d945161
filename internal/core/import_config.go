package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/platesync/internal/sheet"
)

// ImportConfig is the user-editable import state persisted between runs.
// Keywords holds only the groups the user edited; the rest come from the
// importer's defaults.
type ImportConfig struct {
	SourceURL          string        `json:"sourceUrl"`
	HeaderRowNumber    int           `json:"headerRowNumber"`
	ColumnMapping      ColumnMapping `json:"columnMapping"`
	CachedHeaderLabels []string      `json:"cachedHeaderLabels"`
	Keywords           Keywords      `json:"keywords,omitempty"`
}

// DefaultImportConfig returns the first-run configuration.
func DefaultImportConfig() *ImportConfig {
	return &ImportConfig{
		HeaderRowNumber: 1,
		ColumnMapping:   ColumnMapping{},
	}
}

// Normalize repairs a decoded config: nil maps become empty and an invalid
// header row falls back to 1.
func (c *ImportConfig) Normalize() {
	if c.HeaderRowNumber < 1 {
		c.HeaderRowNumber = 1
	}
	if c.ColumnMapping == nil {
		c.ColumnMapping = ColumnMapping{}
	}
}

// Clone returns a deep copy.
func (c *ImportConfig) Clone() *ImportConfig {
	out := *c
	out.ColumnMapping = make(ColumnMapping, len(c.ColumnMapping))
	for k, v := range c.ColumnMapping {
		out.ColumnMapping[k] = v
	}
	out.CachedHeaderLabels = append([]string(nil), c.CachedHeaderLabels...)
	if c.Keywords != nil {
		out.Keywords = Keywords{}.Merge(c.Keywords)
	}
	return &out
}

// SetSourceURL stores a hosted spreadsheet URL. An empty value clears it.
func (c *ImportConfig) SetSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if _, err := sheet.ParseSpreadsheetURL(raw); err != nil {
			return err
		}
	}
	c.SourceURL = raw
	return nil
}

// SetHeaderRow stores the 1-based header row. Cached labels belong to the
// previous row and are dropped.
func (c *ImportConfig) SetHeaderRow(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: row number must be at least 1, got %d", ErrHeaderRowOutOfRange, n)
	}
	c.HeaderRowNumber = n
	c.CachedHeaderLabels = nil
	return nil
}

// SetColumn stores a manual column for key. The value must be empty or a
// non-negative integer; empty unmaps the key.
func (c *ImportConfig) SetColumn(key FieldKey, value string) error {
	if _, err := ParseFieldKey(string(key)); err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		c.ClearColumn(key)
		return nil
	}
	if n, err := strconv.Atoi(value); err != nil || n < 0 {
		return fmt.Errorf("%w: %s must be a non-negative column index, got %q", ErrInvalidMapping, key, value)
	}
	if c.ColumnMapping == nil {
		c.ColumnMapping = ColumnMapping{}
	}
	c.ColumnMapping[key] = value
	return nil
}

// ClearColumn unmaps key.
func (c *ImportConfig) ClearColumn(key FieldKey) {
	delete(c.ColumnMapping, key)
}

// SetKeywords replaces the keyword group for key from comma-separated text.
// Text with no keywords restores the default group.
func (c *ImportConfig) SetKeywords(key FieldKey, text string) error {
	if _, err := ParseFieldKey(string(key)); err != nil {
		return err
	}
	if c.Keywords == nil {
		c.Keywords = Keywords{}
	}
	c.Keywords[key] = ParseKeywords(text)
	return nil
}

// Reset restores the first-run configuration.
func (c *ImportConfig) Reset() {
	*c = *DefaultImportConfig()
}
