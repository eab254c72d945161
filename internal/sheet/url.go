package sheet

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	gidPattern           = regexp.MustCompile(`[#&?]gid=([0-9]+)`)
)

// SpreadsheetRef identifies a hosted workbook and, optionally, one sheet in it.
type SpreadsheetRef struct {
	ID  string
	GID string // empty when the URL selects no sub-sheet
}

// ParseSpreadsheetURL extracts the workbook id and the optional gid selector
// from a URL shaped like .../spreadsheets/d/<ID>/edit#gid=<N>.
func ParseSpreadsheetURL(raw string) (SpreadsheetRef, error) {
	raw = strings.TrimSpace(raw)
	m := spreadsheetIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return SpreadsheetRef{}, fmt.Errorf("%w: no spreadsheet id in %q", ErrInvalidSourceURL, raw)
	}

	ref := SpreadsheetRef{ID: m[1]}
	if g := gidPattern.FindStringSubmatch(raw); g != nil {
		ref.GID = g[1]
	}
	return ref, nil
}

// csvExportURL is the per-sheet CSV export. Requires a gid.
func (r SpreadsheetRef) csvExportURL(base string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s",
		strings.TrimRight(base, "/"), url.PathEscape(r.ID), url.QueryEscape(r.GID))
}

// xlsxExportURL is the full-workbook binary export.
func (r SpreadsheetRef) xlsxExportURL(base string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=xlsx",
		strings.TrimRight(base, "/"), url.PathEscape(r.ID))
}

// gvizCSVURL is the visualization query CSV endpoint, the last resort.
func (r SpreadsheetRef) gvizCSVURL(base string) string {
	u := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv",
		strings.TrimRight(base, "/"), url.PathEscape(r.ID))
	if r.GID != "" {
		u += "&gid=" + url.QueryEscape(r.GID)
	}
	return u
}
