package core

import (
	"strconv"
)

// Mapper resolves field keys to column indexes for one header row.
//
// A manual mapping always wins. Keyword heuristics apply only while no
// manual value has been saved for any key.
type Mapper struct {
	manual    ColumnMapping
	headers   []string
	keywords  Keywords
	heuristic bool
}

// NewMapper builds a mapper over the given header labels.
func NewMapper(manual ColumnMapping, headers []string, kw Keywords) *Mapper {
	return &Mapper{
		manual:    manual,
		headers:   headers,
		keywords:  kw,
		heuristic: !manual.IsManual(),
	}
}

// Heuristic reports whether keyword matching is active.
func (m *Mapper) Heuristic() bool { return m.heuristic }

// Resolve returns the column for key, or false when it is unmapped.
func (m *Mapper) Resolve(key FieldKey) (int, bool) {
	if idx, ok := m.manual.Index(key); ok {
		return idx, true
	}
	if !m.heuristic {
		return 0, false
	}
	return findColumn(m.headers, m.keywords[key])
}

// ResolveAll resolves every key of the given slot count.
func (m *Mapper) ResolveAll(slots int) Resolved {
	out := make(Resolved)
	for _, k := range AllFieldKeys(slots) {
		if idx, ok := m.Resolve(k); ok {
			out[k] = idx
		}
	}
	return out
}

// SuggestMapping runs the keyword heuristics alone and renders the result as
// an editable mapping.
func SuggestMapping(headers []string, kw Keywords, slots int) ColumnMapping {
	m := NewMapper(nil, headers, kw)
	out := make(ColumnMapping)
	for k, idx := range m.ResolveAll(slots) {
		out[k] = strconv.Itoa(idx)
	}
	return out
}

// findColumn returns the first header equal to any keyword, or failing that
// the first header containing one as a run of whole words. "PATENTE VEHICULO"
// contains "PATENTE"; "APELLIDO" does not contain "ID".
func findColumn(headers, keywords []string) (int, bool) {
	if len(keywords) == 0 {
		return 0, false
	}

	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeToken(h)
	}

	for i, h := range norm {
		for _, k := range keywords {
			if h != "" && h == k {
				return i, true
			}
		}
	}
	for i, h := range norm {
		if h == "" {
			continue
		}
		hw := words(h)
		for _, k := range keywords {
			if containsWords(hw, words(k)) {
				return i, true
			}
		}
	}
	return 0, false
}
