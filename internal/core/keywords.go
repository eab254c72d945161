package core

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Keywords maps each field to the header labels that identify it. Keywords
// are stored upper-cased; matching is case-insensitive and accent-sensitive.
type Keywords map[FieldKey][]string

// DefaultKeywords returns a fresh copy of the built-in keyword groups,
// covering Spanish and English sheet layouts.
func DefaultKeywords() Keywords {
	return Keywords{
		FieldName:       {"NOMBRE", "NAME", "FULL NAME", "NOMBRE COMPLETO"},
		FieldID:         {"ID", "INTERNAL ID"},
		FieldGroup:      {"GRUPO", "GROUP"},
		FieldGender:     {"GENERO", "GÉNERO", "GENDER", "SEXO"},
		FieldEmail:      {"EMAIL", "CORREO", "MAIL", "E-MAIL"},
		FieldRUT:        {"RUT", "NATIONAL ID", "DNI"},
		FieldDepartment: {"DEPARTAMENTO", "DEPARTMENT", "AREA"},
		FieldRole:       {"CARGO", "ROLE", "JOB TITLE", "POSITION"},

		PlateKey(1): {"PATENTE 1", "PATENTE", "LICENSE PLATE 1", "PLATE 1", "PLATE"},
		BrandKey(1): {"MARCA 1", "MARCA", "BRAND 1", "MAKE 1", "BRAND"},
		ColorKey(1): {"COLOR 1", "COLOR VEHICULO", "COLOR"},

		PlateKey(2): {"PATENTE 2", "LICENSE PLATE 2", "PLATE 2"},
		BrandKey(2): {"MARCA 2", "BRAND 2", "MAKE 2"},
		ColorKey(2): {"COLOR 2", "COLOR VEHICULO 2", "SECOND COLOR"},

		PlateKey(3): {"PATENTE 3", "LICENSE PLATE 3", "PLATE 3"},
		BrandKey(3): {"MARCA 3", "BRAND 3", "MAKE 3"},
		ColorKey(3): {"COLOR 3", "COLOR VEHICULO 3", "THIRD COLOR"},
	}
}

// ParseKeywords splits comma-separated text into a normalized keyword list.
// Empty entries are dropped.
func ParseKeywords(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if k := normalizeToken(part); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// KeywordText joins a keyword list back into editable text.
func KeywordText(keywords []string) string {
	return strings.Join(keywords, ", ")
}

// Merge returns a copy of k with every group present in override replacing
// the corresponding group. Nil groups in override are ignored.
func (k Keywords) Merge(override Keywords) Keywords {
	out := make(Keywords, len(k))
	for key, v := range k {
		out[key] = append([]string(nil), v...)
	}
	for key, v := range override {
		if v != nil {
			out[key] = append([]string(nil), v...)
		}
	}
	return out
}

// LoadKeywords reads a YAML document mapping field keys to keyword lists:
//
//	name: [NOMBRE, APELLIDO Y NOMBRE]
//	plate1: [PPU, PATENTE]
func LoadKeywords(r io.Reader) (Keywords, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Keywords{}, nil
		}
		return nil, fmt.Errorf("decode keywords: %w", err)
	}

	out := make(Keywords, len(raw))
	for name, list := range raw {
		key, err := ParseFieldKey(name)
		if err != nil {
			return nil, err
		}
		group := make([]string, 0, len(list))
		for _, k := range list {
			if k = normalizeToken(k); k != "" {
				group = append(group, k)
			}
		}
		out[key] = group
	}
	return out, nil
}

// LoadKeywordsFile is LoadKeywords on a file path.
func LoadKeywordsFile(path string) (Keywords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()
	return LoadKeywords(f)
}

func normalizeToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// words splits a normalized label on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsWords reports whether needle occurs in hay as a contiguous run.
func containsWords(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}
