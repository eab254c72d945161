package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JonMunkholm/platesync/internal/sheet"
)

// Extraction is the output of Extract.
type Extraction struct {
	Records   []PersonRecord
	Skipped   int // rows with a blank name
	EmptyRows int
}

// IDFunc generates ids for records whose id column is unmapped or blank.
type IDFunc func() string

// RandomID returns a 12 character hex token.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Extract reads every row below headerIdx into person records. Blank rows and
// rows without a name are skipped and counted; there is no other row-level
// failure.
func Extract(grid sheet.Grid, headerIdx int, cols Resolved, slots int, newID IDFunc) (*Extraction, error) {
	if _, ok := cols[FieldName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredColumn, FieldName)
	}
	if newID == nil {
		newID = RandomID
	}
	slots = clampSlots(slots)

	out := &Extraction{}
	for r := headerIdx + 1; r < len(grid); r++ {
		if grid.IsBlankRow(r) {
			out.EmptyRows++
			continue
		}

		rec, ok := extractRow(rowReader{grid: grid, row: r, cols: cols}, slots, newID)
		if !ok {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, rec)
	}

	if len(out.Records) == 0 {
		return out, fmt.Errorf("%w: %d rows skipped, %d empty", ErrEmptyResultSet, out.Skipped, out.EmptyRows)
	}
	return out, nil
}

// rowReader reads mapped, cleaned cell values from one row.
type rowReader struct {
	grid sheet.Grid
	row  int
	cols Resolved
}

func (rr rowReader) get(key FieldKey) string {
	col, ok := rr.cols[key]
	if !ok {
		return ""
	}
	return CleanCell(rr.grid.Cell(rr.row, col))
}

func extractRow(rr rowReader, slots int, newID IDFunc) (PersonRecord, bool) {
	name := rr.get(FieldName)
	if name == "" {
		return PersonRecord{}, false
	}

	id := rr.get(FieldID)
	rut := firstNonEmpty(rr.get(FieldRUT), id, NoRUT)
	if id == "" {
		id = newID()
	}

	rec := PersonRecord{
		ID:         id,
		Name:       name,
		RUT:        rut,
		Email:      rr.get(FieldEmail),
		Department: rr.get(FieldDepartment),
		Role:       rr.get(FieldRole),
		Group:      firstNonEmpty(rr.get(FieldGroup), DefaultGroup),
		Gender:     firstNonEmpty(rr.get(FieldGender), DefaultGender),
		Vehicles:   []Vehicle{},
	}

	for n := 1; n <= slots; n++ {
		plate := CleanPlate(rr.get(PlateKey(n)))
		if utf8.RuneCountInString(plate) < 2 {
			continue
		}
		rec.Vehicles = append(rec.Vehicles, Vehicle{
			Plate: plate,
			Brand: firstNonEmpty(rr.get(BrandKey(n)), UnknownBrand),
			Color: rr.get(ColorKey(n)),
		})
	}
	return rec, true
}

var plateSeparators = strings.NewReplacer(" ", "", ".", "", "-", "", "·", "", "\t", "")

// CleanPlate upper-cases a plate and drops the separators people type
// between its letter and digit groups.
func CleanPlate(s string) string {
	return plateSeparators.Replace(strings.ToUpper(strings.TrimSpace(s)))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
