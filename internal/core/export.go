package core

import "strconv"

// exportLabel returns the header written for key: the first default keyword.
func exportLabel(defaults Keywords, key FieldKey) string {
	if kw := defaults[key]; len(kw) > 0 {
		return kw[0]
	}
	return string(key)
}

// ExportGrid renders records as a header row followed by one row per record,
// in AllFieldKeys order. Re-importing it with ExportMapping yields the same
// records.
func ExportGrid(records []PersonRecord, slots int) [][]string {
	keys := AllFieldKeys(slots)
	defaults := DefaultKeywords()

	header := make([]string, len(keys))
	for i, k := range keys {
		header[i] = exportLabel(defaults, k)
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, rec := range records {
		rows = append(rows, exportRow(rec, keys))
	}
	return rows
}

// ExportMapping is the manual mapping matching ExportGrid's column order.
func ExportMapping(slots int) ColumnMapping {
	m := make(ColumnMapping)
	for i, k := range AllFieldKeys(slots) {
		m[k] = strconv.Itoa(i)
	}
	return m
}

func exportRow(rec PersonRecord, keys []FieldKey) []string {
	person := map[FieldKey]string{
		FieldName:       rec.Name,
		FieldID:         rec.ID,
		FieldGroup:      rec.Group,
		FieldGender:     rec.Gender,
		FieldEmail:      rec.Email,
		FieldRUT:        rec.RUT,
		FieldDepartment: rec.Department,
		FieldRole:       rec.Role,
	}
	for n, v := range rec.Vehicles {
		person[PlateKey(n+1)] = v.Plate
		person[BrandKey(n+1)] = v.Brand
		person[ColorKey(n+1)] = v.Color
	}

	row := make([]string, len(keys))
	for i, k := range keys {
		row[i] = person[k]
	}
	return row
}
