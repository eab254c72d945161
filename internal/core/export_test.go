package core

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/platesync/internal/sheet"
)

func TestExportGrid_RoundTrip(t *testing.T) {
	records := []PersonRecord{
		{
			ID: "a1", Name: "Ana Ruiz", RUT: "1-9", Email: "ana@x.cl", Department: "Ops",
			Role: "Driver", Group: "Staff", Gender: "F",
			Vehicles: []Vehicle{{"AB1234", "Kia", "Red"}, {"CD5678", UnknownBrand, ""}},
		},
		{
			ID: "b2", Name: "Luis, Jr.", RUT: NoRUT, Group: DefaultGroup, Gender: DefaultGender,
			Vehicles: []Vehicle{},
		},
	}

	data, err := sheet.EncodeCSV(ExportGrid(records, 3))
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	grid, err := sheet.DecodeCSV(data)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}

	cols := NewMapper(ExportMapping(3), grid[0], DefaultKeywords()).ResolveAll(3)
	got, err := Extract(grid, 0, cols, 3, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !reflect.DeepEqual(got.Records, records) {
		t.Errorf("round trip mismatch\n got %+v\nwant %+v", got.Records, records)
	}
}

func TestExportGrid_Header(t *testing.T) {
	rows := ExportGrid(nil, 1)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
	want := []string{"NOMBRE", "ID", "GRUPO", "GENERO", "EMAIL", "RUT", "DEPARTAMENTO", "CARGO", "PATENTE 1", "MARCA 1", "COLOR 1"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("header = %q, want %q", rows[0], want)
	}

	// Exported headers are discoverable without a mapping.
	if _, _, err := DiscoverHeader(sheet.Normalize(rows), DefaultKeywords(), 15); err != nil {
		t.Errorf("DiscoverHeader on exported header: %v", err)
	}
}
