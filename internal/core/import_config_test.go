package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/JonMunkholm/platesync/internal/sheet"
)

func TestImportConfig_SetSourceURL(t *testing.T) {
	cfg := DefaultImportConfig()

	if err := cfg.SetSourceURL("https://docs.google.com/spreadsheets/d/abc/edit#gid=0"); err != nil {
		t.Fatalf("SetSourceURL: %v", err)
	}
	if err := cfg.SetSourceURL("https://example.com"); !errors.Is(err, sheet.ErrInvalidSourceURL) {
		t.Errorf("error = %v, want ErrInvalidSourceURL", err)
	}
	if cfg.SourceURL == "" {
		t.Error("rejected URL cleared the stored one")
	}
	if err := cfg.SetSourceURL(""); err != nil || cfg.SourceURL != "" {
		t.Errorf("clearing: url = %q, err = %v", cfg.SourceURL, err)
	}
}

func TestImportConfig_SetHeaderRowClearsLabels(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.CachedHeaderLabels = []string{"NOMBRE"}

	if err := cfg.SetHeaderRow(3); err != nil {
		t.Fatalf("SetHeaderRow: %v", err)
	}
	if cfg.HeaderRowNumber != 3 || cfg.CachedHeaderLabels != nil {
		t.Errorf("row = %d, labels = %q", cfg.HeaderRowNumber, cfg.CachedHeaderLabels)
	}
	if err := cfg.SetHeaderRow(0); !errors.Is(err, ErrHeaderRowOutOfRange) {
		t.Errorf("SetHeaderRow(0) error = %v", err)
	}
}

func TestImportConfig_SetColumn(t *testing.T) {
	tests := []struct {
		name    string
		key     FieldKey
		value   string
		wantErr bool
	}{
		{"index", FieldName, "2", false},
		{"padded", FieldRUT, " 0 ", false},
		{"negative", FieldName, "-1", true},
		{"text", FieldName, "B", true},
		{"unknown key", FieldKey("plate7"), "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultImportConfig()
			err := cfg.SetColumn(tt.key, tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMapping) {
					t.Errorf("error = %v, want ErrInvalidMapping", err)
				}
				if cfg.ColumnMapping.IsManual() {
					t.Error("rejected value was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetColumn: %v", err)
			}
			if _, ok := cfg.ColumnMapping.Index(tt.key); !ok {
				t.Error("value not stored")
			}
		})
	}
}

func TestImportConfig_ClearColumn(t *testing.T) {
	cfg := DefaultImportConfig()
	_ = cfg.SetColumn(FieldName, "1")

	if err := cfg.SetColumn(FieldName, ""); err != nil {
		t.Fatalf("SetColumn empty: %v", err)
	}
	if cfg.ColumnMapping.IsManual() {
		t.Error("empty value left the mapping manual")
	}

	_ = cfg.SetColumn(FieldEmail, "4")
	cfg.ClearColumn(FieldEmail)
	if _, ok := cfg.ColumnMapping[FieldEmail]; ok {
		t.Error("ClearColumn left the key")
	}
}

func TestImportConfig_SetKeywords(t *testing.T) {
	cfg := DefaultImportConfig()
	if err := cfg.SetKeywords(FieldName, "apellido, nombre"); err != nil {
		t.Fatalf("SetKeywords: %v", err)
	}
	if !reflect.DeepEqual(cfg.Keywords[FieldName], []string{"APELLIDO", "NOMBRE"}) {
		t.Errorf("keywords = %q", cfg.Keywords[FieldName])
	}
	if err := cfg.SetKeywords("nope", "x"); !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("unknown key error = %v", err)
	}
}

func TestImportConfig_ResetAndClone(t *testing.T) {
	cfg := DefaultImportConfig()
	_ = cfg.SetColumn(FieldName, "1")
	_ = cfg.SetKeywords(FieldRUT, "dni")
	cfg.CachedHeaderLabels = []string{"A"}

	clone := cfg.Clone()
	clone.ColumnMapping[FieldName] = "5"
	clone.Keywords[FieldRUT][0] = "X"
	clone.CachedHeaderLabels[0] = "B"
	if cfg.ColumnMapping[FieldName] != "1" || cfg.Keywords[FieldRUT][0] != "DNI" || cfg.CachedHeaderLabels[0] != "A" {
		t.Error("Clone shares state with the original")
	}

	cfg.Reset()
	if !reflect.DeepEqual(cfg, DefaultImportConfig()) {
		t.Errorf("Reset = %+v", cfg)
	}
}

func TestImportConfig_Normalize(t *testing.T) {
	cfg := &ImportConfig{HeaderRowNumber: 0}
	cfg.Normalize()
	if cfg.HeaderRowNumber != 1 || cfg.ColumnMapping == nil {
		t.Errorf("Normalize = %+v", cfg)
	}
}
