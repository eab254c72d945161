package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldKey names a semantic attribute that is resolved to a column before
// extraction. The set is closed: person keys plus plate/brand/color per
// vehicle slot.
type FieldKey string

const (
	FieldName       FieldKey = "name"
	FieldID         FieldKey = "id"
	FieldGroup      FieldKey = "group"
	FieldGender     FieldKey = "gender"
	FieldEmail      FieldKey = "email"
	FieldRUT        FieldKey = "rut"
	FieldDepartment FieldKey = "department"
	FieldRole       FieldKey = "role"
)

// MaxVehicleSlots is the number of plate/brand/color column groups the key
// set covers.
const MaxVehicleSlots = 3

// DefaultVehicleSlots is used when a caller passes no slot count.
const DefaultVehicleSlots = MaxVehicleSlots

// PersonKeys lists the non-vehicle keys in display order.
var PersonKeys = []FieldKey{
	FieldName, FieldID, FieldGroup, FieldGender,
	FieldEmail, FieldRUT, FieldDepartment, FieldRole,
}

// PlateKey returns the plate key for slot n (1-based).
func PlateKey(n int) FieldKey { return FieldKey(fmt.Sprintf("plate%d", n)) }

// BrandKey returns the brand key for slot n (1-based).
func BrandKey(n int) FieldKey { return FieldKey(fmt.Sprintf("brand%d", n)) }

// ColorKey returns the color key for slot n (1-based).
func ColorKey(n int) FieldKey { return FieldKey(fmt.Sprintf("color%d", n)) }

// AllFieldKeys returns the person keys followed by plate, brand and color
// for each of the first slots vehicle slots.
func AllFieldKeys(slots int) []FieldKey {
	slots = clampSlots(slots)
	keys := make([]FieldKey, 0, len(PersonKeys)+3*slots)
	keys = append(keys, PersonKeys...)
	for n := 1; n <= slots; n++ {
		keys = append(keys, PlateKey(n), BrandKey(n), ColorKey(n))
	}
	return keys
}

// ParseFieldKey validates s against the full key set.
func ParseFieldKey(s string) (FieldKey, error) {
	k := FieldKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllFieldKeys(MaxVehicleSlots) {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidMapping, s)
}

func clampSlots(slots int) int {
	if slots <= 0 {
		return DefaultVehicleSlots
	}
	if slots > MaxVehicleSlots {
		return MaxVehicleSlots
	}
	return slots
}

// ColumnMapping holds the user's manual column choices as entered: a
// non-negative integer string per key, or nothing for unmapped keys.
type ColumnMapping map[FieldKey]string

// IsManual reports whether any key carries a value. A manual mapping turns
// off keyword heuristics for every key.
func (m ColumnMapping) IsManual() bool {
	for _, v := range m {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Index parses the stored value for key.
func (m ColumnMapping) Index(key FieldKey) (int, bool) {
	v := strings.TrimSpace(m[key])
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Resolved is the outcome of column mapping: the column index for every key
// that could be resolved. Absent keys are unmapped.
type Resolved map[FieldKey]int

// Vehicle is one plate/brand/color group belonging to a person.
type Vehicle struct {
	Plate string `json:"plate"`
	Brand string `json:"brand"`
	Color string `json:"color"`
}

// PersonRecord is one extracted row.
type PersonRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RUT        string    `json:"rut"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Role       string    `json:"role"`
	Group      string    `json:"group"`
	Gender     string    `json:"gender"`
	Vehicles   []Vehicle `json:"vehicles"`
}

// Defaults substituted for blank cells.
const (
	UnknownBrand  = "Unknown"
	DefaultGroup  = "General"
	DefaultGender = "Unspecified"
	NoRUT         = "S/R"
)

// Snapshot is the record collection stored after a successful import.
type Snapshot struct {
	Records  []PersonRecord `json:"records"`
	LastSync string         `json:"lastSync"`
}

// LastSyncLayout formats Snapshot.LastSync.
const LastSyncLayout = "2006-01-02 15:04:05"

// Phase is a stage of an import run.
type Phase string

const (
	PhaseFetching        Phase = "fetching"
	PhaseHeaderResolving Phase = "header_resolving"
	PhaseMapping         Phase = "mapping"
	PhaseRowScanning     Phase = "row_scanning"
	PhaseDone            Phase = "done"
	PhaseFailed          Phase = "failed"
)

// Progress describes a run at a phase boundary.
type Progress struct {
	RunID     string
	Phase     Phase
	Source    string
	TotalRows int
	Records   int
	Skipped   int
	Error     string // Non-empty if Phase is PhaseFailed
}

// ProgressCallback receives progress updates. It is called synchronously
// from the run and must not block.
type ProgressCallback func(Progress)

// Result is the outcome of a successful run.
type Result struct {
	RunID          string
	Records        []PersonRecord
	Skipped        int // rows dropped for a blank name
	EmptyRows      int
	HeaderRowIndex int // 0-based
	Headers        []string
	Mapping        Resolved
	Duration       time.Duration
	LastSync       string
}

// Discovery is the outcome of a header scan.
type Discovery struct {
	HeaderRowIndex int
	Headers        []string
	Suggested      ColumnMapping
}
