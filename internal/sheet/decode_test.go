package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Delimited text
// =============================================================================

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter("a;b\nc,d"))
	assert.Equal(t, ',', DetectDelimiter("a,b\nc,d"))
	assert.Equal(t, ',', DetectDelimiter("single"))
}

func TestDecodeText_Semicolon(t *testing.T) {
	grid, err := DecodeText([]byte("NOMBRE;RUT;PATENTE\n Ana Ruiz ; \"1-9\" ;AB1234\n"))
	require.NoError(t, err)

	assert.Equal(t, Grid{
		{"NOMBRE", "RUT", "PATENTE"},
		{"Ana Ruiz", "1-9", "AB1234"},
	}, grid)
}

func TestDecodeText_KeepsBlankLinesAsRows(t *testing.T) {
	grid, err := DecodeText([]byte("a,b\r\n\r\nc,d\r\n"))
	require.NoError(t, err)

	require.Len(t, grid, 3)
	assert.True(t, grid.IsBlankRow(1))
	assert.Equal(t, []string{"c", "d"}, grid[2])
}

func TestDecodeText_StripsBOM(t *testing.T) {
	grid, err := DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("NAME,ID\nx,1")...))
	require.NoError(t, err)
	assert.Equal(t, "NAME", grid.Cell(0, 0))
}

func TestDecodeText_InvalidUTF8(t *testing.T) {
	grid, err := DecodeText([]byte("NAME\nJos\xe9"))
	require.NoError(t, err)
	assert.Equal(t, "Jos�", grid.Cell(1, 0))
}

func TestDecodeText_RaggedRowsPadded(t *testing.T) {
	grid, err := DecodeText([]byte("a,b,c\nd"))
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "", ""}, grid[1])
}

func TestDecodeCSV_QuotedNewline(t *testing.T) {
	grid, err := DecodeCSV([]byte("NAME,NOTE\n\"Ana\",\"two\nlines\"\n"))
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "two\nlines", grid.Cell(1, 1))
}

func TestDecodeCSV_RejectsHTML(t *testing.T) {
	_, err := DecodeCSV([]byte("<!DOCTYPE html><html><body>Sign in</body></html>"))
	assert.Error(t, err)
}

// =============================================================================
// Workbooks
// =============================================================================

func TestXLSXRoundTrip(t *testing.T) {
	rows := [][]string{
		{"NOMBRE", "RUT", "PATENTE 1"},
		{"Ana Ruiz", "1-9", "AB1234"},
		{"Luis", "", "ZZ11"},
	}

	data, err := EncodeXLSX("People", rows)
	require.NoError(t, err)

	grid, err := DecodeXLSX(data)
	require.NoError(t, err)
	assert.Equal(t, Grid{
		{"NOMBRE", "RUT", "PATENTE 1"},
		{"Ana Ruiz", "1-9", "AB1234"},
		{"Luis", "", "ZZ11"},
	}, grid)
}

func TestDecodeXLSX_Garbage(t *testing.T) {
	_, err := DecodeXLSX([]byte("not a workbook"))
	assert.Error(t, err)
}

func TestDecodeXLS_GarbageDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := DecodeXLS([]byte("definitely not BIFF"))
		assert.Error(t, err)
	})
}

func TestDecodeFile_Dispatch(t *testing.T) {
	xlsx, err := EncodeXLSX("", [][]string{{"NAME"}, {"Ana"}})
	require.NoError(t, err)

	tests := []struct {
		name     string
		file     string
		data     []byte
		wantCell string
		wantErr  error
	}{
		{"csv", "people.CSV", []byte("NAME\nAna"), "Ana", nil},
		{"txt", "people.txt", []byte("NAME;ID\nAna;1"), "Ana", nil},
		{"xlsx", "people.xlsx", xlsx, "Ana", nil},
		{"xls holding ooxml", "people.xls", xlsx, "Ana", nil},
		{"unsupported", "people.pdf", []byte("%PDF"), "", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := DecodeFile(tt.file, tt.data)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCell, grid.Cell(1, 0))
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	data, err := EncodeCSV([][]string{{"a", "b,c"}, {"d", ""}})
	require.NoError(t, err)
	assert.Equal(t, "a,\"b,c\"\nd,\n", string(data))

	grid, err := DecodeCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "b,c", grid.Cell(0, 1))
}

// =============================================================================
// Grid
// =============================================================================

func TestGrid_CellOutOfRange(t *testing.T) {
	g := Normalize([][]string{{"a"}, {"b", "c"}})

	assert.Equal(t, 2, g.Width())
	assert.Equal(t, "", g.Cell(0, 1))
	assert.Equal(t, "", g.Cell(5, 0))
	assert.Equal(t, "", g.Cell(0, -1))
	assert.True(t, g.IsBlankRow(9))
}

func TestPlace_SparseOrigin(t *testing.T) {
	var rows [][]string
	rows = place(rows, 2, 3, "x")
	g := Normalize(rows)

	require.Len(t, g, 3)
	assert.Equal(t, "x", g.Cell(2, 3))
	assert.True(t, g.IsBlankRow(0))
}
