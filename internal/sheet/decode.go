package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// DecodeFile dispatches on the file extension: workbook formats are parsed
// as spreadsheets, text formats as delimited rows.
func DecodeFile(name string, data []byte) (Grid, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "xlsx", "xlsm":
		return DecodeXLSX(data)
	case "xls":
		// Plenty of ".xls" downloads are OOXML underneath.
		if isZip(data) {
			return DecodeXLSX(data)
		}
		return DecodeXLS(data)
	case "csv", "txt":
		return DecodeText(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeXLSX reads the first worksheet of an OOXML workbook.
func DecodeXLSX(data []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return Normalize(rows), nil
}

// DecodeXLS reads the first worksheet of a legacy BIFF workbook. Cells are
// placed by absolute coordinates so rows that start past column A keep their
// positions.
func DecodeXLS(data []byte) (grid Grid, err error) {
	// The BIFF reader panics on truncated streams.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("open legacy workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open legacy workbook: %w", err)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, errors.New("workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			if v := row.Col(c); v != "" {
				rows = place(rows, i, c, v)
			}
		}
	}
	return Normalize(rows), nil
}

// DecodeCSV parses a standard comma-separated export. Quoted cells may span
// lines.
func DecodeCSV(data []byte) (Grid, error) {
	if looksLikeHTML(data) {
		return nil, errors.New("export returned an html page")
	}

	r := csv.NewReader(bytes.NewReader(cleanText(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return Normalize(rows), nil
}

// DecodeText parses a user-supplied delimited text file. The delimiter is a
// semicolon when the text contains one, otherwise a comma. Each line is one
// row, blank lines included, so row numbers match what an editor shows.
func DecodeText(data []byte) (Grid, error) {
	text := string(cleanText(data))
	delim := DetectDelimiter(text)

	lines := strings.Split(text, "\n")
	// A final newline does not open another row.
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}

	rows := make([][]string, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows[i] = splitLine(line, delim)
	}
	return Normalize(rows), nil
}

// DetectDelimiter returns ';' when text contains a semicolon, ',' otherwise.
func DetectDelimiter(text string) rune {
	if strings.ContainsRune(text, ';') {
		return ';'
	}
	return ','
}

// splitLine splits one line honouring quotes where possible, then trims every
// field and strips one pair of surrounding quotes.
func splitLine(line string, delim rune) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err != nil {
		fields = strings.Split(line, string(delim))
	}

	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = stripQuotes(strings.TrimSpace(f))
	}
	return out
}

func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
