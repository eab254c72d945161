package sheet

import (
	"bytes"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cleanText prepares raw bytes for delimited parsing: the UTF-8 BOM that
// spreadsheet programs on Windows prepend is dropped and invalid sequences
// become U+FFFD so that a stray Latin-1 byte cannot abort the import.
func cleanText(data []byte) []byte {
	return sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}

	return buf.Bytes()
}

// looksLikeHTML catches sign-in and error pages served with a 200 status in
// place of an export.
func looksLikeHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 256 {
		head = head[:256]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// isZip reports the local-file-header magic every OOXML workbook starts with.
func isZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 0x03 && data[3] == 0x04
}
