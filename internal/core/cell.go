package core

import "strings"

var invisibleChars = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")

// CleanCell normalizes a raw cell for reading: surrounding whitespace
// (including non-breaking spaces) and zero-width characters are dropped, and
// the ="..." wrapper spreadsheet exports use to keep leading zeros is
// removed.
func CleanCell(s string) string {
	s = strings.TrimSpace(invisibleChars.Replace(s))

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}
