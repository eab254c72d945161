package core

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/platesync/internal/sheet"
)

// DefaultHeaderScanRows bounds heuristic header discovery.
const DefaultHeaderScanRows = 15

// LocateHeader returns the labels of the configured 1-based header row.
func LocateHeader(grid sheet.Grid, rowNumber int) (int, []string, error) {
	idx := rowNumber - 1
	if idx < 0 || idx >= len(grid) {
		return 0, nil, fmt.Errorf("%w: row %d requested, sheet has %d rows",
			ErrHeaderRowOutOfRange, rowNumber, len(grid))
	}
	return idx, headerLabels(grid[idx]), nil
}

// DiscoverHeader scans the first scanRows rows for the first one that holds
// a name keyword together with an id, rut or plate keyword.
func DiscoverHeader(grid sheet.Grid, kw Keywords, scanRows int) (int, []string, error) {
	if scanRows <= 0 {
		scanRows = DefaultHeaderScanRows
	}

	identity := make([]string, 0, len(kw[FieldID])+len(kw[FieldRUT])+len(kw[PlateKey(1)]))
	identity = append(identity, kw[FieldID]...)
	identity = append(identity, kw[FieldRUT]...)
	identity = append(identity, kw[PlateKey(1)]...)
	groups := [][]string{kw[FieldName], identity}

	limit := min(scanRows, len(grid))
	for i := 0; i < limit; i++ {
		if keywordGroupsMatch(grid[i], groups) {
			return i, headerLabels(grid[i]), nil
		}
	}
	return 0, nil, fmt.Errorf("%w in the first %d rows", ErrHeaderNotFound, limit)
}

// keywordGroupsMatch reports whether every group has at least one keyword
// present in the row's token set. A token is a whole normalized cell; a
// keyword inside a longer cell does not count.
func keywordGroupsMatch(row []string, groups [][]string) bool {
	tokens := make(map[string]struct{}, len(row))
	for _, cell := range row {
		if t := normalizeToken(cell); t != "" {
			tokens[t] = struct{}{}
		}
	}
	if len(tokens) == 0 {
		return false
	}

	for _, group := range groups {
		if !anyKeywordIn(tokens, group) {
			return false
		}
	}
	return true
}

func anyKeywordIn(tokens map[string]struct{}, keywords []string) bool {
	for _, k := range keywords {
		if _, ok := tokens[k]; ok {
			return true
		}
	}
	return false
}

func headerLabels(row []string) []string {
	labels := make([]string, len(row))
	for i, v := range row {
		labels[i] = strings.TrimSpace(v)
	}
	return labels
}
