package extract

import "strings"

// LocateModel finds the configured assignment marker in the page and returns
// the offset of the opening delimiter of the embedded JSON value. The first
// occurrence of the marker wins. The page model can be 500KB+ with nested
// braces inside string values, so no regex is involved anywhere on this path.
func LocateModel(page, marker string) (int, error) {
	idx := strings.Index(page, marker)
	if idx == -1 {
		return 0, ErrMarkerNotFound
	}

	start := idx + len(marker)
	for start < len(page) {
		switch page[start] {
		case ' ', '\t', '\r', '\n':
			start++
			continue
		}
		break
	}

	if start >= len(page) || (page[start] != '{' && page[start] != '[') {
		return 0, ErrMarkerNotFound
	}
	return start, nil
}
