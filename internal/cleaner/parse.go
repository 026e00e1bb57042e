package cleaner

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts covers the date spellings observed across store extracts:
// ISO, slashed, Japanese era-free, compact, and the short forms spreadsheet
// cells format themselves into.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006年1月2日",
	"20060102",
	"01-02-06",
	"1-2-06",
	"01/02/06",
	"1/2/06",
	time.RFC3339,
}

// excelEpoch is day zero of the 1900 date system (accounting for the
// historical leap-year bug, day 1 is 1899-12-31).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate coerces a raw cell into a calendar date. Serial numbers from
// spreadsheet cells that lost their date format are converted from the 1900
// epoch.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}

	return time.Time{}, false
}

// numberCleaner strips currency symbols and digit separators before numeric
// coercion.
var numberCleaner = strings.NewReplacer(
	"¥", "",
	"￥", "",
	"円", "",
	",", "",
	"，", "",
	" ", "",
	"　", "",
)

// parseNumber coerces a raw cell into a float, tolerating currency marks
// and thousands separators.
func parseNumber(s string) (float64, bool) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseQuantity coerces a raw cell into an integer quantity. Fractional
// values are rejected; quantities are unit counts.
func parseQuantity(s string) (int, bool) {
	v, ok := parseNumber(s)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}
