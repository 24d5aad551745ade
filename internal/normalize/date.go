package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
)

// ShortDayLayout is the label shown on chart axes, e.g. "Mar 15".
const ShortDayLayout = "Jan 2"

// dateLayouts are tried in order. Values without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses the date formats the providers are known to emit.
// Integer strings longer than four digits are Unix milliseconds; a bare
// four digit value is a year.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if isInteger(s) {
		if len(strings.TrimPrefix(s, "-")) == 4 {
			t, err := time.ParseInLocation("2006", s, time.UTC)
			return t, err == nil
		}
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ShortDay renders t as a short day label in UTC.
func ShortDay(t time.Time) string {
	return t.UTC().Format(ShortDayLayout)
}

// looksLikeDate is the loose check used when no named date column exists.
func looksLikeDate(s string) bool {
	return strings.ContainsAny(s, "-/:")
}

// ExtractDate returns the raw date string of a row. Named date columns are
// tried first; failing that, the first string value that looks like a date,
// scanning provider column order and then the remaining keys sorted.
func ExtractDate(row models.RawRow, columns []string) (string, bool) {
	if v, _, ok := Lookup(row, constants.DateFields); ok {
		return ToString(v), true
	}

	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		seen[col] = struct{}{}
		if s, ok := row[col].(string); ok && looksLikeDate(s) {
			return s, true
		}
	}
	for _, k := range sortedKeys(row) {
		if _, done := seen[k]; done {
			continue
		}
		if s, ok := row[k].(string); ok && looksLikeDate(s) {
			return s, true
		}
	}
	return "", false
}
