// Package normalize turns loosely-typed analytics rows into typed records.
//
// Column names and value types depend on upstream SQL the dashboard does not
// own, so every field is resolved through an ordered list of candidate names,
// each tried verbatim, upper-cased, lower-cased and finally case-folded.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
)

// caseVariants returns the exact, upper and lower spellings of key, deduplicated.
func caseVariants(key string) []string {
	out := []string{key}
	for _, v := range []string{strings.ToUpper(key), strings.ToLower(key)} {
		dup := false
		for _, seen := range out {
			if seen == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// present reports whether v counts as a usable value: non-nil and, for
// strings, not blank.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case json.Number:
		return t != ""
	}
	return true
}

// sortedKeys returns the row keys in lexical order so that scans are deterministic.
func sortedKeys(row models.RawRow) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lookupOne resolves a single candidate: exact/upper/lower first, then any
// key that matches case-insensitively.
func lookupOne(row models.RawRow, candidate string, keys []string) (any, string, bool) {
	for _, k := range caseVariants(candidate) {
		if v, ok := row[k]; ok && present(v) {
			return v, k, true
		}
	}
	for _, k := range keys {
		if strings.EqualFold(k, candidate) && present(row[k]) {
			return row[k], k, true
		}
	}
	return nil, "", false
}

// Lookup returns the first usable value among candidates, in candidate order,
// along with the key it was found under.
func Lookup(row models.RawRow, candidates []string) (any, string, bool) {
	if len(row) == 0 {
		return nil, "", false
	}
	keys := sortedKeys(row)
	for _, c := range candidates {
		if v, k, ok := lookupOne(row, c, keys); ok {
			return v, k, true
		}
	}
	return nil, "", false
}

// Has reports whether any candidate key exists in the row, regardless of its
// value, and returns the value of the first one that does.
func Has(row models.RawRow, candidates []string) (any, bool) {
	keys := sortedKeys(row)
	for _, c := range candidates {
		for _, k := range caseVariants(c) {
			if v, ok := row[k]; ok {
				return v, true
			}
		}
		for _, k := range keys {
			if strings.EqualFold(k, c) {
				return row[k], true
			}
		}
	}
	return nil, false
}

// LookupNumber returns the first candidate whose value coerces to a finite
// number. Absent or non-numeric values yield (0, false).
func LookupNumber(row models.RawRow, candidates []string) (float64, bool) {
	keys := sortedKeys(row)
	for _, c := range candidates {
		v, _, ok := lookupOne(row, c, keys)
		if !ok {
			continue
		}
		if n, ok := ToNumber(v); ok {
			return n, true
		}
	}
	return 0, false
}

// ToNumber coerces provider values to float64. NaN and infinities are rejected.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToString renders a provider value as text. nil becomes "".
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Truthy follows loose truthiness: zero, empty and nil values are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := ToNumber(v); ok {
			return n != 0
		}
		return true
	}
}

// ExtractNumber is LookupNumber with a default of 0.
func ExtractNumber(row models.RawRow, candidates []string) float64 {
	n, _ := LookupNumber(row, candidates)
	return n
}
