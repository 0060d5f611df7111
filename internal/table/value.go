package table

// value.go handles the messy reality of workbook cell values: currency
// symbols and thousands separators in numbers, several date formats, and
// numbers that arrive as strings. All As* helpers report ok=false instead
// of returning an error so aggregation loops can skip bad cells cheaply.

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical render format for dates in results.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// AsFloat coerces a cell value to a float64. Strings are cleaned of
// currency symbols, thousands separators and accounting-style parentheses
// before parsing.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		negative := false
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			negative = true
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
		for _, sym := range []string{"$", "€", "£", ","} {
			s = strings.ReplaceAll(s, sym, "")
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		if negative {
			f = -f
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt coerces a cell value to an int, truncating fractional parts.
func AsInt(v any) (int, bool) {
	f, ok := AsFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// AsTime coerces a cell value to a time.Time, trying the supported
// workbook date layouts in order.
func AsTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// AsString renders a cell value for display, search and export. Dates use
// DateLayout, floats drop a trailing ".0", nil renders empty.
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(DateLayout)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return AsString(float64(x))
	default:
		return fmt.Sprintf("%v", x)
	}
}

// IsMissing reports whether a cell value counts as missing for distinct
// value collection and grouping: nil or blank string.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
