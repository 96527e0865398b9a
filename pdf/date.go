package pdf

import (
	"strconv"
	"strings"
	"time"
)

// dateLayout is the full form of a PDF date without its "D:" prefix and
// time zone. Shorter dates drop fields from the right.
const dateLayout = "20060102150405"

// NormalizeDate converts a PDF date such as D:20240131120000+01'00' to
// RFC 3339. Strings that are not PDF dates are returned trimmed but
// otherwise unchanged.
func NormalizeDate(s string) string {
	raw := strings.TrimSpace(s)
	v := strings.TrimPrefix(raw, "D:")

	n := 0
	for n < len(v) && n < len(dateLayout) && v[n] >= '0' && v[n] <= '9' {
		n++
	}
	if n < 4 || n%2 != 0 {
		return raw
	}

	loc, ok := zone(v[n:])
	if !ok {
		return raw
	}
	t, err := time.ParseInLocation(dateLayout[:n], v[:n], loc)
	if err != nil {
		return raw
	}
	return t.Format(time.RFC3339)
}

// zone parses the time zone suffix of a PDF date: Z, +HH'mm' or -HH'mm'.
// A missing zone is UTC.
func zone(s string) (*time.Location, bool) {
	if s == "" || s[0] == 'Z' {
		return time.UTC, true
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, false
	}

	digits := strings.NewReplacer("'", "", ":", "").Replace(s[1:])
	if len(digits) < 2 {
		return nil, false
	}
	hours, err := strconv.Atoi(digits[:2])
	if err != nil {
		return nil, false
	}
	minutes := 0
	if len(digits) >= 4 {
		if minutes, err = strconv.Atoi(digits[2:4]); err != nil {
			return nil, false
		}
	}
	offset := sign * (hours*3600 + minutes*60)
	if offset == 0 {
		return time.UTC, true
	}
	return time.FixedZone("", offset), true
}
