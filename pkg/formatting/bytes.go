// Package formatting provides parsing and formatting helpers for byte sizes
// and for JSON embedded in model responses.
package formatting

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const kibi = 1024

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with base-1024 units, e.g. FormatBytes(1536*1024, 1)
// is "1.5 MB". Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	unit := 0
	for (size >= kibi || size <= -kibi) && unit < len(units)-1 {
		size /= kibi
		unit++
	}

	if unit == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[unit]
}

// ParseBytes reads sizes such as "50MB", "10 mb" or "1024". Units are
// base-1024 and case-insensitive; a bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}

	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	exp := 0
	if unit != "" {
		exp = slices.Index(units, strings.ToUpper(unit))
		if exp < 0 {
			return 0, fmt.Errorf("unknown byte size unit: %q", unit)
		}
	}

	for range exp {
		value *= kibi
	}
	return int64(value), nil
}
