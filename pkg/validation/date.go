package validation

import (
	"regexp"
	"slices"
	"time"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// timestampLayouts are the accepted forms beyond a bare date. Seconds and
// zone are optional; the date and time may be split by T or a space.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	"2006-01-02 15:04",
}

// ISODate reports whether s begins with a parseable YYYY-MM-DD date.
// Timestamps with minute or second precision are also accepted.
func ISODate(s string) bool {
	if !datePrefix.MatchString(s) {
		return false
	}

	if len(s) == len(time.DateOnly) {
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	}

	return slices.ContainsFunc(timestampLayouts, func(layout string) bool {
		_, err := time.Parse(layout, s)
		return err == nil
	})
}
