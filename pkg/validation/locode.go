package validation

import "regexp"

var locodePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}$`)

// UNLocode reports whether s is a five-character UN/LOCODE:
// a two-letter country code followed by three alphanumerics.
func UNLocode(s string) bool {
	return locodePattern.MatchString(s)
}
