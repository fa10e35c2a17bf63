// Package validation provides format and checksum validators for shipping
// identifiers: ISO 6346 container numbers, UN/LOCODE location codes,
// and ISO 8601 calendar dates.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrContainerFormat indicates a value is not 4 uppercase letters followed by 7 digits.
var ErrContainerFormat = errors.New("container number must be 4 letters followed by 7 digits")

var (
	containerPattern = regexp.MustCompile(`^[A-Z]{4}\d{7}$`)
	containerScan    = regexp.MustCompile(`[A-Z]{4}\d{7}`)
)

// letterValues is the ISO 6346 equivalent-value table.
// Multiples of 11 are skipped.
var letterValues = map[byte]int{
	'A': 10, 'B': 12, 'C': 13, 'D': 14, 'E': 15, 'F': 16, 'G': 17,
	'H': 18, 'I': 19, 'J': 20, 'K': 21, 'L': 23, 'M': 24, 'N': 25,
	'O': 26, 'P': 27, 'Q': 28, 'R': 29, 'S': 30, 'T': 31, 'U': 32,
	'V': 34, 'W': 35, 'X': 36, 'Y': 37, 'Z': 38,
}

// ContainerFormat reports whether s has the container number shape.
// It does not verify the check digit.
func ContainerFormat(s string) bool {
	return containerPattern.MatchString(s)
}

// ContainerCheckDigit computes the ISO 6346 check digit over the owner code,
// category identifier, and six-digit serial of s.
func ContainerCheckDigit(s string) (int, error) {
	if !ContainerFormat(s) {
		return 0, fmt.Errorf("%w: %q", ErrContainerFormat, s)
	}

	sum := 0
	for i := range 10 {
		var v int
		if i < 4 {
			v = letterValues[s[i]]
		} else {
			v = int(s[i] - '0')
		}
		sum += v << i
	}

	digit := sum % 11
	if digit == 10 {
		digit = 0
	}
	return digit, nil
}

// ContainerChecksum reports whether s is format-valid and its final digit
// matches the computed ISO 6346 check digit.
func ContainerChecksum(s string) bool {
	digit, err := ContainerCheckDigit(s)
	if err != nil {
		return false
	}
	return int(s[10]-'0') == digit
}

// ExtractContainerNumbers finds every container-shaped token in text and
// returns the checksum-valid ones, de-duplicated in first-seen order.
func ExtractContainerNumbers(text string) []string {
	matches := containerScan.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	valid := make([]string, 0, len(matches))

	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}

		if ContainerChecksum(m) {
			valid = append(valid, m)
		}
	}

	return valid
}
