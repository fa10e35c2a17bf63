package extraction

import (
	"maps"
	"slices"

	"github.com/JaimeStill/lading/internal/dcsa"
)

const (
	// EarlyReturnConfidence ends ExtractWithRetry without further attempts.
	EarlyReturnConfidence = 0.85

	invalidConfidence = 0.5
	errorPenalty      = 0.2
	warningPenalty    = 0.05
	uncertainPenalty  = 0.03
)

// Score rates an extraction. An invalid result scores a flat 0.5;
// otherwise each error, warning, and uncertain field deducts from 1.0 and
// the result is clamped to [0, 1].
func Score(v dcsa.ValidationResult, uncertain int) float64 {
	if !v.Valid {
		return invalidConfidence
	}

	score := 1.0 -
		errorPenalty*float64(len(v.Errors)) -
		warningPenalty*float64(len(v.Warnings)) -
		uncertainPenalty*float64(uncertain)

	return min(max(score, 0), 1)
}

// UncertainFields lists the dotted paths of fields that are null, empty
// strings, or empty arrays. Nested objects are walked; array elements are
// not. Keys are visited in sorted order.
func UncertainFields(obj map[string]any) []string {
	fields := []string{}
	walk(obj, "", &fields)
	return fields
}

func walk(obj map[string]any, prefix string, out *[]string) {
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch v := obj[key].(type) {
		case nil:
			*out = append(*out, path)
		case string:
			if v == "" {
				*out = append(*out, path)
			}
		case []any:
			if len(v) == 0 {
				*out = append(*out, path)
			}
		case map[string]any:
			walk(v, path, out)
		}
	}
}
