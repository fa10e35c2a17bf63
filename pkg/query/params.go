package query

import (
	"net/url"
	"strconv"
)

// Param parses the named query value into a filter pointer. Missing or
// unparseable values yield nil so the matching condition is skipped.
func Param[T any](values url.Values, key string, parse func(string) (T, error)) *T {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil
	}
	return &v
}

// String returns the named query value, or nil when it is empty.
func String(values url.Values, key string) *string {
	return Param(values, key, func(s string) (string, error) { return s, nil })
}

func Bool(values url.Values, key string) *bool {
	return Param(values, key, strconv.ParseBool)
}

func Float(values url.Values, key string) *float64 {
	return Param(values, key, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}
