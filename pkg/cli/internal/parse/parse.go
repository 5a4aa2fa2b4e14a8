// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// KeyValue splits s at the first of the given delimiters. With no
// delimiters ':' is used.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}
	i := strings.IndexFunc(s, func(r rune) bool {
		for _, d := range delimiters {
			if r == d {
				return true
			}
		}
		return false
	})
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// Headers parses "Name: value" strings.
func Headers(values []string) (http.Header, error) {
	h := make(http.Header)
	for _, v := range values {
		key, value, ok := KeyValue(v, ':')
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q, want Name: value", v)
		}
		h.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return h, nil
}

// Params parses "key=value" strings into query parameters.
func Params(values []string) (url.Values, error) {
	if len(values) == 0 {
		return nil, nil
	}
	q := make(url.Values)
	for _, v := range values {
		key, value, ok := KeyValue(v, '=')
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", v)
		}
		q.Add(key, value)
	}
	return q, nil
}
