package util

import (
	"net/url"
	"strings"
)

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}

// IsAbsoluteURL reports whether u carries a scheme (http://, https://, ...).
func IsAbsoluteURL(u string) bool {
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// JoinURL combines a base address and a request path the way browser HTTP
// clients do: absolute paths are returned unchanged, otherwise exactly one
// slash separates base and path.
func JoinURL(base, path string) string {
	if base == "" || IsAbsoluteURL(path) {
		return path
	}
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// StripOrigin removes scheme and host from an absolute URL, returning the
// path (and query). Relative inputs are returned unchanged.
func StripOrigin(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return u
	}
	out := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		out += "?" + parsed.RawQuery
	}
	return out
}
