package request

import (
	"net/http"
	"strings"
)

// Force marker headers.
const (
	HeaderForceMock = "X-Force-Mock"
	HeaderForceReal = "X-Force-Real"
)

// MarkAsMock returns headers forcing a call to the mock layer.
func MarkAsMock() http.Header {
	h := make(http.Header)
	h.Set(HeaderForceMock, "true")
	return h
}

// MarkAsReal returns headers forcing a call to the real backend.
func MarkAsReal() http.Header {
	h := make(http.Header)
	h.Set(HeaderForceReal, "true")
	return h
}

// ForceFromHeader reads the force markers. A mock marker wins over a real
// one.
func ForceFromHeader(h http.Header) Force {
	if h == nil {
		return ForceNone
	}
	if strings.EqualFold(h.Get(HeaderForceMock), "true") {
		return ForceMock
	}
	if strings.EqualFold(h.Get(HeaderForceReal), "true") {
		return ForceReal
	}
	return ForceNone
}

// MergeHeader copies every value of src into dst, allocating dst if needed.
func MergeHeader(dst, src http.Header) http.Header {
	if dst == nil {
		dst = make(http.Header, len(src))
	}
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
	return dst
}

func clearMarkers(h http.Header) {
	if h == nil {
		return
	}
	h.Del(HeaderForceMock)
	h.Del(HeaderForceReal)
}
