package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", TruncateBody("short", 10))
	assert.Equal(t, "abc...(truncated)", TruncateBody("abcdef", 3))

	long := strings.Repeat("x", MaxLogBodySize+5)
	assert.Len(t, TruncateBody(long, 0), MaxLogBodySize+len("...(truncated)"))
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"empty base", "", "/login", "/login"},
		{"relative base", "/vab-mock-server", "/login", "/vab-mock-server/login"},
		{"trailing and leading slashes", "http://localhost:3000/api/", "/userInfo", "http://localhost:3000/api/userInfo"},
		{"no slashes", "http://localhost:3000/api", "userInfo", "http://localhost:3000/api/userInfo"},
		{"absolute path wins", "http://localhost:3000/api", "https://api.github.com/repos", "https://api.github.com/repos"},
		{"empty path", "http://localhost:3000/api", "", "http://localhost:3000/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.path))
		})
	}
}

func TestStripOrigin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/vab-mock-server/login", StripOrigin("http://localhost:8091/vab-mock-server/login"))
	assert.Equal(t, "/a?b=1", StripOrigin("https://example.com/a?b=1"))
	assert.Equal(t, "/relative/path", StripOrigin("/relative/path"))
	assert.True(t, IsAbsoluteURL("https://example.com"))
	assert.False(t, IsAbsoluteURL("/login"))
}
