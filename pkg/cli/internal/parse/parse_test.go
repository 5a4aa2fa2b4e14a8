package parse

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	tests := []struct {
		in         string
		delims     []rune
		key, value string
		ok         bool
	}{
		{"a:b", nil, "a", "b", true},
		{"a:b:c", nil, "a", "b:c", true},
		{"a=b", []rune{'=', ':'}, "a", "b", true},
		{"a:b=c", []rune{'='}, "a:b", "c", true},
		{"plain", nil, "", "", false},
	}
	for _, tt := range tests {
		key, value, ok := KeyValue(tt.in, tt.delims...)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
		assert.Equal(t, tt.value, value, tt.in)
	}
}

func TestHeaders(t *testing.T) {
	h, err := Headers([]string{"X-Force-Mock: true", "accept:application/json"})
	require.NoError(t, err)
	assert.Equal(t, http.Header{"X-Force-Mock": {"true"}, "Accept": {"application/json"}}, h)

	_, err = Headers([]string{"broken"})
	assert.ErrorContains(t, err, "invalid header")
}

func TestParams(t *testing.T) {
	q, err := Params([]string{"page=1", "tag=a", "tag=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, url.Values{"page": {"1"}, "tag": {"a", "b"}, "empty": {""}}, q)

	q, err = Params(nil)
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = Params([]string{"=x"})
	assert.Error(t, err)
}
