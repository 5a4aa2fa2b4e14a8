package mockserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xwz823/vue3-admin-better/pkg/request"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ShippedControllers(t *testing.T) {
	defs, err := Load("../../examples", "mock/controller/**/*.{yaml,yml,json}")
	require.NoError(t, err)
	require.Len(t, defs, 5)

	// Files are read in lexical order.
	assert.Equal(t, "/vab-mock-server/custom/demo2/locationList", defs[0].URL)
	assert.Equal(t, "GET", defs[0].HTTPMethod())
	assert.Equal(t, "/vab-mock-server/login", defs[1].URL)
	assert.Equal(t, "POST", defs[1].HTTPMethod())
	assert.Equal(t, request.Code("500"), defs[1].Response.Code)
	require.Len(t, defs[1].Cases, 1)
	for _, d := range defs {
		assert.NotEmpty(t, d.Source)
	}
}

func TestLoad_NestedDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mock/a.yaml", "- url: /a\n  response: {code: 200}\n")
	writeFile(t, dir, "mock/deep/er/b.yml", "- url: /b\n  response: {code: 200}\n")
	writeFile(t, dir, "mock/ignored.txt", "not a mock")

	defs, err := Load(dir, "mock/**/*.{yaml,yml}")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "/a", defs[0].URL)
	assert.Equal(t, "/b", defs[1].URL)
}

func TestLoad_NoMatches(t *testing.T) {
	defs, err := Load(t.TempDir(), "mock/**/*.yaml")
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		wantURL []string
		wantErr string
	}{
		{
			name:    "yaml list",
			path:    "a.yaml",
			content: "- url: /x\n  method: get\n  response: {code: 200, msg: ok}\n",
			wantURL: []string{"/x"},
		},
		{
			name:    "yaml mocks object",
			path:    "a.yaml",
			content: "mocks:\n  - url: /x\n  - url: /y\n",
			wantURL: []string{"/x", "/y"},
		},
		{
			name:    "json with comments",
			path:    "a.json",
			content: "// list\n[{\"url\": \"/x\", /* inline */ \"response\": {\"code\": \"ok\"}}]",
			wantURL: []string{"/x"},
		},
		{
			name:    "empty file",
			path:    "a.yaml",
			content: "",
		},
		{
			name:    "unknown field",
			path:    "a.yaml",
			content: "- url: /x\n  respnse: {code: 200}\n",
			wantErr: "a.yaml",
		},
		{
			name:    "missing url",
			path:    "a.yaml",
			content: "- method: get\n",
			wantErr: "a.yaml",
		},
		{
			name:    "relative url",
			path:    "a.yaml",
			content: "- url: x\n",
			wantErr: "must start with /",
		},
		{
			name:    "bad method",
			path:    "a.yaml",
			content: "- url: /x\n  method: fetch\n",
			wantErr: "unsupported method",
		},
		{
			name:    "case without condition",
			path:    "a.yaml",
			content: "- url: /x\n  cases:\n    - when: \" \"\n",
			wantErr: "no condition",
		},
		{
			name:    "malformed yaml",
			path:    "a.yaml",
			content: "- url: [\n",
			wantErr: "a.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs, err := Parse(tt.path, []byte(tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			var urls []string
			for _, d := range defs {
				urls = append(urls, d.URL)
				assert.Equal(t, tt.path, d.Source)
			}
			assert.Equal(t, tt.wantURL, urls)
		})
	}
}

func TestParse_SchemaErrorPointer(t *testing.T) {
	_, err := Parse("a.yaml", []byte("- url: /x\n  delay: -5\n"))
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "a.yaml", loadErr.Path)
}

func TestDefinition_Matches(t *testing.T) {
	wild := Definition{URL: "/x"}
	post := Definition{URL: "/x", Method: "post"}
	typed := Definition{URL: "/x", Type: "Get"}

	assert.True(t, wild.Matches("DELETE", "/x"))
	assert.True(t, post.Matches("POST", "/x"))
	assert.False(t, post.Matches("GET", "/x"))
	assert.False(t, post.Matches("POST", "/x/"))
	assert.True(t, typed.Matches("GET", "/x"))
	assert.Equal(t, "* /x", wild.Key())
	assert.Equal(t, "POST /x", post.Key())
}
