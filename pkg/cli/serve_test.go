package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/xwz823/vue3-admin-better/pkg/config"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
)

func TestBuildMockHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mock"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mock", "ping.yaml"), []byte(`
- url: /vab-mock-server/ping
  response:
    code: 200
    msg: pong
`), 0o644))
	t.Chdir(dir)

	cfg := config.NewDefault()
	cfg.MockServer.MockPath = "mock/*.yaml"

	handler, count, err := buildMockHandler(cfg, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vab-mock-server/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", gjson.Get(rec.Body.String(), "msg").String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/__vab/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestBuildMockHandler_NoMatches(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.NewDefault()
	_, count, err := buildMockHandler(cfg, logging.Nop())
	require.NoError(t, err)
	assert.Zero(t, count)
}
