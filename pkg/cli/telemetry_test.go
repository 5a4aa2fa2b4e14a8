package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

func TestTelemetry_PipelineMetricsAndSpans(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, `{"code":200,"msg":"success","data":null}`)
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	tel, err := newTelemetry(&buf, true, true)
	require.NoError(t, err)

	settings := request.DefaultSettings()
	settings.BaseURL = srv.URL
	opts := append([]request.Option{
		request.WithHTTPClient(srv.Client()),
		request.WithPolicy(&policy.Policy{Enabled: true, Mode: policy.ModeAll}),
		request.WithTransforms(userAgent("vab/test")),
	}, tel.options()...)
	c := request.New(settings, opts...)

	_, err = c.Get(context.Background(), "/ping", nil)
	require.NoError(t, err)
	require.NoError(t, tel.Close())

	assert.Equal(t, "vab/test", gotUA)
	assert.Contains(t, buf.String(), `vab_requests_total{result="success",route="mock"} 1`)
	assert.Contains(t, buf.String(), `"Name": "vab.request"`)
}

func TestTelemetry_Disabled(t *testing.T) {
	var buf bytes.Buffer
	tel, err := newTelemetry(&buf, false, false)
	require.NoError(t, err)
	assert.Empty(t, tel.options())
	require.NoError(t, tel.Close())
	assert.Empty(t, buf.String())
}

func TestUserAgent_KeepsExplicitHeader(t *testing.T) {
	cfg := &request.Config{URL: "/x", Header: http.Header{"User-Agent": {"curl/8"}}}
	require.NoError(t, request.Prepare(context.Background(), cfg, userAgent("vab/test")))
	assert.Equal(t, "curl/8", cfg.Header.Get("User-Agent"))

	cfg = &request.Config{URL: "/x"}
	require.NoError(t, request.Prepare(context.Background(), cfg, userAgent("vab/test")))
	assert.Equal(t, "vab/test", cfg.Header.Get("User-Agent"))
}
