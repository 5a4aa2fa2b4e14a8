package request

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/internal/rules"
)

func whitelistPolicy(t *testing.T, raw ...string) *policy.Policy {
	t.Helper()
	set, err := rules.ParseAll(raw...)
	require.NoError(t, err)
	return &policy.Policy{
		Enabled:   true,
		Mode:      policy.ModeWhitelist,
		Whitelist: set,
		RealAPI:   map[string]string{"dev": "http://real.example/api"},
	}
}

func run(t *testing.T, cfg *Config, transforms ...Transform) *Config {
	t.Helper()
	require.NoError(t, Prepare(context.Background(), cfg, transforms...))
	return cfg
}

func TestResolveRoute_WhitelistScenario(t *testing.T) {
	p := whitelistPolicy(t, "/login")
	resolve := ResolveRoute(p, DefaultMockNamespace, nil)

	login := run(t, &Config{URL: "/login"}, resolve)
	assert.Equal(t, policy.RouteMock, login.Route)
	assert.Equal(t, "/login", login.URL)
	assert.Empty(t, login.BaseURL)

	profile := run(t, &Config{URL: "/vab-mock-server/profile"}, resolve)
	assert.Equal(t, policy.RouteReal, profile.Route)
	assert.Equal(t, "/profile", profile.URL)
	assert.Equal(t, "http://real.example/api", profile.BaseURL)
	assert.Equal(t, "http://real.example/api/profile", profile.FullURL())
}

func TestResolveRoute_EvaluatesFullURL(t *testing.T) {
	p := whitelistPolicy(t, "/vab-mock-server/login")
	resolve := ResolveRoute(p, DefaultMockNamespace, nil)

	cfg := run(t, &Config{BaseURL: "http://127.0.0.1:8080/vab-mock-server", URL: "/login"}, resolve)
	assert.Equal(t, policy.RouteMock, cfg.Route)
	assert.Equal(t, "http://127.0.0.1:8080/vab-mock-server", cfg.BaseURL)

	cfg = run(t, &Config{BaseURL: "http://127.0.0.1:8080/vab-mock-server", URL: "/user"}, resolve)
	assert.Equal(t, policy.RouteReal, cfg.Route)
	assert.Equal(t, "http://real.example/api", cfg.BaseURL)
}

func TestResolveRoute_AbsoluteRules(t *testing.T) {
	p := whitelistPolicy(t, "https://api.github.com/*", "/vab-mock-server/login")
	resolve := ResolveRoute(p, DefaultMockNamespace, nil)

	cfg := run(t, &Config{BaseURL: "/vab-mock-server", URL: "https://api.github.com/repos"}, resolve)
	assert.Equal(t, policy.RouteMock, cfg.Route)
	assert.Equal(t, "https://api.github.com/repos", cfg.FullURL())

	cfg = run(t, &Config{URL: "https://api.example.com/repos"}, resolve)
	assert.Equal(t, policy.RouteReal, cfg.Route)

	p.Mode = policy.ModeBlacklist
	p.Blacklist = p.Whitelist
	cfg = run(t, &Config{URL: "https://api.github.com/repos"}, resolve)
	assert.Equal(t, policy.RouteReal, cfg.Route)

	cfg = run(t, &Config{BaseURL: "http://127.0.0.1:8080/vab-mock-server", URL: "/login"}, resolve)
	assert.Equal(t, policy.RouteReal, cfg.Route, "path rules still apply to absolute bases")
}

func TestResolveRoute_ForceMarkers(t *testing.T) {
	tests := []struct {
		name   string
		policy *policy.Policy
		cfg    *Config
		want   policy.Route
	}{
		{
			name:   "typed force mock beats disabled policy",
			policy: policy.Disabled(),
			cfg:    &Config{URL: "/login", Force: ForceMock},
			want:   policy.RouteMock,
		},
		{
			name:   "typed force real beats mode all",
			policy: &policy.Policy{Enabled: true, Mode: policy.ModeAll},
			cfg:    &Config{URL: "/login", Force: ForceReal},
			want:   policy.RouteReal,
		},
		{
			name:   "header force mock",
			policy: policy.Disabled(),
			cfg:    &Config{URL: "/login", Header: MarkAsMock()},
			want:   policy.RouteMock,
		},
		{
			name:   "header force real beats whitelist match",
			policy: whitelistPolicy(t, "/login"),
			cfg:    &Config{URL: "/login", Header: MarkAsReal()},
			want:   policy.RouteReal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := run(t, tt.cfg, ResolveRoute(tt.policy, DefaultMockNamespace, nil))
			assert.Equal(t, tt.want, cfg.Route)
			assert.Empty(t, cfg.Header.Get(HeaderForceMock))
			assert.Empty(t, cfg.Header.Get(HeaderForceReal))
		})
	}
}

func TestResolveRoute_StickyAcrossDispatches(t *testing.T) {
	resolve := ResolveRoute(whitelistPolicy(t, "/login"), DefaultMockNamespace, nil)
	cfg := run(t, &Config{URL: "/vab-mock-server/profile"}, resolve)
	require.Equal(t, policy.RouteReal, cfg.Route)

	run(t, cfg, resolve)
	assert.Equal(t, policy.RouteReal, cfg.Route)
	assert.Equal(t, "/profile", cfg.URL)
	assert.Equal(t, "http://real.example/api", cfg.BaseURL)
}

func TestInjectAuth(t *testing.T) {
	sess := &fakeSession{token: "admin-accessToken"}

	cfg := run(t, &Config{URL: "/user"}, InjectAuth(sess, "Authorization", "Bearer "))
	assert.Equal(t, "Bearer admin-accessToken", cfg.Header.Get("Authorization"))

	cfg = run(t, &Config{URL: "/user"}, InjectAuth(&fakeSession{}, "accessToken", ""))
	assert.Empty(t, cfg.Header.Get("accessToken"))

	cfg = run(t, &Config{URL: "/proxy/user", Passthrough: true}, InjectAuth(sess, "accessToken", ""))
	assert.Empty(t, cfg.Header.Get("accessToken"))
}

func TestStripAndEncode_JSON(t *testing.T) {
	cfg := run(t,
		&Config{URL: "/user", Data: map[string]any{"name": "a", "age": 0, "flag": false, "note": ""}},
		StripBody(), EncodeBody(DefaultContentType),
	)
	assert.JSONEq(t, `{"name":"a"}`, string(cfg.EncodedBody()))
	assert.Equal(t, DefaultContentType, cfg.ContentType())
}

func TestStripAndEncode_Form(t *testing.T) {
	cfg := &Config{
		URL:    "/login",
		Header: http.Header{"Content-Type": []string{FormContentType}},
		Data:   map[string]any{"username": "admin", "password": "", "remember": true},
	}
	run(t, cfg, StripBody(), EncodeBody(DefaultContentType))
	assert.Equal(t, "remember=true&username=admin", string(cfg.EncodedBody()))
}

func TestStripAndEncode_Passthrough(t *testing.T) {
	cfg := &Config{
		URL:    "/proxy/user",
		Header: http.Header{"Content-Type": []string{FormContentType}},
		Data:   map[string]any{"name": "a", "age": 0},
	}
	run(t, cfg, MarkPassthrough([]string{"/proxy"}), StripBody(), EncodeBody(DefaultContentType))
	assert.True(t, cfg.Passthrough)
	assert.JSONEq(t, `{"name":"a","age":0}`, string(cfg.EncodedBody()))
}

func TestStripBody_Idempotent(t *testing.T) {
	cfg := &Config{URL: "/user", Data: json.RawMessage(`{"name":"a","age":0,"tags":[]}`)}
	run(t, cfg, StripBody(), EncodeBody(DefaultContentType))
	first := string(cfg.EncodedBody())
	run(t, cfg, StripBody(), EncodeBody(DefaultContentType))
	assert.Equal(t, first, string(cfg.EncodedBody()))
	assert.JSONEq(t, `{"name":"a","tags":[]}`, first)
}

func TestMarkSlow(t *testing.T) {
	slow := MarkSlow([]string{"doEdit", ""})
	assert.True(t, run(t, &Config{URL: "/table/doEdit"}, slow).Slow)
	assert.False(t, run(t, &Config{URL: "/table/getList"}, slow).Slow)
}

func TestTagRequestID_KeptAcrossDispatches(t *testing.T) {
	cfg := run(t, &Config{URL: "/user"}, TagRequestID())
	id := cfg.Header.Get(HeaderRequestID)
	require.NotEmpty(t, id)
	run(t, cfg, TagRequestID())
	assert.Equal(t, id, cfg.Header.Get(HeaderRequestID))
}

func TestForceFromHeader(t *testing.T) {
	assert.Equal(t, ForceNone, ForceFromHeader(nil))
	assert.Equal(t, ForceMock, ForceFromHeader(MarkAsMock()))
	assert.Equal(t, ForceReal, ForceFromHeader(MarkAsReal()))

	both := MergeHeader(MarkAsReal(), MarkAsMock())
	assert.Equal(t, ForceMock, ForceFromHeader(both))
}
