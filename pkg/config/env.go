package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfig            = "VAB_CONFIG"
	EnvBaseURL           = "VAB_BASE_URL"
	EnvRequestTimeout    = "VAB_REQUEST_TIMEOUT"
	EnvSuccessCode       = "VAB_SUCCESS_CODE"
	EnvTokenName         = "VAB_TOKEN_NAME"
	EnvTokenPrefix       = "VAB_TOKEN_PREFIX"
	EnvRetry             = "VAB_RETRY"
	EnvRetryDelay        = "VAB_RETRY_DELAY"
	EnvLanguage          = "VAB_LANGUAGE"
	EnvLoginInterception = "VAB_LOGIN_INTERCEPTION"
	EnvSessionFile       = "VAB_SESSION_FILE"
	EnvEnableMock        = "VAB_ENABLE_MOCK"
	EnvMockMode          = "VAB_MOCK_MODE"
	EnvMockWhiteList     = "VAB_MOCK_WHITE_LIST"
	EnvMockBlackList     = "VAB_MOCK_BLACK_LIST"
	EnvEnv               = "VAB_ENV"
	EnvDebug             = "VAB_DEBUG"
	EnvPort              = "VAB_PORT"
	EnvMockPath          = "VAB_MOCK_PATH"
	EnvSecret            = "VAB_MOCK_SECRET"
)

type envBinding struct {
	name string
	key  string
	list bool
}

var envBindings = []envBinding{
	{name: EnvBaseURL, key: "network.baseURL"},
	{name: EnvRequestTimeout, key: "network.requestTimeout"},
	{name: EnvSuccessCode, key: "network.successCode", list: true},
	{name: EnvTokenName, key: "network.tokenName"},
	{name: EnvTokenPrefix, key: "network.tokenPrefix"},
	{name: EnvRetry, key: "network.retry"},
	{name: EnvRetryDelay, key: "network.retryDelay"},
	{name: EnvLanguage, key: "network.language"},
	{name: EnvLoginInterception, key: "settings.loginInterception"},
	{name: EnvSessionFile, key: "settings.sessionFile"},
	{name: EnvEnableMock, key: "mock.enableMock"},
	{name: EnvMockMode, key: "mock.mockMode"},
	{name: EnvMockWhiteList, key: "mock.mockWhiteList", list: true},
	{name: EnvMockBlackList, key: "mock.mockBlackList", list: true},
	{name: EnvEnv, key: "mock.env"},
	{name: EnvDebug, key: "mock.debug"},
	{name: EnvPort, key: "mockServer.port"},
	{name: EnvMockPath, key: "mockServer.mockPath"},
	{name: EnvSecret, key: "mockServer.secret"},
}

// envLayer builds a layer from the VAB_* variables that are set. List
// variables are comma separated.
func envLayer(lookup func(string) (string, bool)) map[string]any {
	doc := map[string]any{}
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		if b.list {
			parts := strings.Split(v, ",")
			items := make([]any, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					items = append(items, scalar(p))
				}
			}
			setPath(doc, b.key, items)
			continue
		}
		setPath(doc, b.key, scalar(v))
	}
	return doc
}

// scalar types a raw string the way a YAML document would: "3" is an int,
// "true" a bool, anything else a string.
func scalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case int, bool, float64:
		return v
	default:
		return s
	}
}
