package config

import (
	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

// Defaults.
const (
	DefaultTitle          = "Vertex"
	DefaultAuthentication = "intelligence"
	DefaultPort           = 8080
	DefaultMockPath       = "mock/controller/**/*.{yaml,yml,json}"
	DefaultSecret         = "vab-mock-secret"
)

// DefaultRoutesWhiteList are the paths reachable without a session.
var DefaultRoutesWhiteList = []string{"/login", "/register", "/404", "/401"}

// NewDefault creates a Config holding the default values.
func NewDefault() *Config {
	ns := request.DefaultSettings()
	return &Config{
		Network: Network{
			BaseURL:          ns.BaseURL,
			ContentType:      ns.ContentType,
			RequestTimeout:   int(ns.Timeout.Milliseconds()),
			SuccessCode:      ns.SuccessCodes,
			InvalidCode:      ns.InvalidCode,
			NoPermissionCode: ns.NoPermissionCode,
			TokenName:        ns.TokenHeader,
			Retry:            ns.Retry,
			RetryDelay:       int(ns.RetryDelay.Milliseconds()),
			Debounce:         ns.SlowEndpoints,
			Passthrough:      []string{},
			Language:         ns.Language,
		},
		Settings: Settings{
			Title:             DefaultTitle,
			LoginInterception: true,
			RoutesWhiteList:   append([]string(nil), DefaultRoutesWhiteList...),
			RecordRoute:       true,
			Authentication:    DefaultAuthentication,
		},
		Mock: Mock{
			EnableMock:    true,
			MockMode:      policy.ModeAll,
			Namespace:     request.DefaultMockNamespace,
			RealAPIConfig: map[string]string{policy.DefaultEnv: policy.DefaultRealBaseURL},
			Env:           policy.DefaultEnv,
		},
		MockServer: MockServer{
			Port:     DefaultPort,
			MockPath: DefaultMockPath,
			Secret:   DefaultSecret,
		},
		Sources: map[string]string{},
	}
}
