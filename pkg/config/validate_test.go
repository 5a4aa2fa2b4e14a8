package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "valid defaults", mutate: func(*Config) {}},
		{name: "retry too high", mutate: func(c *Config) { c.Network.Retry = 11 }, wantKey: "network.retry"},
		{name: "negative delay", mutate: func(c *Config) { c.Network.RetryDelay = -1 }, wantKey: "network.retryDelay"},
		{name: "no success codes", mutate: func(c *Config) { c.Network.SuccessCode = nil }, wantKey: "network.successCode"},
		{name: "no token name", mutate: func(c *Config) { c.Network.TokenName = "" }, wantKey: "network.tokenName"},
		{name: "relative base url", mutate: func(c *Config) { c.Network.BaseURL = "api" }, wantKey: "network.baseURL"},
		{name: "absolute base url", mutate: func(c *Config) { c.Network.BaseURL = "http://localhost:8080/vab-mock-server" }},
		{name: "real api not absolute", mutate: func(c *Config) { c.Mock.RealAPIConfig["prod"] = "/api" }, wantKey: "mock.realApiConfig.prod"},
		{name: "namespace without slash", mutate: func(c *Config) { c.Mock.Namespace = "mock" }, wantKey: "mock.namespace"},
		{name: "port out of range", mutate: func(c *Config) { c.MockServer.Port = 70000 }, wantKey: "mockServer.port"},
		{
			name:    "proxy target",
			mutate:  func(c *Config) { c.MockServer.Proxies = []Proxy{{Prefix: "/p", Target: "upstream"}} },
			wantKey: "mockServer.proxies.0.target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}
