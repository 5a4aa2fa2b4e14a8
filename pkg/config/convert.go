package config

import (
	"time"

	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

// Policy builds the mock routing policy.
func (c *Config) Policy() *policy.Policy {
	env := c.Mock.Env
	if env == "" {
		env = policy.DefaultEnv
	}
	return &policy.Policy{
		Enabled:   c.Mock.EnableMock,
		Mode:      c.Mock.MockMode,
		Whitelist: c.Mock.MockWhiteList,
		Blacklist: c.Mock.MockBlackList,
		RealAPI:   c.Mock.RealAPIConfig,
		Env:       env,
		Debug:     c.Mock.Debug,
	}
}

// RequestSettings builds the request client settings.
func (c *Config) RequestSettings() request.Settings {
	n := c.Network
	passthrough := append([]string(nil), n.Passthrough...)
	for _, p := range c.MockServer.Proxies {
		passthrough = append(passthrough, p.Prefix)
	}
	return request.Settings{
		BaseURL:           n.BaseURL,
		ContentType:       n.ContentType,
		Timeout:           time.Duration(n.RequestTimeout) * time.Millisecond,
		SuccessCodes:      n.SuccessCode,
		InvalidCode:       n.InvalidCode,
		NoPermissionCode:  n.NoPermissionCode,
		TokenHeader:       n.TokenName,
		TokenPrefix:       n.TokenPrefix,
		Retry:             n.Retry,
		RetryDelay:        time.Duration(n.RetryDelay) * time.Millisecond,
		SlowEndpoints:     n.Debounce,
		Passthrough:       passthrough,
		MockNamespace:     c.Mock.Namespace,
		LoginInterception: c.Settings.LoginInterception,
		Language:          n.Language,
	}
}
