package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	n := c.Network
	if n.RequestTimeout < 0 {
		return invalid("network.requestTimeout", "requestTimeout %d must not be negative", n.RequestTimeout)
	}
	if n.Retry < 0 || n.Retry > 10 {
		return invalid("network.retry", "retry %d is out of range (0-10)", n.Retry)
	}
	if n.RetryDelay < 0 {
		return invalid("network.retryDelay", "retryDelay %d must not be negative", n.RetryDelay)
	}
	if len(n.SuccessCode) == 0 {
		return invalid("network.successCode", "at least one success code is required")
	}
	if n.TokenName == "" {
		return invalid("network.tokenName", "tokenName is required")
	}
	if n.BaseURL != "" && !strings.HasPrefix(n.BaseURL, "/") {
		if u, err := url.Parse(n.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return invalid("network.baseURL", "baseURL %q must be a path or an absolute URL", n.BaseURL)
		}
	}

	for env, addr := range c.Mock.RealAPIConfig {
		if u, err := url.Parse(addr); err != nil || u.Scheme == "" || u.Host == "" {
			return invalid("mock.realApiConfig."+env, "real API address %q must be an absolute URL", addr)
		}
	}
	if c.Mock.Namespace != "" && (!strings.HasPrefix(c.Mock.Namespace, "/") || !strings.HasSuffix(c.Mock.Namespace, "/")) {
		return invalid("mock.namespace", "namespace %q must start and end with /", c.Mock.Namespace)
	}

	if c.MockServer.Port < 0 || c.MockServer.Port > 65535 {
		return invalid("mockServer.port", "port %d is out of range", c.MockServer.Port)
	}
	for i, p := range c.MockServer.Proxies {
		if !strings.HasPrefix(p.Prefix, "/") {
			return invalid(fmt.Sprintf("mockServer.proxies.%d.prefix", i), "proxy prefix %q must start with /", p.Prefix)
		}
		if u, err := url.Parse(p.Target); err != nil || u.Scheme == "" || u.Host == "" {
			return invalid(fmt.Sprintf("mockServer.proxies.%d.target", i), "proxy target %q must be an absolute URL", p.Target)
		}
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return &Error{Key: key, Message: fmt.Sprintf(format, args...)}
}
