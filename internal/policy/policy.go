// Package policy decides, per request, whether traffic goes to the mock
// layer or to the real backend.
package policy

import (
	"github.com/xwz823/vue3-admin-better/internal/rules"
)

// Mode selects how the rule lists are consulted.
type Mode string

// Policy modes.
const (
	// ModeWhitelist mocks only URLs matching the whitelist.
	ModeWhitelist Mode = "whitelist"
	// ModeBlacklist mocks everything except URLs matching the blacklist.
	ModeBlacklist Mode = "blacklist"
	// ModeAll mocks everything. Unrecognized modes behave like ModeAll.
	ModeAll Mode = "all"
)

// Route is the destination chosen for one request.
type Route string

// Routes.
const (
	RouteMock Route = "mock"
	RouteReal Route = "real"
)

// Force is a per-request override marker.
type Force int

// Force markers. ForceNone defers to the policy.
const (
	ForceNone Force = iota
	ForceMock
	ForceReal
)

func (f Force) String() string {
	switch f {
	case ForceMock:
		return "mock"
	case ForceReal:
		return "real"
	default:
		return "none"
	}
}

// DefaultEnv is the runtime environment used when none is configured.
const DefaultEnv = "dev"

// DefaultRealBaseURL is the real backend address used when the environment
// has no entry in RealAPI.
const DefaultRealBaseURL = "http://localhost:3000/api"

// Policy is the process-wide mock configuration. It is built once from
// configuration and treated as read-only afterwards.
type Policy struct {
	// Enabled turns the mock layer on. When false every request is real.
	Enabled bool
	// Mode selects which rule list applies.
	Mode Mode
	// Whitelist is consulted in whitelist mode only.
	Whitelist rules.Set
	// Blacklist is consulted in blacklist mode only.
	Blacklist rules.Set
	// RealAPI maps environment names to real backend base addresses.
	RealAPI map[string]string
	// Env is the current runtime environment name.
	Env string
	// Debug logs every routing decision at info level.
	Debug bool
}

// Disabled returns a policy that sends every request to the real backend.
func Disabled() *Policy {
	return &Policy{Enabled: false, Mode: ModeAll}
}

// ShouldUseMock reports whether url should be served by the mock layer.
// The two rule lists are evaluated independently and never merged. Extra
// aliases of the same address (such as its origin-stripped path) count as
// a rule match when any of them matches.
func (p *Policy) ShouldUseMock(url string, aliases ...string) bool {
	if p == nil || !p.Enabled {
		return false
	}

	switch p.Mode {
	case ModeWhitelist:
		return matchAny(p.Whitelist, url, aliases)
	case ModeBlacklist:
		return !matchAny(p.Blacklist, url, aliases)
	default:
		return true
	}
}

func matchAny(set rules.Set, url string, aliases []string) bool {
	if set.Match(url) {
		return true
	}
	for _, a := range aliases {
		if a != url && set.Match(a) {
			return true
		}
	}
	return false
}

// Resolve applies force markers before the policy.
func (p *Policy) Resolve(force Force, url string, aliases ...string) Route {
	switch force {
	case ForceMock:
		return RouteMock
	case ForceReal:
		return RouteReal
	}
	if p.ShouldUseMock(url, aliases...) {
		return RouteMock
	}
	return RouteReal
}

// RealBaseURL returns the real backend address for the current environment,
// falling back to the "dev" entry and then to DefaultRealBaseURL.
func (p *Policy) RealBaseURL() string {
	if p == nil {
		return DefaultRealBaseURL
	}
	env := p.Env
	if env == "" {
		env = DefaultEnv
	}
	if u := p.RealAPI[env]; u != "" {
		return u
	}
	if u := p.RealAPI[DefaultEnv]; u != "" {
		return u
	}
	return DefaultRealBaseURL
}

// Summary describes the policy for diagnostics.
type Summary struct {
	Enabled        bool   `json:"enableMock"`
	Mode           Mode   `json:"mockMode"`
	Debug          bool   `json:"debug"`
	Env            string `json:"env"`
	RealBaseURL    string `json:"realBaseUrl"`
	WhitelistCount int    `json:"whiteListCount"`
	BlacklistCount int    `json:"blackListCount"`
}

// Summary returns a diagnostic snapshot of the policy.
func (p *Policy) Summary() Summary {
	if p == nil {
		return Summary{RealBaseURL: DefaultRealBaseURL}
	}
	env := p.Env
	if env == "" {
		env = DefaultEnv
	}
	return Summary{
		Enabled:        p.Enabled,
		Mode:           p.Mode,
		Debug:          p.Debug,
		Env:            env,
		RealBaseURL:    p.RealBaseURL(),
		WhitelistCount: len(p.Whitelist),
		BlacklistCount: len(p.Blacklist),
	}
}
