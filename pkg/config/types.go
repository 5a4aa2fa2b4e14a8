package config

import (
	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/internal/rules"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

// Config is the complete vab configuration.
type Config struct {
	Network    Network    `yaml:"network" json:"network"`
	Settings   Settings   `yaml:"settings" json:"settings"`
	Mock       Mock       `yaml:"mock" json:"mock"`
	MockServer MockServer `yaml:"mockServer" json:"mockServer"`

	// Sources maps dotted keys to the layer that set them.
	Sources map[string]string `yaml:"-" json:"-"`
	// Files lists the config files that were merged, lowest priority first.
	Files []string `yaml:"-" json:"-"`
}

// Network configures the request pipeline.
type Network struct {
	BaseURL     string `yaml:"baseURL" json:"baseURL"`
	ContentType string `yaml:"contentType" json:"contentType"`
	// RequestTimeout is in milliseconds.
	RequestTimeout   int             `yaml:"requestTimeout" json:"requestTimeout"`
	SuccessCode      request.CodeSet `yaml:"successCode" json:"successCode"`
	InvalidCode      request.Code    `yaml:"invalidCode" json:"invalidCode"`
	NoPermissionCode request.Code    `yaml:"noPermissionCode" json:"noPermissionCode"`
	TokenName        string          `yaml:"tokenName" json:"tokenName"`
	TokenPrefix      string          `yaml:"tokenPrefix" json:"tokenPrefix"`
	Retry            int             `yaml:"retry" json:"retry"`
	// RetryDelay is in milliseconds.
	RetryDelay  int      `yaml:"retryDelay" json:"retryDelay"`
	Debounce    []string `yaml:"debounce" json:"debounce"`
	Passthrough []string `yaml:"passthrough" json:"passthrough"`
	Language    string   `yaml:"language" json:"language"`
}

// Settings configures session handling and the route guard.
type Settings struct {
	Title             string   `yaml:"title" json:"title"`
	LoginInterception bool     `yaml:"loginInterception" json:"loginInterception"`
	RoutesWhiteList   []string `yaml:"routesWhiteList" json:"routesWhiteList"`
	RecordRoute       bool     `yaml:"recordRoute" json:"recordRoute"`
	// Authentication is "intelligence" (front-end permission routes) or "all".
	Authentication string `yaml:"authentication" json:"authentication"`
	// SessionFile persists the access token. Empty uses the user config dir.
	SessionFile string `yaml:"sessionFile" json:"sessionFile"`
}

// Mock configures the mock routing policy.
type Mock struct {
	EnableMock    bool              `yaml:"enableMock" json:"enableMock"`
	MockMode      policy.Mode       `yaml:"mockMode" json:"mockMode"`
	MockWhiteList rules.Set         `yaml:"mockWhiteList" json:"mockWhiteList"`
	MockBlackList rules.Set         `yaml:"mockBlackList" json:"mockBlackList"`
	Namespace     string            `yaml:"namespace" json:"namespace"`
	RealAPIConfig map[string]string `yaml:"realApiConfig" json:"realApiConfig"`
	Env           string            `yaml:"env" json:"env"`
	Debug         bool              `yaml:"debug" json:"debug"`
}

// MockServer configures `vab serve`.
type MockServer struct {
	Port     int    `yaml:"port" json:"port"`
	MockPath string `yaml:"mockPath" json:"mockPath"`
	// Secret signs the tokens issued by mock handlers.
	Secret  string  `yaml:"secret" json:"secret"`
	Proxies []Proxy `yaml:"proxies" json:"proxies"`
}

// Proxy forwards a path prefix to an upstream.
type Proxy struct {
	Prefix       string `yaml:"prefix" json:"prefix"`
	Target       string `yaml:"target" json:"target"`
	Rewrite      string `yaml:"rewrite,omitempty" json:"rewrite,omitempty"`
	ChangeOrigin bool   `yaml:"changeOrigin,omitempty" json:"changeOrigin,omitempty"`
}

// Config sources.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceFile    = "file"
	SourceLocal   = "local"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
