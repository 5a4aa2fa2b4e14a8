package request

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/util"
)

// Force markers, re-exported so callers need not import the policy package.
type Force = policy.Force

// Force values.
const (
	ForceNone = policy.ForceNone
	ForceMock = policy.ForceMock
	ForceReal = policy.ForceReal
)

// NoRetry as Config.Retry sends a call exactly once.
const NoRetry = -1

// Config describes one outgoing call. It is created per call, mutated in
// place by the pipeline and discarded once the call returns.
type Config struct {
	// URL is the target path, or an absolute address.
	URL string
	// BaseURL is prefixed to relative URLs. Real-routed calls get it
	// replaced with the policy's real backend address.
	BaseURL string
	// Method defaults to GET.
	Method string
	Header http.Header
	// Params is appended to the URL query.
	Params url.Values
	// Data is the body payload: map[string]any, json.RawMessage, []byte,
	// url.Values, string, any JSON-marshalable value, or nil.
	Data any
	// Force overrides the mock policy for this call. The X-Force-Mock and
	// X-Force-Real headers are honoured as well.
	Force Force

	// Retry is the number of re-dispatches allowed after a transport failure.
	// Zero takes the client default; NoRetry disables re-dispatching.
	Retry int
	// RetryDelay is the wait between two dispatches. Zero takes the client
	// default.
	RetryDelay time.Duration
	// RetryCount is the number of re-dispatches already made.
	RetryCount int
	// Timeout bounds a single dispatch. Zero uses the client default.
	Timeout time.Duration

	// Route is set by ResolveRoute and kept across re-dispatches.
	Route policy.Route
	// Passthrough is set for proxy namespaces that skip auth and body
	// rewriting.
	Passthrough bool
	// Slow is set for endpoints that show the loading indicator.
	Slow bool

	body []byte
}

// EncodedBody returns the serialized payload produced by EncodeBody.
func (c *Config) EncodedBody() []byte { return c.body }

// ContentType returns the Content-Type header of the call.
func (c *Config) ContentType() string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get("Content-Type")
}

// FullURL returns BaseURL joined with URL and Params.
func (c *Config) FullURL() string {
	full := util.JoinURL(c.BaseURL, c.URL)
	if len(c.Params) == 0 {
		return full
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + c.Params.Encode()
}

// Settings holds the client-wide defaults applied to every call.
type Settings struct {
	// BaseURL is the default base address (the mock namespace in
	// development).
	BaseURL string
	// ContentType is the default Content-Type of bodies.
	ContentType string
	// Timeout bounds one dispatch.
	Timeout time.Duration
	// SuccessCodes are the envelope codes treated as success.
	SuccessCodes CodeSet
	// InvalidCode signals an invalid session.
	InvalidCode Code
	// NoPermissionCode signals a permission failure.
	NoPermissionCode Code
	// TokenHeader is the header carrying the access token.
	TokenHeader string
	// TokenPrefix is prepended to the token, e.g. "Bearer ".
	TokenPrefix string
	// Retry and RetryDelay are the per-call retry defaults.
	Retry      int
	RetryDelay time.Duration
	// SlowEndpoints are URL substrings that show the loading indicator.
	SlowEndpoints []string
	// Passthrough are URL prefixes forwarded untouched (proxy namespaces).
	Passthrough []string
	// MockNamespace is the URL segment identifying mock-served paths.
	MockNamespace string
	// LoginInterception reloads the application after an invalid session.
	LoginInterception bool
	// Language selects user-visible message translations.
	Language string
}

// Default settings.
const (
	DefaultBaseURL       = "/vab-mock-server"
	DefaultMockNamespace = "/vab-mock-server/"
	DefaultContentType   = "application/json;charset=UTF-8"
	FormContentType      = "application/x-www-form-urlencoded;charset=UTF-8"
	DefaultTimeout       = 5 * time.Second
	DefaultRetry         = 3
	DefaultRetryDelay    = time.Second
	DefaultTokenHeader   = "accessToken"
)

// DefaultSettings returns the stock network settings.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:           DefaultBaseURL,
		ContentType:       DefaultContentType,
		Timeout:           DefaultTimeout,
		SuccessCodes:      Codes(200, 0),
		InvalidCode:       CodeOf(402),
		NoPermissionCode:  CodeOf(401),
		TokenHeader:       DefaultTokenHeader,
		Retry:             DefaultRetry,
		RetryDelay:        DefaultRetryDelay,
		SlowEndpoints:     []string{"doEdit"},
		MockNamespace:     DefaultMockNamespace,
		LoginInterception: true,
		Language:          "en",
	}
}
