package mockserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xwz823/vue3-admin-better/pkg/request"
)

// Definition binds one method and URL path to a response.
type Definition struct {
	URL string `yaml:"url" json:"url"`
	// Method matches case-insensitively. Empty matches any method.
	Method string `yaml:"method,omitempty" json:"method,omitempty"`
	// Type is an alias of Method.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Status is the transport status. Defaults to 200.
	Status   int      `yaml:"status,omitempty" json:"status,omitempty"`
	Response Response `yaml:"response" json:"response"`
	// DataExpr computes the data field from the request.
	DataExpr string `yaml:"dataExpr,omitempty" json:"dataExpr,omitempty"`
	Cases    []Case `yaml:"cases,omitempty" json:"cases,omitempty"`
	// Delay is in milliseconds.
	Delay int `yaml:"delay,omitempty" json:"delay,omitempty"`

	// Source is the file the definition was loaded from.
	Source string `yaml:"-" json:"-"`
}

// Response is a canned envelope.
type Response struct {
	Code request.Code `yaml:"code" json:"code"`
	Msg  string       `yaml:"msg,omitempty" json:"msg,omitempty"`
	Data any          `yaml:"data,omitempty" json:"data,omitempty"`
}

// Case replaces the default response when its condition holds.
type Case struct {
	When     string   `yaml:"when" json:"when"`
	Response Response `yaml:"response" json:"response"`
	DataExpr string   `yaml:"dataExpr,omitempty" json:"dataExpr,omitempty"`
}

// HTTPMethod returns the upper-cased method, or "" for any.
func (d *Definition) HTTPMethod() string {
	m := d.Method
	if m == "" {
		m = d.Type
	}
	return strings.ToUpper(strings.TrimSpace(m))
}

// Key identifies the definition for duplicate detection.
func (d *Definition) Key() string {
	m := d.HTTPMethod()
	if m == "" {
		m = "*"
	}
	return m + " " + d.URL
}

// Matches reports whether the definition serves method and path.
func (d *Definition) Matches(method, path string) bool {
	if d.URL != path {
		return false
	}
	m := d.HTTPMethod()
	return m == "" || strings.EqualFold(m, method)
}

// Validate checks the fields that the schema cannot.
func (d *Definition) Validate() error {
	if !strings.HasPrefix(d.URL, "/") {
		return fmt.Errorf("url %q must start with /", d.URL)
	}
	if m := d.HTTPMethod(); m != "" {
		switch m {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions:
		default:
			return fmt.Errorf("%s: unsupported method %q", d.URL, m)
		}
	}
	if d.Status != 0 && (d.Status < 100 || d.Status > 599) {
		return fmt.Errorf("%s: status %d is out of range", d.URL, d.Status)
	}
	if d.Delay < 0 {
		return fmt.Errorf("%s: delay must not be negative", d.URL)
	}
	for i, c := range d.Cases {
		if strings.TrimSpace(c.When) == "" {
			return fmt.Errorf("%s: case %d has no condition", d.URL, i)
		}
	}
	return nil
}
