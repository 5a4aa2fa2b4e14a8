package mockserver

import (
	"fmt"
	"log/slog"
	"net/http"
	stdhttputil "net/http/httputil"
	"net/url"
	"strings"

	"github.com/xwz823/vue3-admin-better/pkg/httputil"
)

// Proxy forwards requests under Prefix to Target.
type Proxy struct {
	Prefix string
	Target string
	// Rewrite replaces Prefix in the forwarded path when set. Use "/" to
	// strip the prefix.
	Rewrite string
	// ChangeOrigin sets the Host header to the target host.
	ChangeOrigin bool
}

type proxyRoute struct {
	Proxy
	rp *stdhttputil.ReverseProxy
}

func newProxyRoute(p Proxy, log *slog.Logger) (*proxyRoute, error) {
	target, err := url.Parse(p.Target)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("proxy %s: target %q must be an absolute URL", p.Prefix, p.Target)
	}
	route := &proxyRoute{Proxy: p}
	route.rp = &stdhttputil.ReverseProxy{
		Rewrite: func(r *stdhttputil.ProxyRequest) {
			r.Out.URL.Path = route.rewritePath(r.In.URL.Path)
			r.Out.URL.RawPath = ""
			r.SetURL(target)
			r.SetXForwarded()
			if !p.ChangeOrigin {
				r.Out.Host = r.In.Host
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("proxy upstream error", "prefix", p.Prefix, "path", r.URL.Path, "error", err)
			httputil.WriteJSON(w, http.StatusBadGateway, httputil.Envelope{Code: http.StatusBadGateway, Msg: "proxy upstream error"})
		},
	}
	return route, nil
}

func (p *proxyRoute) matches(path string) bool {
	return strings.HasPrefix(path, p.Prefix)
}

func (p *proxyRoute) rewritePath(path string) string {
	if p.Rewrite == "" {
		return path
	}
	out := p.Rewrite + strings.TrimPrefix(path, p.Prefix)
	out = strings.ReplaceAll(out, "//", "/")
	if out == "" {
		return "/"
	}
	return out
}
