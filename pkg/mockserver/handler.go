package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xwz823/vue3-admin-better/pkg/httputil"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
	"github.com/xwz823/vue3-admin-better/pkg/request"
)

// Reserved endpoints.
const (
	HealthPath  = "/__vab/health"
	MetricsPath = "/__vab/metrics"
)

// NotFoundMsg is the msg of the envelope returned for unmatched requests.
const NotFoundMsg = "mock not found"

const maxBodySize = 1 << 20

// Handler serves mock definitions over HTTP.
type Handler struct {
	defs     []Definition
	proxies  []*proxyRoute
	eval     *Evaluator
	log      *slog.Logger
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	sleep    func(context.Context, time.Duration) error
}

// HandlerOption configures a Handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	secret   string
	proxies  []Proxy
	log      *slog.Logger
	registry *prometheus.Registry
}

// WithSecret sets the HMAC secret used by signToken.
func WithSecret(secret string) HandlerOption {
	return func(o *handlerOptions) { o.secret = secret }
}

// WithProxies forwards path prefixes to upstreams before definitions are
// consulted.
func WithProxies(proxies ...Proxy) HandlerOption {
	return func(o *handlerOptions) { o.proxies = append(o.proxies, proxies...) }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) { o.log = log }
}

// WithRegistry registers the handler metrics on reg and serves reg at
// MetricsPath. Defaults to a private registry.
func WithRegistry(reg *prometheus.Registry) HandlerOption {
	return func(o *handlerOptions) { o.registry = reg }
}

// NewHandler builds a handler over defs. Every expression is compiled up
// front. When two definitions share a method and URL the first one wins.
func NewHandler(defs []Definition, opts ...HandlerOption) (*Handler, error) {
	o := handlerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Component(logging.OrNop(o.log), "mockserver")
	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	h := &Handler{
		eval:     NewEvaluator(o.secret),
		log:      log,
		gatherer: reg,
		sleep:    sleepContext,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vab_mock_requests_total",
			Help: "Requests served by the mock server, by result.",
		}, []string{"result"}),
	}
	if err := reg.Register(h.requests); err != nil {
		return nil, fmt.Errorf("failed to register mock metrics: %w", err)
	}

	seen := make(map[string]string, len(defs))
	for _, d := range defs {
		if first, dup := seen[d.Key()]; dup {
			log.Warn("duplicate mock definition ignored", "mock", d.Key(), "source", d.Source, "first", first)
			continue
		}
		seen[d.Key()] = d.Source
		h.defs = append(h.defs, d)
	}
	if err := h.eval.Precompile(h.defs); err != nil {
		return nil, err
	}

	for _, p := range o.proxies {
		route, err := newProxyRoute(p, log)
		if err != nil {
			return nil, err
		}
		h.proxies = append(h.proxies, route)
	}
	return h, nil
}

// Count returns the number of active definitions.
func (h *Handler) Count() int { return len(h.defs) }

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(request.HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(request.HeaderRequestID, id)
	log := h.log.With("request_id", id, "method", r.Method, "path", r.URL.Path)

	switch r.URL.Path {
	case HealthPath:
		h.handleHealth(w, r)
		return
	case MetricsPath:
		promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}).ServeHTTP(w, r)
		return
	}

	for _, p := range h.proxies {
		if p.matches(r.URL.Path) {
			h.requests.WithLabelValues("proxied").Inc()
			log.Debug("proxying request", "target", p.Target)
			p.rp.ServeHTTP(w, r)
			return
		}
	}

	def := h.lookup(r.Method, r.URL.Path)
	if def == nil {
		h.requests.WithLabelValues("not_found").Inc()
		log.Debug("no mock matched")
		httputil.WriteNotFound(w, NotFoundMsg)
		return
	}

	env, err := requestEnv(r)
	if err != nil {
		h.requests.WithLabelValues("bad_request").Inc()
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.respond(def, env)
	if err != nil {
		h.requests.WithLabelValues("error").Inc()
		log.Error("mock evaluation failed", "source", def.Source, "error", err)
		httputil.WriteInternalError(w, err.Error())
		return
	}

	if def.Delay > 0 {
		if err := h.sleep(r.Context(), time.Duration(def.Delay)*time.Millisecond); err != nil {
			h.requests.WithLabelValues("canceled").Inc()
			return
		}
	}

	status := def.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.requests.WithLabelValues("matched").Inc()
	log.Debug("mock matched", "source", def.Source, "code", resp.Code.String())
	httputil.WriteJSON(w, status, httputil.Envelope{Code: resp.Code, Msg: resp.Msg, Data: resp.Data})
}

func (h *Handler) lookup(method, path string) *Definition {
	for i := range h.defs {
		if h.defs[i].Matches(method, path) {
			return &h.defs[i]
		}
	}
	return nil
}

// respond picks the first case whose condition holds, falling back to the
// default response. A case without a code inherits the default code.
func (h *Handler) respond(def *Definition, env Env) (Response, error) {
	resp, dataExpr := def.Response, def.DataExpr
	for _, c := range def.Cases {
		ok, err := h.eval.Match(c.When, env)
		if err != nil {
			return Response{}, err
		}
		if ok {
			resp, dataExpr = c.Response, c.DataExpr
			if resp.Code.IsZero() {
				resp.Code = def.Response.Code
			}
			break
		}
	}
	if dataExpr != "" {
		data, err := h.eval.Eval(dataExpr, env)
		if err != nil {
			return Response{}, err
		}
		resp.Data = data
	}
	return resp, nil
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"mocks":     len(h.defs),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// requestEnv builds the expression environment. JSON and form bodies are
// decoded; other bodies are ignored.
func requestEnv(r *http.Request) (Env, error) {
	env := Env{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   firstValues(r.URL.Query(), false),
		Headers: firstValues(url.Values(r.Header), true),
		Body:    map[string]any{},
	}
	if r.Body == nil {
		return env, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return env, fmt.Errorf("failed to read body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return env, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return env, fmt.Errorf("invalid form body: %w", err)
		}
		env.Body = firstValues(values, false)
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") || mediaType == "":
		var body any
		if err := json.Unmarshal(data, &body); err != nil {
			return env, fmt.Errorf("invalid JSON body: %w", err)
		}
		if m, ok := body.(map[string]any); ok {
			env.Body = m
		}
	}
	return env, nil
}

func firstValues(values url.Values, lower bool) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		if lower {
			k = strings.ToLower(k)
		}
		out[k] = v[0]
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
