package request

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"

	"github.com/xwz823/vue3-admin-better/internal/i18n"
	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
	"github.com/xwz823/vue3-admin-better/pkg/util"
)

const (
	maxResponseBody = 10 << 20
	logBodyLimit    = 1024
	tracerName      = "github.com/xwz823/vue3-admin-better/pkg/request"
)

// Client runs calls through the request pipeline. It is safe for concurrent
// use; every call carries its own Config.
type Client struct {
	settings   Settings
	http       Doer
	policy     *policy.Policy
	session    Session
	navigator  Navigator
	notifier   Notifier
	indicator  Indicator
	loading    *sharedLoading
	outcomes   *Outcomes
	printer    *message.Printer
	log        *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	extra      []Transform
	transforms []Transform
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Defaults to a plain *http.Client; the
// per-dispatch timeout is applied through the request context.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithPolicy sets the mock policy. Defaults to policy.Disabled().
func WithPolicy(p *policy.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithSession sets the token source.
func WithSession(s Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithNavigator sets the navigation boundary used by outcome handling.
func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.navigator = n
	}
}

// WithIndicator sets the loading indicator shown for slow endpoints.
func WithIndicator(ind Indicator) Option {
	return func(c *Client) {
		c.indicator = ind
	}
}

// WithNotifier sets the sink for user-visible error messages. Defaults to
// logging them.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(log)
	}
}

// WithMetrics records exchanges in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerProvider sets the provider of the exchange spans. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithTransforms appends transforms after the built-in pipeline.
func WithTransforms(t ...Transform) Option {
	return func(c *Client) {
		c.extra = append(c.extra, t...)
	}
}

// New creates a Client with the given settings. An empty MockNamespace
// takes DefaultMockNamespace, and Settings reports the effective value.
func New(settings Settings, opts ...Option) *Client {
	if settings.MockNamespace == "" {
		settings.MockNamespace = DefaultMockNamespace
	}
	c := &Client{
		settings:  settings,
		http:      &http.Client{},
		policy:    policy.Disabled(),
		navigator: nopNavigator{},
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Log: c.log}
	}
	c.printer = i18n.Printer(settings.Language)
	c.loading = newSharedLoading(c.indicator, c.log)
	c.outcomes = &Outcomes{
		InvalidCode:       settings.InvalidCode,
		NoPermissionCode:  settings.NoPermissionCode,
		LoginInterception: settings.LoginInterception,
		Session:           c.session,
		Navigator:         c.navigator,
		Notifier:          c.notifier,
		Printer:           c.printer,
		Log:               c.log,
	}

	c.transforms = append([]Transform{
		ResolveRoute(c.policy, settings.MockNamespace, c.log),
		MarkPassthrough(settings.Passthrough),
		InjectAuth(c.session, settings.TokenHeader, settings.TokenPrefix),
		StripBody(),
		EncodeBody(settings.ContentType),
		MarkSlow(settings.SlowEndpoints),
		TagRequestID(),
	}, c.extra...)
	return c
}

// Settings returns the client settings.
func (c *Client) Settings() Settings { return c.settings }

// Policy returns the mock policy.
func (c *Client) Policy() *policy.Policy { return c.policy }

// NewConfig returns a Config carrying the client defaults.
func (c *Client) NewConfig(method, u string, data any) *Config {
	return &Config{
		URL:        u,
		BaseURL:    c.settings.BaseURL,
		Method:     method,
		Header:     make(http.Header),
		Data:       data,
		Retry:      c.settings.Retry,
		RetryDelay: c.settings.RetryDelay,
	}
}

// Request sends a call built from the client defaults.
func (c *Client) Request(ctx context.Context, method, u string, data any) (*Envelope, error) {
	return c.Do(ctx, c.NewConfig(method, u, data))
}

// Get sends a GET with query parameters.
func (c *Client) Get(ctx context.Context, u string, params url.Values) (*Envelope, error) {
	cfg := c.NewConfig(http.MethodGet, u, nil)
	cfg.Params = params
	return c.Do(ctx, cfg)
}

// Post sends a POST with a body payload.
func (c *Client) Post(ctx context.Context, u string, data any) (*Envelope, error) {
	return c.Do(ctx, c.NewConfig(http.MethodPost, u, data))
}

// Prepare runs the client pipeline on cfg without dispatching it. cfg is
// left as the first dispatch would send it.
func (c *Client) Prepare(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return errors.New("request: nil config")
	}
	c.applyDefaults(cfg)
	return Prepare(ctx, cfg, c.transforms...)
}

// Do runs cfg through the pipeline and returns the success envelope
// unchanged. Failures are *ApplicationError, *TransportError or
// ErrEmptyBody.
func (c *Client) Do(ctx context.Context, cfg *Config) (*Envelope, error) {
	if cfg == nil {
		return nil, errors.New("request: nil config")
	}
	c.applyDefaults(cfg)
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "vab.request", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	env, err := c.exchange(ctx, cfg)

	span.SetAttributes(
		attribute.String("http.request.method", cfg.method()),
		attribute.String("url.path", cfg.URL),
		attribute.String("vab.route", string(cfg.Route)),
		attribute.Int("vab.retry_count", cfg.RetryCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.metrics.observe(string(cfg.Route), resultLabel(err), time.Since(start))
	return env, err
}

// applyDefaults fills the fields a caller left unset with the client
// settings, so hand-built Configs get the same retry budget as NewConfig.
func (c *Client) applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = c.settings.BaseURL
	}
	if cfg.Header == nil {
		cfg.Header = make(http.Header)
	}
	switch {
	case cfg.Retry == 0:
		cfg.Retry = c.settings.Retry
	case cfg.Retry < 0:
		cfg.Retry = NoRetry
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = c.settings.RetryDelay
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
}

func (c *Client) normalize(ctx context.Context, cfg *Config, body []byte) (*Envelope, error) {
	if c.log.Enabled(ctx, slog.LevelDebug) {
		c.log.DebugContext(ctx, "response received",
			"url", cfg.URL,
			"body", util.TruncateBody(string(c.redact(body)), logBodyLimit),
		)
	}

	env, err := ParseEnvelope(body)
	if err != nil {
		c.notify(i18n.EmptyBody)
		return nil, &emptyBodyError{url: cfg.URL}
	}
	ok, msg := Classify(env, c.settings.SuccessCodes)
	if ok {
		return env, nil
	}
	kind := c.outcomes.Apply(ctx, env.Code, msg)
	return nil, &ApplicationError{URL: cfg.URL, Code: env.Code, Msg: msg, Kind: kind}
}

// redact masks the session token a login response carries.
func (c *Client) redact(body []byte) []byte {
	if c.settings.TokenHeader == "" {
		return body
	}
	return logging.RedactJSON(body, "data."+c.settings.TokenHeader)
}

func (c *Client) notify(key string, args ...any) {
	c.notifier.Error(c.printer.Sprintf(key, args...))
}

func (cfg *Config) method() string {
	if cfg.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(cfg.Method)
}

type emptyBodyError struct {
	url string
}

func (e *emptyBodyError) Error() string { return "request " + e.url + ": " + ErrEmptyBody.Error() }
func (e *emptyBodyError) Unwrap() error { return ErrEmptyBody }

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return string(appErr.Kind)
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "transport_" + string(te.Kind)
	}
	if errors.Is(err, ErrEmptyBody) {
		return "empty_body"
	}
	return "error"
}
