package request

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"github.com/xwz823/vue3-admin-better/internal/i18n"
)

// exchange drives one call from the first dispatch to a result. Transport
// failures are re-dispatched while RetryCount < Retry; application failures
// are never retried.
func (c *Client) exchange(ctx context.Context, cfg *Config) (*Envelope, error) {
	schedule := backoff.NewConstantBackOff(cfg.RetryDelay)
	for {
		if err := Prepare(ctx, cfg, c.transforms...); err != nil {
			return nil, err
		}

		body, err := c.dispatch(ctx, cfg)
		if err == nil {
			return c.normalize(ctx, cfg, body)
		}

		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return nil, &TransportError{URL: cfg.URL, Kind: TransportUnknown, Attempts: cfg.RetryCount + 1, Err: perm.Err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &TransportError{URL: cfg.URL, Kind: TransportUnknown, Attempts: cfg.RetryCount + 1, Err: ctxErr}
		}
		if cfg.RetryCount >= cfg.Retry {
			return nil, c.classify(ctx, cfg, err)
		}
		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			return nil, c.classify(ctx, cfg, err)
		}

		cfg.RetryCount++
		c.metrics.retried(string(cfg.Route))
		c.log.DebugContext(ctx, "retrying request",
			"url", cfg.URL,
			"attempt", cfg.RetryCount,
			"delay", wait,
			"error", err,
		)
		if err := sleep(ctx, wait); err != nil {
			return nil, &TransportError{URL: cfg.URL, Kind: TransportUnknown, Attempts: cfg.RetryCount, Err: err}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// dispatch sends one attempt and returns the body of a 2xx response.
// Non-2xx responses come back as *statusError.
func (c *Client) dispatch(ctx context.Context, cfg *Config) ([]byte, error) {
	if cfg.Slow {
		release := c.loading.acquire()
		defer release()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = c.settings.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	method := cfg.method()
	var reqBody io.Reader
	if len(cfg.body) > 0 && method != http.MethodGet && method != http.MethodHead {
		reqBody = bytes.NewReader(cfg.body)
	}
	req, err := http.NewRequestWithContext(ctx, method, cfg.FullURL(), reqBody)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if req.URL.Host == "" {
		return nil, backoff.Permanent(errors.New("request URL has no host: " + req.URL.String()))
	}
	req.Header = cfg.Header.Clone()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, body: data}
	}
	return data, nil
}

// classify turns the last transport failure into a *TransportError and
// raises the matching notification. A failing response with a body goes
// through the outcome mapping with its HTTP status as the code.
func (c *Client) classify(ctx context.Context, cfg *Config, err error) error {
	te := &TransportError{URL: cfg.URL, Attempts: cfg.RetryCount + 1, Err: err}

	var se *statusError
	switch {
	case errors.As(err, &se):
		te.Kind = TransportStatus
		te.Status = se.status
		if len(bytes.TrimSpace(se.body)) > 0 {
			te.Msg = se.Error()
			if msg := gjson.GetBytes(se.body, "msg"); msg.Type == gjson.String && msg.Str != "" {
				te.Msg = msg.Str
			}
			c.outcomes.Apply(ctx, CodeOf(se.status), te.Msg)
		} else {
			c.notify(i18n.BackendCode, se.status)
		}
	case isTimeout(err):
		te.Kind = TransportTimeout
		c.notify(i18n.Timeout)
	case isNetwork(err):
		te.Kind = TransportNetwork
		c.notify(i18n.Network)
	default:
		te.Kind = TransportUnknown
		c.notify(i18n.UnknownBackend)
	}

	c.log.WarnContext(ctx, "request failed",
		"url", cfg.URL,
		"kind", string(te.Kind),
		"attempts", te.Attempts,
		"error", err,
	)
	return te
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

func isNetwork(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET)
}
