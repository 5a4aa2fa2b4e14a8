package request

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/xwz823/vue3-admin-better/internal/policy"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
	"github.com/xwz823/vue3-admin-better/pkg/util"
)

// HeaderRequestID carries the exchange id. It is kept across re-dispatches.
const HeaderRequestID = "X-Request-ID"

// Transform is one step of the request pipeline. Transforms run in order on
// every dispatch, including re-dispatches after a retry, so each must be
// idempotent.
type Transform func(ctx context.Context, cfg *Config) error

// ResolveRoute chooses the destination of the call. Force markers win over
// the policy. Real calls lose the mock namespace segment of their URL and
// get the policy's real base address; mock calls are left untouched.
// The decision is made on the first dispatch and kept afterwards.
func ResolveRoute(p *policy.Policy, namespace string, log *slog.Logger) Transform {
	return func(ctx context.Context, cfg *Config) error {
		force := cfg.Force
		if force == ForceNone {
			force = ForceFromHeader(cfg.Header)
		}
		clearMarkers(cfg.Header)
		if cfg.Route != "" {
			return nil
		}

		full := EvaluationURL(cfg)
		cfg.Route = p.Resolve(force, full, util.StripOrigin(full))
		if cfg.Route == policy.RouteReal {
			if namespace != "" && strings.Contains(cfg.URL, namespace) {
				cfg.URL = strings.Replace(cfg.URL, namespace, "/", 1)
			}
			cfg.BaseURL = p.RealBaseURL()
		}
		logging.Route(ctx, log, p != nil && p.Debug, string(cfg.Route), util.JoinURL(cfg.BaseURL, cfg.URL))
		return nil
	}
}

// EvaluationURL returns the address the mock policy is evaluated against:
// BaseURL joined with URL, or URL itself when it is absolute. Rules written
// as paths are also tried against the address without scheme and host.
func EvaluationURL(cfg *Config) string {
	return util.JoinURL(cfg.BaseURL, cfg.URL)
}

// MarkPassthrough flags calls whose URL starts with one of prefixes.
func MarkPassthrough(prefixes []string) Transform {
	return func(_ context.Context, cfg *Config) error {
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(cfg.URL, prefix) {
				cfg.Passthrough = true
				break
			}
		}
		return nil
	}
}

// InjectAuth sets header to prefix+token when the session holds a token.
func InjectAuth(s Session, header, prefix string) Transform {
	return func(_ context.Context, cfg *Config) error {
		if cfg.Passthrough || s == nil || header == "" {
			return nil
		}
		token := s.Read()
		if token == "" {
			return nil
		}
		cfg.Header.Set(header, prefix+token)
		return nil
	}
}

// StripBody removes falsy top-level fields from the payload.
func StripBody() Transform {
	return func(_ context.Context, cfg *Config) error {
		if cfg.Passthrough {
			return nil
		}
		cfg.Data = StripFalsy(cfg.Data)
		return nil
	}
}

// EncodeBody serializes the payload according to the call's Content-Type,
// defaulting it to contentType. Passthrough calls are always JSON encoded.
func EncodeBody(contentType string) Transform {
	return func(_ context.Context, cfg *Config) error {
		if cfg.Data == nil {
			cfg.body = nil
			return nil
		}
		if cfg.ContentType() == "" && contentType != "" {
			cfg.Header.Set("Content-Type", contentType)
		}

		var (
			body []byte
			err  error
		)
		if !cfg.Passthrough && IsForm(cfg.ContentType()) {
			body, err = EncodeForm(cfg.Data)
		} else {
			body, err = EncodeJSON(cfg.Data)
		}
		if err != nil {
			return fmt.Errorf("request %s: %w", cfg.URL, err)
		}
		cfg.body = body
		return nil
	}
}

// MarkSlow flags calls whose URL contains one of endpoints.
func MarkSlow(endpoints []string) Transform {
	return func(_ context.Context, cfg *Config) error {
		for _, e := range endpoints {
			if e != "" && strings.Contains(cfg.URL, e) {
				cfg.Slow = true
				break
			}
		}
		return nil
	}
}

// TagRequestID assigns an X-Request-ID to the exchange.
func TagRequestID() Transform {
	return func(_ context.Context, cfg *Config) error {
		if cfg.Header.Get(HeaderRequestID) == "" {
			cfg.Header.Set(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

// Prepare runs transforms over cfg in order.
func Prepare(ctx context.Context, cfg *Config, transforms ...Transform) error {
	if cfg.Header == nil {
		cfg.Header = make(http.Header)
	}
	for _, t := range transforms {
		if err := t(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}
