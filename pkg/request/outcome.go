package request

import (
	"context"
	"log/slog"

	"golang.org/x/text/message"

	"github.com/xwz823/vue3-admin-better/internal/i18n"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
)

// PathNoPermission is the route shown after a permission failure.
const PathNoPermission = "/401"

// Outcomes maps non-success codes to their side effects.
type Outcomes struct {
	InvalidCode       Code
	NoPermissionCode  Code
	LoginInterception bool

	Session   Session
	Navigator Navigator
	Notifier  Notifier
	Printer   *message.Printer
	Log       *slog.Logger
}

// Apply performs the side effects for code and returns its classification.
//
// An invalid-session code notifies, invalidates the session and, with login
// interception on, reloads once. A no-permission code navigates to /401.
// Anything else notifies a generic backend error.
func (o *Outcomes) Apply(ctx context.Context, code Code, msg string) Outcome {
	log := logging.OrNop(o.Log)
	switch {
	case !code.IsZero() && code == o.InvalidCode:
		o.notify(o.message(code, msg))
		if o.Session != nil {
			o.Session.Invalidate()
		}
		if o.LoginInterception && o.Navigator != nil {
			if err := o.Navigator.Reload(); err != nil {
				log.WarnContext(ctx, "reload failed", "error", err)
			}
		}
		return OutcomeAuthInvalid
	case !code.IsZero() && code == o.NoPermissionCode:
		if o.Navigator != nil {
			if err := o.Navigator.NavigateTo(PathNoPermission); err != nil {
				log.WarnContext(ctx, "navigation failed", "path", PathNoPermission, "error", err)
			}
		}
		return OutcomePermissionDenied
	default:
		o.notify(o.message(code, msg))
		return OutcomeFailure
	}
}

func (o *Outcomes) message(code Code, msg string) string {
	if msg != "" {
		return msg
	}
	return o.sprintf(i18n.BackendCode, code.String())
}

func (o *Outcomes) sprintf(key string, args ...any) string {
	if o.Printer == nil {
		return i18n.Printer("en").Sprintf(key, args...)
	}
	return o.Printer.Sprintf(key, args...)
}

func (o *Outcomes) notify(msg string) {
	if o.Notifier != nil {
		o.Notifier.Error(msg)
	}
}
