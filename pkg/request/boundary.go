package request

import (
	"log/slog"
	"net/http"
)

// Doer dispatches HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session is the token source of the pipeline. *session.Store satisfies it.
type Session interface {
	Read() string
	Invalidate()
}

// Navigator performs client-side navigation for outcome handling.
type Navigator interface {
	NavigateTo(path string) error
	Reload() error
}

// Indicator shows a blocking loading indicator.
type Indicator interface {
	Start() Handle
}

// Handle dismisses a started indicator.
type Handle interface {
	Dismiss() error
}

// Notifier surfaces user-visible error messages.
type Notifier interface {
	Error(msg string)
}

type nopNavigator struct{}

func (nopNavigator) NavigateTo(string) error { return nil }
func (nopNavigator) Reload() error           { return nil }

// LogNotifier writes notifications to a logger at error level.
type LogNotifier struct {
	Log *slog.Logger
}

// Error implements Notifier.
func (n LogNotifier) Error(msg string) {
	if n.Log != nil {
		n.Log.Error(msg)
	}
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Error implements Notifier.
func (f NotifierFunc) Error(msg string) { f(msg) }
