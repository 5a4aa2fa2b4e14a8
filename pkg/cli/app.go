package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/xwz823/vue3-admin-better/pkg/config"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
	"github.com/xwz823/vue3-admin-better/pkg/request"
	"github.com/xwz823/vue3-admin-better/pkg/session"
	"github.com/xwz823/vue3-admin-better/pkg/user"
	"github.com/xwz823/vue3-admin-better/pkg/util"
)

// app bundles what commands share once configuration is loaded.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	session *session.Store
	client  *request.Client
	users   *user.Store
	out     io.Writer
	errOut  io.Writer
	tel     *telemetry
}

// loadConfig merges every configuration layer. flags holds command flag
// values by dotted key and may be nil.
func loadConfig(flags map[string]any) (*config.Config, error) {
	if flags == nil {
		flags = map[string]any{}
	}
	if envName != "" {
		flags["mock.env"] = envName
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Load(config.LoadOptions{ConfigFile: configFile, Dir: wd, Flags: flags})
}

func newLogger(w io.Writer) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
		Output: w,
	})
}

// newApp loads configuration and wires the session, request client and
// user store.
func newApp(cmd *cobra.Command, flags map[string]any) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	log := newLogger(errOut)

	path := cfg.Settings.SessionFile
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return nil, fmt.Errorf("failed to locate session file: %w", err)
		}
	}
	sess := session.New(session.WithPersister(session.NewFileStore(path)), session.WithLogger(log))

	settings := cfg.RequestSettings()
	settings.BaseURL = resolveBaseURL(settings.BaseURL, cfg.MockServer.Port)
	notifier := request.NotifierFunc(func(msg string) {
		fmt.Fprintln(errOut, "!", msg)
	})

	tel, err := newTelemetry(errOut, withMetrics, withTrace)
	if err != nil {
		return nil, err
	}
	client := request.New(settings, append([]request.Option{
		request.WithPolicy(cfg.Policy()),
		request.WithSession(sess),
		request.WithNavigator(terminalNavigator{w: errOut}),
		request.WithIndicator(terminalIndicator{w: errOut}),
		request.WithNotifier(notifier),
		request.WithLogger(log),
		request.WithTransforms(userAgent("vab/" + buildVersion().Version)),
	}, tel.options()...)...)
	users := user.New(client, sess, user.Options{
		TokenName: cfg.Network.TokenName,
		Title:     cfg.Settings.Title,
		Language:  cfg.Network.Language,
		Notifier:  notifier,
		Log:       log,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		session: sess,
		client:  client,
		users:   users,
		out:     cmd.OutOrStdout(),
		errOut:  errOut,
		tel:     tel,
	}, nil
}

// close flushes the telemetry of the run. Failures are logged only.
func (a *app) close() {
	if err := a.tel.Close(); err != nil {
		a.log.Warn("failed to flush telemetry", "error", err)
	}
}

// resolveBaseURL anchors a path-only base URL on the local mock server,
// which is where the dev server would have served it from.
func resolveBaseURL(base string, port int) string {
	if util.IsAbsoluteURL(base) {
		return base
	}
	return util.JoinURL(fmt.Sprintf("http://localhost:%d", port), base)
}

// userAgent identifies CLI calls unless the caller set its own User-Agent.
func userAgent(ua string) request.Transform {
	return func(_ context.Context, cfg *request.Config) error {
		if cfg.Header == nil {
			cfg.Header = make(http.Header)
		}
		if cfg.Header.Get("User-Agent") == "" {
			cfg.Header.Set("User-Agent", ua)
		}
		return nil
	}
}

// terminalNavigator reports navigation requests instead of performing them.
type terminalNavigator struct {
	w io.Writer
}

func (n terminalNavigator) NavigateTo(path string) error {
	_, err := fmt.Fprintf(n.w, "-> %s\n", path)
	return err
}

func (n terminalNavigator) Reload() error {
	_, err := fmt.Fprintln(n.w, "-> session cleared, run: vab login")
	return err
}

// terminalIndicator prints a line while a slow call is in flight.
type terminalIndicator struct {
	w io.Writer
}

func (i terminalIndicator) Start() request.Handle {
	fmt.Fprintln(i.w, "loading...")
	return dismissFunc(func() error { return nil })
}

type dismissFunc func() error

func (f dismissFunc) Dismiss() error { return f() }
