// Package user tracks the signed-in user: login, profile and permission
// loading, and logout.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"golang.org/x/text/message"

	"github.com/xwz823/vue3-admin-better/internal/i18n"
	"github.com/xwz823/vue3-admin-better/pkg/logging"
	"github.com/xwz823/vue3-admin-better/pkg/request"
	"github.com/xwz823/vue3-admin-better/pkg/session"
)

// Errors returned by Store operations.
var (
	ErrNoToken         = errors.New("user: login response carried no token")
	ErrVerifyFailed    = errors.New("user: user info response carried no data")
	ErrInvalidUserInfo = errors.New("user: user info response is malformed")
)

// Poster sends a POST through the request pipeline. *request.Client
// implements it.
type Poster interface {
	Post(ctx context.Context, url string, data any) (*request.Envelope, error)
}

// Paths are the backend endpoints, relative to the client base URL.
type Paths struct {
	Login    string
	UserInfo string
	Logout   string
}

// DefaultPaths returns the endpoints served by the bundled mock controller.
func DefaultPaths() Paths {
	return Paths{Login: "/login", UserInfo: "/userInfo", Logout: "/logout"}
}

// Fields are JSONPath expressions locating profile values in a user info
// response.
type Fields struct {
	Username    string
	Avatar      string
	Permissions string
}

// DefaultFields returns the paths of the {permissions, username, avatar}
// payload.
func DefaultFields() Fields {
	return Fields{
		Username:    "$.data.username",
		Avatar:      "$.data.avatar",
		Permissions: "$.data.permissions",
	}
}

// Profile is the signed-in user.
type Profile struct {
	Username    string   `json:"username"`
	Avatar      string   `json:"avatar,omitempty"`
	Permissions []string `json:"permissions"`
}

// Options configures a Store.
type Options struct {
	// TokenName is the token field in the login response and the user
	// info request. Defaults to request.DefaultTokenHeader.
	TokenName string
	// Title appears in the welcome message.
	Title    string
	Language string
	Paths    Paths
	Fields   Fields
	Notifier request.Notifier
	Log      *slog.Logger
}

// Store holds the signed-in user's profile. The access token itself lives
// in the session store.
type Store struct {
	client   Poster
	session  *session.Store
	opts     Options
	printer  *message.Printer
	notifier request.Notifier
	log      *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	profile Profile
}

// New creates a Store.
func New(client Poster, sess *session.Store, opts Options) *Store {
	if opts.TokenName == "" {
		opts.TokenName = request.DefaultTokenHeader
	}
	if opts.Paths == (Paths{}) {
		opts.Paths = DefaultPaths()
	}
	if opts.Fields == (Fields{}) {
		opts.Fields = DefaultFields()
	}
	log := logging.Component(logging.OrNop(opts.Log), "user")
	notifier := opts.Notifier
	if notifier == nil {
		notifier = request.LogNotifier{Log: log}
	}
	return &Store{
		client:   client,
		session:  sess,
		opts:     opts,
		printer:  i18n.Printer(opts.Language),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Login exchanges credentials for an access token and stores it. It
// returns the welcome message.
func (s *Store) Login(ctx context.Context, username, password string) (string, error) {
	env, err := s.client.Post(ctx, s.opts.Paths.Login, map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	token, _ := s.extract(env, "$.data."+s.opts.TokenName).(string)
	if token == "" {
		s.notifier.Error(s.printer.Sprintf(i18n.LoginNoToken, s.opts.TokenName))
		return "", ErrNoToken
	}
	s.session.Set(token)
	s.log.InfoContext(ctx, "logged in", "username", username)

	greeting := s.printer.Sprintf(i18n.Greeting(s.now().Hour()))
	return s.printer.Sprintf(i18n.LoginWelcome, s.opts.Title, greeting), nil
}

// FetchUserInfo loads the profile of the current session and returns its
// permissions.
func (s *Store) FetchUserInfo(ctx context.Context) ([]string, error) {
	env, err := s.client.Post(ctx, s.opts.Paths.UserInfo, map[string]any{
		s.opts.TokenName: s.session.Read(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		s.notifier.Error(s.printer.Sprintf(i18n.VerifyFailed))
		return nil, ErrVerifyFailed
	}

	username, _ := s.extract(env, s.opts.Fields.Username).(string)
	avatar, _ := s.extract(env, s.opts.Fields.Avatar).(string)
	rawPerms, isList := s.extract(env, s.opts.Fields.Permissions).([]any)
	if username == "" || !isList {
		s.notifier.Error(s.printer.Sprintf(i18n.UserInfoInvalid))
		return nil, ErrInvalidUserInfo
	}
	perms := make([]string, 0, len(rawPerms))
	for _, p := range rawPerms {
		if v, ok := p.(string); ok {
			perms = append(perms, v)
		}
	}

	s.mu.Lock()
	s.profile = Profile{Username: username, Avatar: avatar, Permissions: perms}
	s.mu.Unlock()
	return slices.Clone(perms), nil
}

// Logout tells the backend and then drops the local session. A failed
// backend call leaves the session in place.
func (s *Store) Logout(ctx context.Context) error {
	if _, err := s.client.Post(ctx, s.opts.Paths.Logout, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.Reset()
	return nil
}

// Reset clears the profile and the session token.
func (s *Store) Reset() {
	s.mu.Lock()
	s.profile = Profile{}
	s.mu.Unlock()
	s.session.Invalidate()
}

// HasToken reports whether the session holds a usable token.
func (s *Store) HasToken() bool {
	return s.session.HasToken()
}

// HasPermissions reports whether permissions have been loaded.
func (s *Store) HasPermissions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profile.Permissions) > 0
}

// SetPermissions replaces the loaded permissions.
func (s *Store) SetPermissions(perms []string) {
	s.mu.Lock()
	s.profile.Permissions = slices.Clone(perms)
	s.mu.Unlock()
}

// Profile returns a copy of the loaded profile.
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.profile
	p.Permissions = slices.Clone(p.Permissions)
	return p
}

// HasPermission reports whether the user holds any of values. No values
// means no permission.
func (s *Store) HasPermission(values ...string) bool {
	if len(values) == 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.profile.Permissions, func(p string) bool {
		return slices.Contains(values, p)
	})
}

// extract returns the first value at path in the raw response, or nil.
func (s *Store) extract(env *request.Envelope, path string) any {
	if env == nil || len(env.Raw) == 0 || path == "" {
		return nil
	}
	doc, err := oj.Parse(env.Raw)
	if err != nil {
		s.log.Debug("response is not JSON", "error", err)
		return nil
	}
	x, err := jp.ParseString(path)
	if err != nil {
		s.log.Warn("invalid JSONPath", "path", path, "error", err)
		return nil
	}
	return x.First(doc)
}
