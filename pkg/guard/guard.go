// Package guard decides whether a navigation may proceed, loading the
// user's permissions on first access.
package guard

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/xwz823/vue3-admin-better/pkg/logging"
	"github.com/xwz823/vue3-admin-better/pkg/user"
)

// Authentication modes.
const (
	// AuthIntelligence filters routes by the user's permissions.
	AuthIntelligence = "intelligence"
	// AuthAll grants every route.
	AuthAll = "all"
)

// Default paths.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Users is the part of the user store the guard needs. *user.Store
// implements it.
type Users interface {
	HasToken() bool
	HasPermissions() bool
	Profile() user.Profile
	SetPermissions(perms []string)
	FetchUserInfo(ctx context.Context) ([]string, error)
	Reset()
}

// Route is a navigable path restricted to roles. A route without roles is
// open to every signed-in user.
type Route struct {
	Path  string   `json:"path" yaml:"path"`
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// Config holds the guard settings.
type Config struct {
	LoginInterception bool
	RoutesWhiteList   []string
	RecordRoute       bool
	Authentication    string
	// Routes are the permission-restricted routes.
	Routes []Route
}

// Decision is the outcome of a navigation.
type Decision struct {
	// Allow is true when navigation proceeds to the requested path.
	Allow bool `json:"allow"`
	// Redirect is the path to navigate to instead, when Allow is false.
	Redirect string `json:"redirect,omitempty"`
	// Replace is set when permissions were just loaded and the navigation
	// should be retried in place.
	Replace bool `json:"replace,omitempty"`
	// Routes are the routes accessible with the loaded permissions.
	Routes []string `json:"routes,omitempty"`
	// Err is the failure that caused a redirect to login.
	Err error `json:"-"`
}

// Guard evaluates navigations.
type Guard struct {
	cfg   Config
	users Users
	log   *slog.Logger
}

// New creates a Guard.
func New(cfg Config, users Users, log *slog.Logger) *Guard {
	if cfg.Authentication == "" {
		cfg.Authentication = AuthIntelligence
	}
	return &Guard{cfg: cfg, users: users, log: logging.Component(logging.OrNop(log), "guard")}
}

// Decide evaluates a navigation to the path to.
func (g *Guard) Decide(ctx context.Context, to string) Decision {
	path, _, _ := strings.Cut(to, "?")

	hasToken := g.users.HasToken() || !g.cfg.LoginInterception
	if !hasToken {
		if slices.Contains(g.cfg.RoutesWhiteList, path) {
			return Decision{Allow: true}
		}
		return Decision{Redirect: g.loginRedirect(path)}
	}

	if path == LoginPath {
		return Decision{Redirect: HomePath}
	}
	if g.users.HasPermissions() {
		return Decision{Allow: true, Routes: g.accessible(g.users.Profile().Permissions)}
	}

	var perms []string
	if !g.cfg.LoginInterception {
		perms = []string{"admin"}
		g.users.SetPermissions(perms)
	} else {
		var err error
		perms, err = g.users.FetchUserInfo(ctx)
		if err != nil {
			g.log.WarnContext(ctx, "failed to load permissions", "path", path, "error", err)
			g.users.Reset()
			return Decision{Redirect: LoginPath + "?redirect=" + path, Err: err}
		}
	}
	return Decision{Allow: true, Replace: true, Routes: g.accessible(perms)}
}

func (g *Guard) loginRedirect(path string) string {
	if g.cfg.RecordRoute {
		return LoginPath + "?redirect=" + path
	}
	return LoginPath
}

// accessible lists the routes reachable with perms.
func (g *Guard) accessible(perms []string) []string {
	var out []string
	for _, r := range g.cfg.Routes {
		if g.cfg.Authentication == AuthAll || CanAccess(r, perms) {
			out = append(out, r.Path)
		}
	}
	return out
}

// CanAccess reports whether perms grant r.
func CanAccess(r Route, perms []string) bool {
	if len(r.Roles) == 0 {
		return true
	}
	return slices.ContainsFunc(perms, func(p string) bool {
		return slices.Contains(r.Roles, p)
	})
}
