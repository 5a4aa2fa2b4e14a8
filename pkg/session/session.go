// Package session holds the access token used to authenticate outgoing
// requests.
//
// The request pipeline reads the token once per request and invalidates it
// when the backend reports an invalid session. A Store may be persisted with
// a FileStore so the CLI keeps its login between invocations.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/xwz823/vue3-admin-better/pkg/logging"
)

// ErrNoToken is returned by Token when the session holds no valid token.
var ErrNoToken = errors.New("session: no access token")

// Persister stores a token outside the process.
type Persister interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
	Clear() error
}

// Store is a concurrency-safe holder of the current access token.
// Readers must tolerate the token disappearing between two calls.
type Store struct {
	mu    sync.RWMutex
	token *oauth2.Token

	// writeMu orders state changes together with their persistence, so the
	// persisted token always matches the last change in memory.
	writeMu sync.Mutex
	persist Persister
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPersister loads the token from p and writes every change back to it.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persist = p
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = logging.OrNop(log)
	}
}

// New creates a Store. When a persister is configured its token is loaded.
func New(opts ...Option) *Store {
	s := &Store{log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.persist != nil {
		tok, err := s.persist.Load()
		if err != nil {
			s.log.Warn("failed to load persisted session", "error", err)
		} else {
			s.token = tok
		}
	}
	return s
}

// Read returns the current access token, or "" when there is none or it has
// expired.
func (s *Store) Read() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.token.Valid() {
		return ""
	}
	return s.token.AccessToken
}

// HasToken reports whether Read would return a token.
func (s *Store) HasToken() bool {
	return s.Read() != ""
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.token.Valid() {
		return nil, ErrNoToken
	}
	tok := *s.token
	return &tok, nil
}

// Set stores a new access token. If the token is a JWT carrying an "exp"
// claim, the expiry is recorded so Read stops returning it once expired.
func (s *Store) Set(accessToken string) {
	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	if exp, ok := ExpiryOf(accessToken); ok {
		tok.Expiry = exp
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Save(tok); err != nil {
			s.log.Warn("failed to persist session", "error", err)
		}
	}
}

// Invalidate drops the current token.
func (s *Store) Invalidate() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.log.Warn("failed to clear persisted session", "error", err)
		}
	}
}

// ExpiryOf returns the "exp" claim of a JWT without verifying its signature.
// Opaque tokens report ok=false.
func ExpiryOf(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
