package mockserver

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of tokens minted by signToken.
const TokenTTL = 24 * time.Hour

// Evaluator compiles and runs case conditions and data expressions.
// Programs are cached by source text; the environment always has the same
// shape so one compilation serves every request.
type Evaluator struct {
	secret []byte
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewEvaluator returns an evaluator whose signToken and verifyToken use an
// HMAC secret.
func NewEvaluator(secret string) *Evaluator {
	return &Evaluator{
		secret: []byte(secret),
		now:    time.Now,
		cache:  make(map[string]*vm.Program),
	}
}

// Env is the request view exposed to expressions.
type Env struct {
	Body    map[string]any
	Query   map[string]any
	Headers map[string]any
	Method  string
	Path    string
}

func (env Env) vars() map[string]any {
	return map[string]any{
		"body":    orEmpty(env.Body),
		"query":   orEmpty(env.Query),
		"headers": orEmpty(env.Headers),
		"method":  env.Method,
		"path":    env.Path,
	}
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func (e *Evaluator) compile(expression string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(expression, e.options(Env{}.vars())...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	e.mu.Lock()
	e.cache[expression] = program
	e.mu.Unlock()
	return program, nil
}

func (e *Evaluator) options(env map[string]any) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.Function("signToken", func(params ...any) (any, error) {
			return e.SignToken(params[0].(string))
		}, new(func(string) string)),
		expr.Function("verifyToken", func(params ...any) (any, error) {
			return e.VerifyToken(params[0].(string)), nil
		}, new(func(string) string)),
		expr.Function("pick", func(params ...any) (any, error) {
			list := params[0].([]any)
			if len(list) == 0 {
				return nil, nil
			}
			return list[rand.IntN(len(list))], nil
		}, new(func([]any) any)),
	}
}

// Eval runs expression against env.
func (e *Evaluator) Eval(expression string, env Env) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, env.vars())
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", expression, err)
	}
	return out, nil
}

// Match runs a condition. Non-boolean results are an error.
func (e *Evaluator) Match(condition string, env Env) (bool, error) {
	out, err := e.Eval(condition, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q returned %T, want bool", condition, out)
	}
	return b, nil
}

// Precompile compiles every expression in defs so that syntax errors
// surface at startup.
func (e *Evaluator) Precompile(defs []Definition) error {
	for _, d := range defs {
		exprs := []string{d.DataExpr}
		for _, c := range d.Cases {
			exprs = append(exprs, c.When, c.DataExpr)
		}
		for _, x := range exprs {
			if x == "" {
				continue
			}
			if _, err := e.compile(x); err != nil {
				return fmt.Errorf("%s %s: %w", d.Source, d.Key(), err)
			}
		}
	}
	return nil
}

// SignToken mints an HS256 token for subject.
func (e *Evaluator) SignToken(subject string) (string, error) {
	now := e.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
}

// VerifyToken returns the subject of a valid token, or "" when the token
// is malformed, expired or signed with another secret.
func (e *Evaluator) VerifyToken(token string) string {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return e.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(e.now))
	if err != nil || !parsed.Valid {
		return ""
	}
	return claims.Subject
}
