package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Level is a slog level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Redacted replaces secret values in log output.
const Redacted = "[REDACTED]"

var levels = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// Config configures New. The zero value logs text at Info to stderr.
type Config struct {
	Level     Level
	Format    Format
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns the settings used by the examples: text at Info on
// stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatText, Output: os.Stderr}
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrNop returns log, or Nop when log is nil.
func OrNop(log *slog.Logger) *slog.Logger {
	if log == nil {
		return Nop()
	}
	return log
}

// Component tags log with a component name.
func Component(log *slog.Logger, name string) *slog.Logger {
	return OrNop(log).With("component", name)
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level,
// ignoring case. Anything else is Info.
func ParseLevel(s string) Level {
	if l, ok := levels[strings.ToLower(s)]; ok {
		return l
	}
	return LevelInfo
}

// ParseFormat returns FormatJSON for "json" in any case, FormatText
// otherwise.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// RouteLevel is Info when the mock policy debug flag is on, Debug otherwise.
func RouteLevel(debug bool) Level {
	if debug {
		return LevelInfo
	}
	return LevelDebug
}

// Route logs one mock/real routing decision as "[route] url".
func Route(ctx context.Context, log *slog.Logger, debug bool, route, url string) {
	OrNop(log).Log(ctx, RouteLevel(debug), "["+route+"] "+url, "route", route, "url", url)
}

// RedactJSON returns body with the value at each gjson path replaced by
// Redacted. Paths that do not exist and bodies that are not JSON are left
// alone.
func RedactJSON(body []byte, paths ...string) []byte {
	if !gjson.ValidBytes(body) {
		return body
	}
	out := body
	for _, p := range paths {
		if !gjson.GetBytes(out, p).Exists() {
			continue
		}
		if redacted, err := sjson.SetBytes(out, p, Redacted); err == nil {
			out = redacted
		}
	}
	return out
}
