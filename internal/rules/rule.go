package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the variant of a Rule.
type Kind int

// Rule kinds.
const (
	KindExact Kind = iota
	KindWildcard
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindWildcard:
		return "wildcard"
	case KindPattern:
		return "regex"
	default:
		return "unknown"
	}
}

// Rule is a single immutable match rule.
type Rule struct {
	kind Kind
	raw  string
	re   *regexp.Regexp
}

// Exact returns a literal rule. It matches a URL equal to s or starting with s.
func Exact(s string) Rule {
	return Rule{kind: KindExact, raw: s}
}

// Wildcard compiles a "*" pattern into an anchored rule.
func Wildcard(s string) (Rule, error) {
	parts := strings.Split(s, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	re, err := regexp.Compile("^" + strings.Join(parts, ".*") + "$")
	if err != nil {
		return Rule{}, fmt.Errorf("wildcard rule %q: %w", s, err)
	}
	return Rule{kind: KindWildcard, raw: s, re: re}, nil
}

// Pattern compiles a regular expression rule.
func Pattern(expr string) (Rule, error) {
	if expr == "" {
		return Rule{}, errors.New("regex rule is empty")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("regex rule %q: %w", expr, err)
	}
	return Rule{kind: KindPattern, raw: expr, re: re}, nil
}

// MustPattern is like Pattern but panics on an invalid expression.
func MustPattern(expr string) Rule {
	r, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse turns a plain string into an Exact or Wildcard rule.
func Parse(s string) (Rule, error) {
	if s == "" {
		return Rule{}, errors.New("rule is empty")
	}
	if strings.Contains(s, "*") {
		return Wildcard(s)
	}
	return Exact(s), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static defaults.
func MustParse(s string) Rule {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the variant of the rule.
func (r Rule) Kind() Kind { return r.kind }

// String returns the rule as written in configuration.
func (r Rule) String() string { return r.raw }

// Match reports whether url satisfies the rule.
func (r Rule) Match(url string) bool {
	switch r.kind {
	case KindPattern, KindWildcard:
		if r.re == nil {
			return false
		}
		return r.re.MatchString(url)
	default:
		if r.raw == "" {
			return false
		}
		return url == r.raw || strings.HasPrefix(url, r.raw)
	}
}

type regexForm struct {
	Regex string `yaml:"regex" json:"regex"`
}

// UnmarshalYAML accepts a scalar (exact or wildcard) or a {regex: ...} mapping.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = parsed
		return nil
	case yaml.MappingNode:
		var f regexForm
		if err := node.Decode(&f); err != nil {
			return err
		}
		parsed, err := Pattern(f.Regex)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = parsed
		return nil
	default:
		return fmt.Errorf("line %d: rule must be a string or a {regex: ...} mapping", node.Line)
	}
}

// MarshalYAML writes the rule back in the form UnmarshalYAML accepts.
func (r Rule) MarshalYAML() (interface{}, error) {
	if r.kind == KindPattern {
		return regexForm{Regex: r.raw}, nil
	}
	return r.raw, nil
}

// UnmarshalJSON accepts a string (exact or wildcard) or a {"regex": ...} object.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	var f regexForm
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.New("rule must be a string or a {\"regex\": ...} object")
	}
	parsed, err := Pattern(f.Regex)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON writes the rule back in the form UnmarshalJSON accepts.
func (r Rule) MarshalJSON() ([]byte, error) {
	if r.kind == KindPattern {
		return json.Marshal(regexForm{Regex: r.raw})
	}
	return json.Marshal(r.raw)
}
