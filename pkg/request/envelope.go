package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Code is an envelope status code. Codes arrive as JSON numbers or strings;
// both are kept in their textual form, so 200 and "200" are the same code.
// The zero value means "no code".
type Code string

// CodeOf converts an int, a string or a JSON number to a Code.
func CodeOf(v any) Code {
	switch t := v.(type) {
	case nil:
		return ""
	case Code:
		return t
	case string:
		return Code(t)
	case int:
		return Code(strconv.Itoa(t))
	case int64:
		return Code(strconv.FormatInt(t, 10))
	case float64:
		return Code(strconv.FormatFloat(t, 'f', -1, 64))
	case json.Number:
		return Code(t.String())
	default:
		return Code(fmt.Sprint(t))
	}
}

// IsZero reports whether the code is absent.
func (c Code) IsZero() bool { return c == "" }

// Int returns the numeric value of the code, if it has one.
func (c Code) Int() (int, bool) {
	n, err := strconv.Atoi(string(c))
	return n, err == nil
}

func (c Code) String() string {
	if c == "" {
		return "null"
	}
	return string(c)
}

// MarshalJSON writes numeric codes as numbers and the rest as strings.
func (c Code) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	if n, ok := c.Int(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON accepts a number, a string or null.
func (c *Code) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*c = Code(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("code must be a number or a string: %w", err)
	}
	*c = Code(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (c *Code) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: code must be a scalar", node.Line)
	}
	*c = Code(node.Value)
	return nil
}

// MarshalYAML writes numeric codes as numbers.
func (c Code) MarshalYAML() (interface{}, error) {
	if n, ok := c.Int(); ok {
		return n, nil
	}
	return string(c), nil
}

// CodeSet is the set of success codes. Configuration may give a single code
// or a list; a single code becomes a one-element set. Membership compares
// the textual form, so a configured 200 accepts both "code": 200 and
// "code": "200" in a response.
type CodeSet []Code

// Codes builds a CodeSet from ints or strings.
func Codes(values ...any) CodeSet {
	set := make(CodeSet, 0, len(values))
	for _, v := range values {
		set = append(set, CodeOf(v))
	}
	return set
}

// Contains reports whether c is a member. The absent code is never a member.
func (s CodeSet) Contains(c Code) bool {
	if c.IsZero() {
		return false
	}
	for _, member := range s {
		if member == c {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *CodeSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = CodeSet{Code(node.Value)}
		return nil
	case yaml.SequenceNode:
		set := make(CodeSet, 0, len(node.Content))
		for _, item := range node.Content {
			var c Code
			if err := c.UnmarshalYAML(item); err != nil {
				return err
			}
			set = append(set, c)
		}
		*s = set
		return nil
	default:
		return fmt.Errorf("line %d: success code must be a scalar or a list", node.Line)
	}
}

// UnmarshalJSON accepts a single code or an array of codes.
func (s *CodeSet) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []Code
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = CodeSet(list)
		return nil
	}
	var c Code
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = CodeSet{c}
	return nil
}

// Envelope is the {code, msg, data} wrapper every backend response carries.
type Envelope struct {
	Code Code            `json:"code"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`

	// Raw is the full response body exactly as received.
	Raw []byte `json:"-"`
}

// ErrNoData is returned by Decode when the envelope has no data field.
var ErrNoData = errors.New("envelope has no data")

// Decode unmarshals the data field into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return ErrNoData
	}
	return json.Unmarshal(e.Data, v)
}
