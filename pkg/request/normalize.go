package request

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// DefaultMsg is the message used when an envelope carries none.
const DefaultMsg = "unknown error"

// ParseEnvelope extracts code, msg and data from a response body. The body
// is kept verbatim in Raw. A missing code leaves Code zero; a missing msg
// leaves Msg empty. An absent or null body yields ErrEmptyBody.
func ParseEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, ErrEmptyBody
	}

	env := &Envelope{Raw: body}
	if !gjson.ValidBytes(trimmed) {
		return env, nil
	}
	doc := gjson.ParseBytes(trimmed)
	if !doc.IsObject() {
		return env, nil
	}

	switch code := doc.Get("code"); code.Type {
	case gjson.Number:
		env.Code = CodeOf(code.Num)
	case gjson.String:
		env.Code = Code(code.Str)
	}
	if msg := doc.Get("msg"); msg.Exists() && msg.Type != gjson.Null {
		env.Msg = msg.String()
	}
	if data := doc.Get("data"); data.Exists() {
		env.Data = json.RawMessage(data.Raw)
	}
	return env, nil
}

// Classify reports whether env is a success envelope for the given set, and
// the message to surface otherwise.
func Classify(env *Envelope, success CodeSet) (ok bool, msg string) {
	if success.Contains(env.Code) {
		return true, env.Msg
	}
	if env.Msg == "" {
		return false, DefaultMsg
	}
	return false, env.Msg
}
