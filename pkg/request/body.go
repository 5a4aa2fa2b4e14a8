package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// StripFalsy removes top-level fields whose value is "", false, 0 or null.
// Nested values are left alone. Maps, JSON objects (json.RawMessage or
// []byte), url.Values and structs are stripped; other payloads are returned
// unchanged. Structs come back as json.RawMessage.
func StripFalsy(data any) any {
	switch v := data.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if !isFalsy(val) {
				out[k] = val
			}
		}
		return out
	case json.RawMessage:
		return json.RawMessage(stripJSON(v))
	case []byte:
		if !gjson.ValidBytes(v) {
			return v
		}
		return stripJSON(v)
	case url.Values:
		out := make(url.Values, len(v))
		for k, vals := range v {
			if len(vals) == 0 || (len(vals) == 1 && vals[0] == "") {
				continue
			}
			out[k] = vals
		}
		return out
	case string:
		return v
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return data
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	return json.RawMessage(stripJSON(raw))
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func stripJSON(raw []byte) []byte {
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return raw
	}
	var drop []string
	doc.ForEach(func(key, value gjson.Result) bool {
		if jsonFalsy(value) {
			drop = append(drop, key.String())
		}
		return true
	})
	out := raw
	for _, key := range drop {
		next, err := sjson.DeleteBytes(out, escapePath(key))
		if err != nil {
			continue
		}
		out = next
	}
	return out
}

func jsonFalsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.String:
		return v.Str == ""
	case gjson.Number:
		return v.Num == 0
	}
	return false
}

// escapePath escapes a literal object key for use as a gjson/sjson path.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '(', ')', '[', ']', '{', '}', ',', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsForm reports whether contentType is application/x-www-form-urlencoded.
func IsForm(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// EncodeJSON serializes a payload as a JSON body. Byte and string payloads
// are sent as-is; url.Values are form encoded.
func EncodeJSON(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case url.Values:
		return []byte(v.Encode()), nil
	}
	return json.Marshal(data)
}

// EncodeForm serializes a payload as a query string. Nested objects and
// arrays use bracket keys: a[b]=c, list[0]=x.
func EncodeForm(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return []byte(v.Encode()), nil
	case string:
		return []byte(v), nil
	case []byte:
		if !gjson.ValidBytes(v) {
			return v, nil
		}
		return formFromJSON(v)
	case json.RawMessage:
		return formFromJSON(v)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode form body: %w", err)
	}
	return formFromJSON(raw)
}

func formFromJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("encode form body: %w", err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("encode form body: payload is not an object")
	}
	vals := url.Values{}
	appendForm(vals, "", obj)
	return []byte(vals.Encode()), nil
}

func appendForm(vals url.Values, prefix string, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name := k
			if prefix != "" {
				name = prefix + "[" + k + "]"
			}
			appendForm(vals, name, t[k])
		}
	case []any:
		for i, item := range t {
			appendForm(vals, prefix+"["+strconv.Itoa(i)+"]", item)
		}
	case nil:
		vals.Add(prefix, "")
	case string:
		vals.Add(prefix, t)
	case json.Number:
		vals.Add(prefix, t.String())
	case float64:
		vals.Add(prefix, strconv.FormatFloat(t, 'f', -1, 64))
	default:
		vals.Add(prefix, fmt.Sprint(t))
	}
}
