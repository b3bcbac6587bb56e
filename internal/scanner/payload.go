package scanner

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NormalizePayload turns a scanned or typed code into the qrData value of
// the verify call.  A JSON object is forwarded as an object, a JSON string
// is unwrapped once and re-examined, anything else is sent as a plain
// string.  Telling the encodings apart is left to the platform.
func NormalizePayload(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyPayload
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err == nil {
			inner = strings.TrimSpace(inner)
			if inner == "" {
				return nil, ErrEmptyPayload
			}
			if obj, ok := asObject(inner); ok {
				return obj, nil
			}
			return json.Marshal(inner)
		}
	}
	if obj, ok := asObject(raw); ok {
		return obj, nil
	}
	return json.Marshal(raw)
}

// NormalizeJSON accepts qrData as it arrived in a JSON request body.
func NormalizeJSON(v json.RawMessage) (json.RawMessage, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil, ErrEmptyPayload
	}
	if v[0] == '{' {
		if obj, ok := asObject(string(v)); ok {
			return obj, nil
		}
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return NormalizePayload(s)
	}
	return NormalizePayload(string(v))
}

func asObject(s string) (json.RawMessage, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
