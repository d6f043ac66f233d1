package apierror

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// object is a JSON-like object that remembers key order. Objects decoded
// from a response body keep document order; objects built from Go maps use
// sorted keys so results stay deterministic.
type object struct {
	keys   []string
	values map[string]any
	raw    map[string]json.RawMessage
}

func objectFromJSON(data []byte) (*object, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	o := &object{values: map[string]any{}, raw: map[string]json.RawMessage{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, false
		}

		if _, seen := o.values[key]; !seen {
			o.keys = append(o.keys, key)
		}
		o.values[key] = v
		o.raw[key] = raw
	}
	return o, true
}

func objectFromMap(m map[string]any) *object {
	o := &object{values: m, keys: make([]string, 0, len(m))}
	for k := range m {
		o.keys = append(o.keys, k)
	}
	sort.Strings(o.keys)
	return o
}

func objectFromSlice(s []any) *object {
	o := &object{values: make(map[string]any, len(s)), keys: make([]string, 0, len(s))}
	for i, v := range s {
		k := strconv.Itoa(i)
		o.keys = append(o.keys, k)
		o.values[k] = v
	}
	return o
}

func (o *object) get(key string) any {
	if o == nil {
		return nil
	}
	return o.values[key]
}

func (o *object) has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// child returns the nested object stored under key. Lists are indexed by
// position.
func (o *object) child(key string) (*object, bool) {
	if o == nil {
		return nil, false
	}
	switch v := o.values[key].(type) {
	case map[string]any:
		if raw, ok := o.raw[key]; ok {
			return objectFromJSON(raw)
		}
		return objectFromMap(v), true
	case FieldErrors:
		return objectFromMap(map[string]any(v)), true
	case map[string]string:
		return objectFromMap(stringMap(v)), true
	case []any:
		return objectFromSlice(v), true
	case []string:
		return objectFromSlice(stringSlice(v)), true
	}
	return nil, false
}

// fieldErrors returns the value under key when it is an object.
func (o *object) fieldErrors(key string) FieldErrors {
	switch v := o.get(key).(type) {
	case map[string]any:
		return FieldErrors(v)
	case FieldErrors:
		return v
	case map[string]string:
		return FieldErrors(stringMap(v))
	}
	return nil
}

// asObject converts the map shapes Normalize accepts.
func asObject(v any) (*object, bool) {
	switch m := v.(type) {
	case map[string]any:
		return objectFromMap(m), true
	case FieldErrors:
		return objectFromMap(map[string]any(m)), true
	case map[string]string:
		return objectFromMap(stringMap(m)), true
	case json.RawMessage:
		return objectFromJSON(m)
	}
	return nil, false
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func stringSlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// truthy follows JSON-ish truthiness: nil, false, 0 and "" are false;
// objects and lists are true even when empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}
	return true
}

// or returns a when truthy, otherwise b.
func or(a, b any) any {
	if truthy(a) {
		return a
	}
	return b
}

func toInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case int32:
		return int(t)
	case float64:
		return int(t)
	case float32:
		return int(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			return i
		}
	}
	return 0
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	return ""
}

func firstMessage(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		if len(t) > 0 {
			s, ok := t[0].(string)
			return s, ok
		}
	case []string:
		if len(t) > 0 {
			return t[0], true
		}
	}
	return "", false
}
