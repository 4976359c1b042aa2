// Package envelope turns the API's response bodies into canonical values.
//
// The API is inconsistent about wrapping: a list may arrive as a bare array,
// as {"data": [...]} or under a resource key such as {"categories": [...]};
// single records may be bare, under "data" or under their resource key. Key
// casing also varies ("CartItems", "Product"). Everything funnels through the
// helpers here so callers always see one shape.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var ErrUnexpectedShape = errors.New("unexpected payload shape")

const dataKey = "data"

func parse(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// lookup finds key in m, exact match first, then case-insensitively.
func lookup(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func findArray(v any, keys []string) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		if d, ok := lookup(t, dataKey); ok {
			switch inner := d.(type) {
			case []any:
				return inner
			case map[string]any:
				if arr := findKeyed(inner, keys); arr != nil {
					return arr
				}
			}
		}
		return findKeyed(t, keys)
	}
	return nil
}

func findKeyed(m map[string]any, keys []string) []any {
	for _, k := range keys {
		if arr, ok := lookupArray(m, k); ok {
			return arr
		}
	}
	return nil
}

func lookupArray(m map[string]any, key string) ([]any, bool) {
	v, ok := lookup(m, key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

func findObject(v any, keys []string) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if d, ok := lookup(m, dataKey); ok {
		if inner, ok := d.(map[string]any); ok {
			m = inner
		}
	}
	for _, k := range keys {
		if inner, ok := lookup(m, k); ok {
			if obj, ok := inner.(map[string]any); ok {
				return obj, true
			}
		}
	}
	return m, true
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return nil
}

// List returns the array carried by raw, or an empty non-nil slice when raw
// holds no recognisable array.
func List[T any](raw []byte, keys ...string) ([]T, error) {
	v, err := parse(raw)
	if err != nil {
		return []T{}, err
	}
	arr := findArray(v, keys)
	out := make([]T, 0, len(arr))
	if len(arr) == 0 {
		return out, nil
	}
	if err := decode(arr, &out); err != nil {
		return []T{}, err
	}
	return out, nil
}

// Object returns the single record carried by raw.
func Object[T any](raw []byte, keys ...string) (*T, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := findObject(v, keys)
	if !ok {
		return nil, ErrUnexpectedShape
	}
	var out T
	if err := decode(obj, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Empty reports whether raw carries no payload at all (204, blank or null).
func Empty(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
