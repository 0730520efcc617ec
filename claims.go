package jokauth

import (
	"math"
	"strings"
)

// Claims is the decoded payload of a verified token.
//
// Claims values are created per request and must not be cached across requests.
type Claims map[string]any

// Lookup walks a dotted path ("jok.userId") through nested JSON objects.
func (c Claims) Lookup(path string) (any, bool) {
	if c == nil || path == "" {
		return nil, false
	}

	var cur any = map[string]any(c)
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path.
func (c Claims) String(path string) (string, bool) {
	v, ok := c.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns the strings at path. A single string is returned as a
// one-element list; non-string array elements are skipped.
func (c Claims) Strings(path string) []string {
	v, ok := c.Lookup(path)
	if !ok {
		return nil
	}

	switch vv := v.(type) {
	case string:
		if vv == "" {
			return nil
		}
		return []string{vv}
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func hasMarker(c Claims, field string, policy MarkerPolicy) bool {
	v, ok := c[field]
	if !ok {
		return false
	}

	switch policy {
	case MarkerNonEmptyObject:
		obj, ok := v.(map[string]any)
		return ok && len(obj) > 0
	default:
		return truthy(v)
	}
}

// truthy mirrors JSON truthiness: null, false, 0, NaN and "" are false;
// everything else, including empty objects and arrays, is true.
func truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case bool:
		return vv
	case float64:
		return vv != 0 && !math.IsNaN(vv)
	case string:
		return vv != ""
	default:
		return true
	}
}
