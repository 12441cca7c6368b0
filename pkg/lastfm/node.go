package lastfm

import (
	"strconv"
	"strings"
)

// node is a decoded JSON object with typed accessors tolerant of the
// Last.fm habit of sending numbers and booleans as strings.
type node map[string]any

func (n node) has(key string) bool {
	v, ok := n[key]
	return ok && v != nil
}

// str returns the value at key rendered as a string. Numbers are
// formatted without a trailing ".0".
func (n node) str(key string) string {
	return scalarString(n[key])
}

func (n node) requireStr(typ, key string) (string, error) {
	if !n.has(key) {
		return "", missingField(typ, key)
	}
	return n.str(key), nil
}

// int returns the value at key as an int, or 0 when absent or unparseable.
func (n node) int(key string) int {
	i, _ := toInt(n[key])
	return i
}

func (n node) requireInt(typ, key string) (int, error) {
	if !n.has(key) {
		return 0, missingField(typ, key)
	}
	return n.int(key), nil
}

// bool accepts true/false, "1"/"0", "true"/"false" and numbers.
func (n node) bool(key string) bool {
	return toBool(n[key])
}

func (n node) child(key string) (node, bool) {
	obj, ok := n[key].(map[string]any)
	return node(obj), ok
}

func (n node) requireChild(typ, key string) (node, error) {
	c, ok := n.child(key)
	if !ok {
		return nil, missingField(typ, key)
	}
	return c, nil
}

// list returns the objects stored at key. A missing key yields an empty
// slice and a lone object is treated as a one-element list.
func (n node) list(key string) []node {
	switch v := n[key].(type) {
	case []any:
		out := make([]node, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, node(obj))
			}
		}
		return out
	case map[string]any:
		return []node{node(v)}
	default:
		return []node{}
	}
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return ""
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes":
			return true
		}
		return false
	default:
		return false
	}
}
