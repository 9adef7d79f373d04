package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Index documents round-trip through JSON, so numeric fields may arrive
// as float64 or json.Number and multi-valued fields as []any. The helpers
// below normalise them.

// Int64Value converts a scalar to int64.
func Int64Value(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint32:
		return int64(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// StringValue converts a scalar to string. Nil becomes "".
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// BoolValue converts a scalar to bool using loose truthiness: empty
// strings, "0" and "false" are false.
func BoolValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return truthy(t)
	case nil:
		return false
	default:
		n, ok := Int64Value(t)
		return ok && n != 0
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// Int64Values flattens a scalar or slice into a set of int64 values.
// Empty strings and unparsable entries are skipped. The result is
// sorted and deduplicated.
func Int64Values(v any) []int64 {
	var out []int64
	for _, item := range flatten(v) {
		if s, ok := item.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		if n, ok := Int64Value(item); ok {
			out = append(out, n)
		}
	}
	return uniqueInt64(out)
}

// StringValues flattens a scalar or slice into a set of strings.
// Empty strings are skipped. The result is sorted and deduplicated.
func StringValues(v any) []string {
	var out []string
	for _, item := range flatten(v) {
		if s := StringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return uniqueStrings(out)
}

func flatten(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case []int64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case []int:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	default:
		return []any{t}
	}
}

func uniqueInt64(in []int64) []int64 {
	if len(in) == 0 {
		return []int64{}
	}
	sort.Slice(in, func(i, j int) bool { return in[i] < in[j] })
	out := in[:1]
	for _, n := range in[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
