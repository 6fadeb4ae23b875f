// Package safepath reads values out of untrusted JSON documents by dotted
// path. Lookups never fail loudly: a missing segment, a null, or a segment
// that indexes into a scalar all resolve to "not found".
package safepath

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse wraps raw JSON as a lookup root. Invalid JSON yields a root on which
// every lookup misses.
func Parse(raw []byte) gjson.Result {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

// Lookup returns the value at path. Only a null or missing terminal value is
// reported as absent; 0, "" and false are returned as found.
func Lookup(root gjson.Result, path string) (gjson.Result, bool) {
	if path == "" {
		return root, root.Exists() && root.Type != gjson.Null
	}
	if !root.IsObject() && !root.IsArray() {
		return gjson.Result{}, false
	}
	v := root.Get(escapePath(path))
	if !v.Exists() || v.Type == gjson.Null {
		return gjson.Result{}, false
	}
	return v, true
}

// String returns the text at path, or fallback when it is absent or not a
// scalar.
func String(root gjson.Result, path, fallback string) string {
	if s := OptionalString(root, path); s != nil {
		return *s
	}
	return fallback
}

// OptionalString is String without a fallback: nil means absent.
func OptionalString(root gjson.Result, path string) *string {
	v, ok := Lookup(root, path)
	if !ok {
		return nil
	}
	switch v.Type {
	case gjson.String:
		s := v.Str
		return &s
	case gjson.Number:
		s := v.Raw
		return &s
	case gjson.True, gjson.False:
		s := v.String()
		return &s
	default:
		return nil
	}
}

// Float returns the number at path, or fallback.
func Float(root gjson.Result, path string, fallback float64) float64 {
	if f := OptionalFloat(root, path); f != nil {
		return *f
	}
	return fallback
}

// OptionalFloat returns the number at path. Numeric strings are accepted;
// anything else is absent.
func OptionalFloat(root gjson.Result, path string) *float64 {
	v, ok := Lookup(root, path)
	if !ok {
		return nil
	}
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Array returns the elements at path. A missing or non-array value yields
// an empty slice.
func Array(root gjson.Result, path string) []gjson.Result {
	v, ok := Lookup(root, path)
	if !ok || !v.IsArray() {
		return []gjson.Result{}
	}
	return v.Array()
}

// Object returns the object at path.
func Object(root gjson.Result, path string) (gjson.Result, bool) {
	v, ok := Lookup(root, path)
	if !ok || !v.IsObject() {
		return gjson.Result{}, false
	}
	return v, true
}

// escapePath keeps each dotted segment literal so keys containing gjson
// syntax characters are not interpreted as wildcards or modifiers.
func escapePath(path string) string {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = escapeSegment(seg)
	}
	return strings.Join(segments, ".")
}

func escapeSegment(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		switch r {
		case '\\', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '(', ')', '[', ']', '{', '}', ',', ':', '"', '~':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
