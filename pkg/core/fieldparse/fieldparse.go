// Package fieldparse converts loosely-typed external payload values into typed
// local fields. None of the functions return errors: a value that cannot be
// interpreted degrades to a defined fallback.
package fieldparse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payload is one decoded external record
type Payload map[string]any

// dateLayouts are tried in order against the date portion of a value
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
}

// timestampLayouts are tried in order for remote modification times.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// DateOf returns the calendar date of t as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date-like value. Empty or unparseable input yields the
// date of now.
func ParseDate(value any, now time.Time) time.Time {
	date, _ := ParseDateStrict(value, now)
	return date
}

// ParseDateStrict is ParseDate that also reports whether the value was parsed
// (false means the date of now was substituted).
func ParseDateStrict(value any, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return DateOf(now), false
	}

	// Date-with-time values are truncated to their date portion
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return DateOf(parsed), true
		}
	}

	return DateOf(now), false
}

// ParseTimestamp parses a remote modification timestamp
func ParseTimestamp(value any) (time.Time, bool) {
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParsePersonList splits a comma-separated list of names
func ParsePersonList(value any) []string {
	s := stringify(value)
	names := []string{}
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ExtractGroup returns the fields of a named form group. It supports a nested
// object under the group name, flat "group/field" keys, and flat forms without
// groups (the whole payload is returned).
func ExtractGroup(payload Payload, group string) Payload {
	if nested, ok := payload[group].(map[string]any); ok && len(nested) > 0 {
		return Payload(nested)
	}
	if nested, ok := payload[group].(Payload); ok && len(nested) > 0 {
		return nested
	}

	prefix := group + "/"
	prefixed := Payload{}
	for key, value := range payload {
		if strings.HasPrefix(key, prefix) {
			prefixed[strings.TrimPrefix(key, prefix)] = value
		}
	}
	if len(prefixed) > 0 {
		return prefixed
	}

	return payload
}

// Leaves flattens nested groups and "group/field" keys into a map keyed by the
// last path segment. Top-level keys win over nested ones on collision.
func Leaves(payload Payload) Payload {
	leaves := Payload{}
	var walk func(p map[string]any, depth int)
	walk = func(p map[string]any, depth int) {
		for key, value := range p {
			if nested, ok := value.(map[string]any); ok {
				walk(nested, depth+1)
				continue
			}
			leaf := key
			if i := strings.LastIndex(key, "/"); i >= 0 {
				leaf = key[i+1:]
			}
			if _, exists := leaves[leaf]; exists && depth > 0 {
				continue
			}
			leaves[leaf] = value
		}
	}
	walk(payload, 0)
	return leaves
}

// String returns the value under key as a trimmed string
func String(p Payload, key string) (string, bool) {
	value, ok := p[key]
	if !ok || value == nil {
		return "", false
	}
	return strings.TrimSpace(stringify(value)), true
}

// Bool interprets yes/no style answers. Unknown values are absent.
func Bool(p Payload, key string) (bool, bool) {
	value, ok := p[key]
	if !ok || value == nil {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case json.Number:
		f, err := v.Float64()
		return f != 0, err == nil
	}

	switch strings.ToLower(strings.TrimSpace(stringify(value))) {
	case "yes", "ja", "true", "1", "y", "j", "on":
		return true, true
	case "no", "nee", "false", "0", "n", "off":
		return false, true
	}
	return false, false
}

// Int returns the value under key as an int
func Int(p Payload, key string) (int, bool) {
	f, ok := Float(p, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Float returns the value under key as a float64. A decimal comma is accepted.
func Float(p Payload, key string) (float64, bool) {
	value, ok := p[key]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	s := normalizeNumber(stringify(value))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Decimal returns the value under key as a decimal amount
func Decimal(p Payload, key string) (decimal.Decimal, bool) {
	value, ok := p[key]
	if !ok || value == nil {
		return decimal.Decimal{}, false
	}
	if f, isFloat := value.(float64); isFloat {
		return decimal.NewFromFloat(f), true
	}
	s := normalizeNumber(stringify(value))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Map returns a nested object under key
func Map(p Payload, key string) (Payload, bool) {
	switch v := p[key].(type) {
	case map[string]any:
		return Payload(v), true
	case Payload:
		return v, true
	}
	return nil, false
}

func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// stringify renders scalar JSON values without exponent notation for ids
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Stringify exposes the scalar rendering used for ids
func Stringify(value any) string {
	return stringify(value)
}
