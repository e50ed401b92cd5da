// Package attrs provides schema-on-read access to the free-form attribute
// maps carried by registered entities (property details, franchise
// requirements, investment preferences). Callers name the keys they need per
// operation and get explicit missing-key errors instead of trusting map
// shape at every access point.
package attrs

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMissing marks a required attribute that is absent or of an unusable
// type. Callers treat it as insufficient input, not a system fault.
var ErrMissing = eris.New("attrs: required key missing")

// Map is a free-form attribute bag with typed accessors.
type Map map[string]any

// Str returns the string value for key.
func (m Map) Str(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StrOr returns the string value for key, or def when absent.
func (m Map) StrOr(key, def string) string {
	if s, ok := m.Str(key); ok && s != "" {
		return s
	}
	return def
}

// Float returns the numeric value for key, coercing numeric strings
// (including currency-formatted ones like "₹35,000" or "$12000").
func (m Map) Float(key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	return CoerceFloat(v)
}

// FloatOr returns the numeric value for key, or def when absent.
func (m Map) FloatOr(key string, def float64) float64 {
	if f, ok := m.Float(key); ok {
		return f
	}
	return def
}

// Int returns the integer value for key via Float coercion.
func (m Map) Int(key string) (int, bool) {
	f, ok := m.Float(key)
	return int(f), ok
}

// RequireFloat returns the numeric value for key or an ErrMissing-classed
// error naming the key.
func (m Map) RequireFloat(key string) (float64, error) {
	f, ok := m.Float(key)
	if !ok {
		return 0, eris.Wrapf(ErrMissing, "attrs: %q", key)
	}
	return f, nil
}

// Sub returns a nested map value for key.
func (m Map) Sub(key string) (Map, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		return Map(t), true
	case Map:
		return t, true
	}
	return nil, false
}

var numberRe = regexp.MustCompile(`-?[\d,]+(?:\.\d+)?`)

// CoerceFloat converts numbers in any of the shapes generative output and
// JSON decoding produce: float64, int, or a string with optional currency
// symbols and thousands separators.
func CoerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		match := numberRe.FindString(t)
		if match == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
