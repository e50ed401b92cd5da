// Package extract recovers structured JSON values from free-text generative
// model output. Completions are expected, but not guaranteed, to contain a
// JSON object or array; a fixed sequence of textual repairs is applied
// before each parse attempt.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind is the expected top-level JSON value.
type Kind int

const (
	// Object expects a {...} value.
	Object Kind = iota
	// Array expects a [...] value.
	Array
)

// ErrNoStructure marks input from which no JSON value of the expected kind
// could be recovered after all repair stages. It is distinct from a valid
// empty result; callers pick their own fallback (deterministic synthetic
// result or empty collection).
var ErrNoStructure = eris.New("extract: no parseable structure found")

var (
	fenceRe        = regexp.MustCompile("```(?:json)?")
	bareKeyRe      = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_ ]*?)\s*:`)
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
	wordKeyRe      = regexp.MustCompile(`([{,])\s*(\w+)\s*:`)
	bareWordValRe  = regexp.MustCompile(`:\s*([A-Za-z_][A-Za-z0-9_ .%/-]*?)\s*([,}\]])`)
	smartQuoteRepl = strings.NewReplacer(
		"“", `"`, "”", `"`, // curly double quotes
		"‘", "'", "’", "'", // curly single quotes
	)
)

// Decode extracts a JSON value of the expected kind from raw and unmarshals
// it into v. Each repair stage runs only if the previous attempt failed.
func Decode(raw string, kind Kind, v any) error {
	// Stage 1: strip markdown fences and normalize smart quotes.
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	cleaned = smartQuoteRepl.Replace(cleaned)

	// Stage 2: slice to the outermost brackets of the expected kind.
	sliced, ok := sliceBrackets(cleaned, kind)
	if !ok {
		return eris.Wrapf(ErrNoStructure, "no %s delimiters in input", kindName(kind))
	}

	if json.Unmarshal([]byte(sliced), v) == nil {
		return nil
	}

	// Stages 3-5: quote bare keys, normalize single-quoted strings, drop
	// trailing commas, then parse strictly.
	repaired := bareKeyRe.ReplaceAllString(sliced, `$1"$2":`)
	repaired = singleToDoubleQuotes(repaired)
	repaired = trailingComma.ReplaceAllString(repaired, "$1")
	if json.Unmarshal([]byte(repaired), v) == nil {
		return nil
	}

	// Stage 6: independent second pass quoting bare word keys and bare
	// word values, then one final parse.
	second := wordKeyRe.ReplaceAllString(repaired, `$1"$2":`)
	second = quoteBareValues(second)
	second = trailingComma.ReplaceAllString(second, "$1")
	if json.Unmarshal([]byte(second), v) == nil {
		return nil
	}

	return eris.Wrapf(ErrNoStructure, "all repair stages failed for %s", kindName(kind))
}

func kindName(kind Kind) string {
	if kind == Array {
		return "array"
	}
	return "object"
}

// sliceBrackets returns the substring between the first opening and last
// closing delimiter of the expected kind.
func sliceBrackets(s string, kind Kind) (string, bool) {
	open, closing := "{", "}"
	if kind == Array {
		open, closing = "[", "]"
	}
	start := strings.Index(s, open)
	end := strings.LastIndex(s, closing)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// singleToDoubleQuotes converts single-quoted string literals to
// double-quoted ones, leaving apostrophes inside double-quoted strings
// alone.
func singleToDoubleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			inDouble = !inDouble
			b.WriteByte(c)
		case '\'':
			if inDouble {
				b.WriteByte(c)
			} else {
				b.WriteByte('"')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// quoteBareValues wraps unquoted bare-word values in quotes, preserving
// JSON literals.
func quoteBareValues(s string) string {
	return bareWordValRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := bareWordValRe.FindStringSubmatch(m)
		word := sub[1]
		switch word {
		case "true", "false", "null":
			return m
		}
		return `: "` + word + `"` + sub[2]
	})
}
