package tp

import (
	"regexp"
	"strings"
)

// Operator is a comparison operator recognized by the filter compiler.
// The set is closed: every operator has exactly one wire token.
type Operator int

// Recognized operators.
const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpContains
	OpNotContains
	OpIsNull
	OpIsNotNull
)

// Token returns the operator's wire token in the Targetprocess grammar.
func (op Operator) Token() string {
	switch op {
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpIn:
		return "in"
	case OpContains:
		return "contains"
	case OpNotContains:
		return "not contains"
	case OpIsNull:
		return "is null"
	case OpIsNotNull:
		return "is not null"
	default:
		return ""
	}
}

const customFieldPrefix = "custom."

var (
	// Ordering matters: longer tokens first so "gte" is not read as "gt",
	// and "not contains" is not read as a bare field.
	conditionPattern = regexp.MustCompile(`(?i)^(.+?)\s+(not\s+contains|contains|gte|lte|eq|ne|gt|lt|in)\s+(.+)$`)
	isNullPattern    = regexp.MustCompile(`(?i)^(.+?)\s+is\s+null$`)
	isNotNullPattern = regexp.MustCompile(`(?i)^(.+?)\s+is\s+not\s+null$`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// CompileWhere translates the simplified filter language into the
// Targetprocess where-clause grammar. The input is an AND-only conjunction
// of conditions; grouped or OR logic must be pre-embedded by the caller
// inside a single condition's value, which the compiler passes through as a
// string literal without further parsing.
//
// Splitting respects quoted spans: an "and" token inside single or double
// quotes is never treated as a separator.
func CompileWhere(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ValidationError{Fragment: raw, Reason: "where clause is empty"}
	}

	segments := splitConditions(raw)

	compiled := make([]string, 0, len(segments))

	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		condition, err := compileCondition(segment)
		if err != nil {
			return "", err
		}

		compiled = append(compiled, condition)
	}

	if len(compiled) == 0 {
		return "", &ValidationError{Fragment: raw, Reason: "where clause is empty"}
	}

	return strings.Join(compiled, " and "), nil
}

// splitConditions scans left to right and splits on the word "and"
// (case-insensitive, whitespace-delimited) outside quoted spans. A quote
// immediately preceded by a backslash does not open or close a span.
func splitConditions(raw string) []string {
	var (
		segments []string
		current  strings.Builder
		inSingle bool
		inDouble bool
	)

	runes := []rune(raw)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		escaped := i > 0 && runes[i-1] == '\\'

		switch {
		case ch == '\'' && !inDouble && !escaped:
			inSingle = !inSingle
		case ch == '"' && !inSingle && !escaped:
			inDouble = !inDouble
		}

		if !inSingle && !inDouble && isAndToken(runes, i) {
			segments = append(segments, current.String())
			current.Reset()

			i += 2 // skip the remaining "nd"

			continue
		}

		current.WriteRune(ch)
	}

	segments = append(segments, current.String())

	return segments
}

// isAndToken reports whether the word "and" starts at position i, delimited
// by whitespace on both sides.
func isAndToken(runes []rune, i int) bool {
	if i == 0 || i+3 > len(runes) {
		return false
	}

	if !isSpace(runes[i-1]) {
		return false
	}

	word := strings.ToLower(string(runes[i : i+3]))
	if word != "and" {
		return false
	}

	return i+3 == len(runes) || isSpace(runes[i+3])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// compileCondition compiles one trimmed condition segment.
func compileCondition(segment string) (string, error) {
	if match := isNotNullPattern.FindStringSubmatch(segment); match != nil {
		return NormalizeFieldName(match[1]) + " " + OpIsNotNull.Token(), nil
	}

	if match := isNullPattern.FindStringSubmatch(segment); match != nil {
		return NormalizeFieldName(match[1]) + " " + OpIsNull.Token(), nil
	}

	match := conditionPattern.FindStringSubmatch(segment)
	if match == nil {
		return "", &ValidationError{Fragment: segment, Reason: "expected '<field> <operator> <value>'"}
	}

	field := NormalizeFieldName(match[1])
	operator := normalizeOperatorToken(match[2])

	// Values are always formatted as string literals at this stage, even
	// when they look numeric. The remote grammar accepts quoted numerics,
	// and changing this would alter which queries it accepts.
	value := FormatLiteral(strings.TrimSpace(match[3]))

	return field + " " + operator + " " + value, nil
}

// normalizeOperatorToken lowercases the matched operator and collapses the
// internal whitespace of the two-word "not contains" token.
func normalizeOperatorToken(token string) string {
	return whitespace.ReplaceAllString(strings.ToLower(token), " ")
}

// NormalizeFieldName rewrites a raw field path into its wire form: all
// whitespace is stripped, the custom-field prefix is rewritten to the
// remote "cf_" convention, and the result is lowercased.
func NormalizeFieldName(field string) string {
	field = whitespace.ReplaceAllString(field, "")
	field = strings.ToLower(field)

	if strings.HasPrefix(field, customFieldPrefix) {
		field = "cf_" + field[len(customFieldPrefix):]
	}

	return field
}
