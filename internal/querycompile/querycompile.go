// Package querycompile implements the Full-Text Query Compiler: it turns a
// raw query string into a {primary, fallback?} pair safe for the store's
// indexed-search backend (SQLite FTS5 MATCH syntax).
//
// Grounded on the teacher's internal/search/query.go query-builder
// tokenizing helpers, adapted into a pure function since the spec requires
// determinism rather than a fluent builder.
package querycompile

import (
	"strings"
	"unicode"
)

// CompiledQuery is the {primary, fallback?} pair. Fallback is empty for
// single-token input.
type CompiledQuery struct {
	Primary  string
	Fallback string
}

// reserved are FTS5 operator characters that must be neutralized by quoting
// the token that contains them.
const reserved = `^*:()"-`

// Compile transforms raw into a primary prefix-conjunctive expression and,
// for multi-token input, a prefix-disjunctive fallback.
func Compile(raw string) CompiledQuery {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return CompiledQuery{Primary: ""}
	}

	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = quoteToken(t)
	}

	primary := strings.Join(quoted, " AND ")
	cq := CompiledQuery{Primary: primary}
	if len(tokens) > 1 {
		cq.Fallback = strings.Join(quoted, " OR ")
	}
	return cq
}

// tokenize splits on whitespace, dropping empty tokens and stripping
// double quotes so they can never reach the backend unbalanced.
func tokenize(raw string) []string {
	cleaned := strings.ReplaceAll(raw, `"`, "")
	fields := strings.FieldsFunc(cleaned, unicode.IsSpace)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// quoteToken renders a single token as an FTS5 prefix match. Tokens
// containing reserved operator characters are wrapped in double quotes so
// they are treated as a literal prefix rather than parsed as operators.
func quoteToken(token string) string {
	if strings.ContainsAny(token, reserved) {
		return `"` + token + `"*`
	}
	return token + "*"
}
