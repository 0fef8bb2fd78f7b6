// Package citation implements the Citation Grammar component: pluggable,
// per-jurisdiction parsers that turn a citation string into a structured
// ParsedCitation plus canonical lookup forms.
//
// Grounded on the teacher's internal/citation/extractor.go (format-keyed
// pattern table) and normalizer.go (per-format normalize/generate
// symmetry), generalized from case-citation formats to statute-citation
// formats.
package citation

import "github.com/gongahkia/lexcore/pkg/models"

// Grammar parses a single jurisdiction's citation syntax. Parse returns nil
// when raw does not match any recognized shape.
type Grammar interface {
	Parse(raw string) *models.ParsedCitation
}

// Registry of grammars keyed by lowercase jurisdiction code. Not the same
// as the adapter Registry; this is a pure lookup table built at package
// init time.
var byJurisdiction = map[string]Grammar{
	"de": NewGerman(),
	"se": NewSwedish(),
	"no": NewNorwegian(),
}

// For looks up the grammar for a jurisdiction code, case-insensitively.
// Returns nil if none is registered.
func For(jurisdiction string) Grammar {
	return byJurisdiction[normalizeCode(jurisdiction)]
}

func normalizeCode(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
